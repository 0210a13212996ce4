package models

// StructuredProductData mirrors the subset of the schema.org Product
// vocabulary the pipeline consumes. All fields are optional; an empty
// string means the source block did not carry the value.
type StructuredProductData struct {
	Name   string
	Price  string
	Brand  string
	Color  string
	Gender string
	Image  string
}
