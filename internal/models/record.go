package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Field identifies one canonical product attribute.
type Field int

const (
	FieldTitle Field = iota
	FieldBrand
	FieldType
	FieldPrice
	FieldColor
	FieldGender
)

var fieldNames = [...]string{
	FieldTitle:  "TITLE",
	FieldBrand:  "BRAND",
	FieldType:   "TYPE",
	FieldPrice:  "PRICE",
	FieldColor:  "COLOR",
	FieldGender: "GENDER",
}

// AllFields returns every field in serialization order.
func AllFields() []Field {
	return []Field{FieldTitle, FieldBrand, FieldType, FieldPrice, FieldColor, FieldGender}
}

func (f Field) String() string {
	if int(f) < 0 || int(f) >= len(fieldNames) {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldNames[f]
}

// FieldByName resolves a field name case-insensitively.
func FieldByName(name string) (Field, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for _, f := range AllFields() {
		if fieldNames[f] == name {
			return f, true
		}
	}
	return 0, false
}

// ProductRecord is the canonical output unit for one product page. A field
// may only transition from absent to a value; it is never overwritten.
type ProductRecord struct {
	values map[Field]string
}

func NewProductRecord() *ProductRecord {
	return &ProductRecord{values: make(map[Field]string)}
}

// Get returns the field value and whether it is set.
func (r *ProductRecord) Get(f Field) (string, bool) {
	if r == nil || r.values == nil {
		return "", false
	}
	v, ok := r.values[f]
	return v, ok
}

// Has reports whether the field holds a value.
func (r *ProductRecord) Has(f Field) bool {
	_, ok := r.Get(f)
	return ok
}

// Fill sets a field only if it is currently absent and the value is
// non-empty. It reports whether the field was set.
func (r *ProductRecord) Fill(f Field, value string) bool {
	if r == nil {
		return false
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	if _, ok := r.values[f]; ok {
		return false
	}
	if r.values == nil {
		r.values = make(map[Field]string)
	}
	r.values[f] = value
	return true
}

// Discard removes a field value, returning the field to the absent state so
// a later source may fill it. Used when a value fails a plausibility check.
func (r *ProductRecord) Discard(f Field) {
	if r == nil || r.values == nil {
		return
	}
	delete(r.values, f)
}

// Merge fills every absent field of r from other and returns the number of
// fields filled. Fields already set on r are left untouched.
func (r *ProductRecord) Merge(other *ProductRecord) int {
	if r == nil || other == nil {
		return 0
	}
	filled := 0
	for _, f := range AllFields() {
		if v, ok := other.Get(f); ok {
			if r.Fill(f, v) {
				filled++
			}
		}
	}
	return filled
}

// FilledCount returns the number of fields holding a value.
func (r *ProductRecord) FilledCount() int {
	if r == nil {
		return 0
	}
	return len(r.values)
}

// MarshalJSON serializes the record as a flat object with all six field
// keys, using null for absent fields.
func (r *ProductRecord) MarshalJSON() ([]byte, error) {
	out := make(map[string]*string, len(fieldNames))
	for _, f := range AllFields() {
		if v, ok := r.Get(f); ok {
			value := v
			out[f.String()] = &value
		} else {
			out[f.String()] = nil
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores a record from its flat form. Unknown keys are
// ignored; null values stay absent.
func (r *ProductRecord) UnmarshalJSON(data []byte) error {
	var raw map[string]*string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.values = make(map[Field]string)
	for name, value := range raw {
		if value == nil {
			continue
		}
		if f, ok := FieldByName(name); ok {
			r.values[f] = *value
		}
	}
	return nil
}
