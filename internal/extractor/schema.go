package extractor

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/cole-vita-unc/CheekyWebScraper/internal/models"
)

// firstProductEntry scans every JSON-LD script block in document order and
// returns the first mapping typed as a schema.org Product. Blocks that fail
// to decode are skipped. A list-valued block contributes its first
// Product-typed element. The first matching script wins; image extraction
// uses the same helper so the policy is uniform across both scans.
func firstProductEntry(doc *goquery.Document) (map[string]any, bool) {
	var entry map[string]any

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var decoded any
		if err := json.Unmarshal([]byte(s.Text()), &decoded); err != nil {
			return true
		}

		switch v := decoded.(type) {
		case map[string]any:
			if isProduct(v) {
				entry = v
				return false
			}
		case []any:
			for _, item := range v {
				if m, ok := item.(map[string]any); ok && isProduct(m) {
					entry = m
					return false
				}
			}
		}
		return true
	})

	return entry, entry != nil
}

func isProduct(m map[string]any) bool {
	t, _ := m["@type"].(string)
	return t == "Product"
}

// ExtractProductSchema locates the first Product-typed JSON-LD entry in the
// markup and decodes the fields the pipeline consumes. Returns false when no
// script block carries a Product entry.
func ExtractProductSchema(doc *goquery.Document) (*models.StructuredProductData, bool) {
	if doc == nil {
		slog.Warn("invalid or empty markup for schema extraction")
		return nil, false
	}

	entry, ok := firstProductEntry(doc)
	if !ok {
		return nil, false
	}

	data := &models.StructuredProductData{
		Name:   stringValue(entry["name"]),
		Color:  stringValue(entry["color"]),
		Gender: stringValue(entry["gender"]),
		Image:  imageValue(entry["image"]),
	}

	if offers, ok := nestedObject(entry["offers"]); ok {
		data.Price = stringValue(offers["price"])
	}

	switch brand := entry["brand"].(type) {
	case map[string]any:
		data.Brand = stringValue(brand["name"])
	case string:
		data.Brand = strings.TrimSpace(brand)
	}

	return data, true
}

// MapSchemaFields projects structured product data into the canonical field
// set. Pure projection: absent source fields leave the output fields absent.
func MapSchemaFields(data *models.StructuredProductData) *models.ProductRecord {
	if data == nil {
		slog.Warn("invalid or empty product schema")
		return nil
	}

	record := models.NewProductRecord()
	record.Fill(models.FieldTitle, data.Name)
	record.Fill(models.FieldPrice, data.Price)
	record.Fill(models.FieldBrand, data.Brand)
	record.Fill(models.FieldColor, data.Color)
	record.Fill(models.FieldGender, data.Gender)
	return record
}

// nestedObject unwraps a value that sites publish either as an object or as
// a one-or-more element list of objects.
func nestedObject(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case []any:
		for _, item := range t {
			if m, ok := item.(map[string]any); ok {
				return m, true
			}
		}
	}
	return nil, false
}

// stringValue renders a loosely typed JSON scalar as a string. Numbers keep
// their shortest decimal form so a JSON price of 515 maps to "515".
func stringValue(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	}
	return ""
}

// imageValue handles the image field's string-or-list forms.
func imageValue(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && s != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}
