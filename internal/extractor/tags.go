package extractor

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/cole-vita-unc/CheekyWebScraper/internal/models"
)

// ExtractFromTags scans the markup for common metadata and CSS-class
// conventions. Each field uses an ordered list of lookups, taking the first
// that yields a non-empty value; a missing lookup simply leaves the field
// absent. Used when no structured product data exists on the page.
func ExtractFromTags(doc *goquery.Document) *models.ProductRecord {
	if doc == nil {
		slog.Warn("invalid or empty markup for tag extraction")
		return nil
	}

	record := models.NewProductRecord()

	title := metaContent(doc, `meta[name="title"]`)
	if title == "" {
		title = metaContent(doc, `meta[property="og:title"]`)
	}
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	record.Fill(models.FieldTitle, title)

	brand := metaContent(doc, `meta[property="og:site_name"]`)
	if brand == "" {
		brand = firstText(doc, `[class*="brand-name"]`)
	}
	record.Fill(models.FieldBrand, brand)

	price := metaContent(doc, `meta[name="twitter:data1"]`)
	if price == "" {
		price = firstText(doc, `div[class*="product-price"], span[class*="product-price"]`)
	}
	record.Fill(models.FieldPrice, price)

	record.Fill(models.FieldColor, firstText(doc, "span.product-color"))
	record.Fill(models.FieldGender, firstText(doc, "span.product-gender"))

	return record
}

func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(content)
}

func firstText(doc *goquery.Document, selector string) string {
	return strings.TrimSpace(doc.Find(selector).First().Text())
}
