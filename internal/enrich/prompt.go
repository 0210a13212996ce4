package enrich

import "fmt"

// promptTemplate is a few-shot instruction asking the completion model to
// infer product attributes from a page title. Each example answer uses one
// "Key - Value" line per attribute so the response can be parsed line by
// line, with "Not specified" marking attributes the title does not reveal.
const promptTemplate = `I am an AI model trained to identify details about a product from a given description. Here are a few examples:

Description: "Buy Blue & Grey Handbags for Women by BAGGIT Online | Ajio.com"
Details:
Brand - Ajio
Color - Blue and Grey
Type - Handbag
Material - Not specified
Fit - Not specified
Gender - Women

Description: "NIKE Air Force 1 Low LV8 1-Womens 7.5 CW0984-100"
Details:
Brand - Nike
Color - White
Type - Shoe
Material - Not specified
Fit - Not specified
Gender - Women

Description: "Amazon.com: Swarovski Attract Trilogy Drop Pierced Earrings with White Crystals on a Rhodium Plated Setting with Hinged Closure, 1 1/8 inches: Clothing, Shoes & Jewelry"
Details:
Brand - Swarovski
Color - White
Type - Jewelry
Material - Crystals
Fit - Not specified
Gender - Women

You can assume products like skirts, corsets, and dresses have the gender attribute "Women"

Now, for the following description, please identify the product details:

Description: %s
Details:
`

// BuildPrompt renders the enrichment prompt for a product title.
func BuildPrompt(title string) string {
	return fmt.Sprintf(promptTemplate, title)
}
