package extractor

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// LiveSession executes a script expression inside a live rendered page and
// returns its result. Visual price detection needs real layout geometry, so
// it cannot run against static markup.
type LiveSession interface {
	Evaluate(expression string) (any, error)
}

// priceCollectScript gathers, for every element under body, the trimmed
// text plus computed font size and bounding-box position. Elements with
// text over 30 characters or a box at the origin (non-rendered/detached)
// are dropped in-page; filtering and ranking happen on the Go side.
const priceCollectScript = `(() => {
	const records = [];
	for (const element of document.querySelectorAll('body *')) {
		const text = element.textContent.trim();
		const box = element.getBoundingClientRect();
		if (text.length === 0 || text.length > 30) {
			continue;
		}
		if (box.x === 0 && box.y === 0) {
			continue;
		}
		records.push({
			text: text,
			fontSize: parseInt(window.getComputedStyle(element)['fontSize']) || 0,
			x: box.x,
			y: box.y,
		});
	}
	return records;
})()`

// pricePattern matches price-like text: optional "US " prefix, optional
// currency marker, digits with optional thousands separators and decimal
// fraction, optional trailing AED marker.
var pricePattern = regexp.MustCompile(`^(US )?(rs\.|Rs\.|RS\.|\$|₹|INR|USD|CAD|C\$)? ?[0-9][0-9,]*(\.[0-9]+)? ?(AED)?$`)

// maxPriceY is the vertical cutoff in layout units. Price-like text below
// it is assumed to be footer or unrelated content. The boundary itself is
// included: y == 600 passes, y > 600 is rejected.
const maxPriceY = 600

type priceCandidate struct {
	Text     string
	FontSize float64
	X        float64
	Y        float64
}

// ExtractVisiblePrice finds the most visually prominent price-like text in
// a live rendered page: the largest font size wins, ties broken by the
// topmost position. Best effort; returns false when nothing matches.
func ExtractVisiblePrice(session LiveSession) (string, bool) {
	if session == nil {
		return "", false
	}

	result, err := session.Evaluate(priceCollectScript)
	if err != nil {
		return "", false
	}

	return selectPrice(parseCandidates(result))
}

// selectPrice applies the price filter and ranking to collected candidates.
func selectPrice(candidates []priceCandidate) (string, bool) {
	var plausible []priceCandidate
	for _, c := range candidates {
		if !canBePrice(c) {
			continue
		}
		plausible = append(plausible, c)
	}

	if len(plausible) == 0 {
		return "", false
	}

	sort.SliceStable(plausible, func(i, j int) bool {
		if plausible[i].FontSize != plausible[j].FontSize {
			return plausible[i].FontSize > plausible[j].FontSize
		}
		return plausible[i].Y < plausible[j].Y
	})

	return plausible[0].Text, true
}

func canBePrice(c priceCandidate) bool {
	if c.Y > maxPriceY || c.FontSize <= 0 {
		return false
	}
	if utf8.RuneCountInString(c.Text) > 30 || !pricePattern.MatchString(c.Text) {
		return false
	}
	// Guards against strikethrough/deleted-price elements.
	if strings.Contains(c.Text, "del") {
		return false
	}
	return true
}

// parseCandidates converts the loosely typed script result into candidates.
// Entries missing expected keys are skipped.
func parseCandidates(result any) []priceCandidate {
	items, ok := result.([]any)
	if !ok {
		return nil
	}

	candidates := make([]priceCandidate, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		text, ok := m["text"].(string)
		if !ok {
			continue
		}
		candidates = append(candidates, priceCandidate{
			Text:     strings.TrimSpace(text),
			FontSize: toFloat(m["fontSize"]),
			X:        toFloat(m["x"]),
			Y:        toFloat(m["y"]),
		})
	}
	return candidates
}

func toFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case string:
		var f float64
		fmt.Sscanf(t, "%f", &f)
		return f
	}
	return 0
}
