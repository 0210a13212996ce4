package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/cole-vita-unc/CheekyWebScraper/internal/enrich"
	"github.com/cole-vita-unc/CheekyWebScraper/internal/extractor"
	"github.com/cole-vita-unc/CheekyWebScraper/internal/metrics"
	"github.com/cole-vita-unc/CheekyWebScraper/internal/models"
)

// Session is a loaded product page the pipeline can read rendered markup
// from and run scripts against. Satisfied by browser.Page.
type Session interface {
	Content() (string, error)
	Evaluate(expression string) (any, error)
}

// Pipeline runs the layered extraction flow for one product page: structured
// schema data first, tag heuristics when no schema exists, visual price
// detection when the price is still missing, then model enrichment for the
// remaining gaps. Every layer only fills fields the earlier layers left
// absent.
type Pipeline struct {
	enricher *enrich.Enricher
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func New(enricher *enrich.Enricher, m *metrics.Metrics) *Pipeline {
	return &Pipeline{
		enricher: enricher,
		metrics:  m,
		logger:   slog.With("component", "pipeline"),
	}
}

// Extract produces a result for one page. Failures are confined to the
// returned result; Extract never panics outward, so one bad page cannot
// take down a batch.
func (p *Pipeline) Extract(ctx context.Context, url string, session Session) (result *models.Result) {
	result = &models.Result{
		URL:         url,
		Status:      models.StatusPending,
		ExtractedAt: time.Now().UTC(),
	}

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("extraction panicked", "url", url, "panic", r)
			result.Status = models.StatusFailed
			result.Error = fmt.Sprintf("extraction panicked: %v", r)
			result.Record = nil
			p.metrics.IncPage("failed")
		}
	}()

	html, err := session.Content()
	if err != nil {
		return p.fail(result, fmt.Errorf("failed to read page content: %w", err))
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return p.fail(result, fmt.Errorf("failed to parse page markup: %w", err))
	}

	record, mapped := p.extractRecord(doc)

	if !record.Has(models.FieldPrice) {
		if price, ok := extractor.ExtractVisiblePrice(session); ok {
			if record.Fill(models.FieldPrice, price) {
				p.metrics.AddFieldsFilled("visual", 1)
				p.logger.Debug("price recovered from rendered layout", "url", url, "price", price)
			}
		}
	}

	// Second fill-only pass over the schema fields. Only discarded values
	// can resurface here, so the plausibility gate runs again.
	if mapped != nil && !record.Has(models.FieldPrice) {
		if filled := record.Merge(mapped); filled > 0 {
			p.metrics.AddFieldsFilled("schema", filled)
		}
		p.discardImplausiblePrice(record)
	}

	if imageURL, ok := extractor.ExtractImageURL(doc); ok {
		result.ImageURL = imageURL
	}

	result.EnrichedFields = p.enrichRecord(ctx, url, record)

	result.Record = record
	result.Status = models.StatusCompleted
	p.metrics.IncPage("completed")
	p.logger.Info("page extracted",
		"url", url,
		"fields_filled", record.FilledCount(),
		"enriched_fields", result.EnrichedFields)
	return result
}

// extractRecord builds the initial record from static markup. Structured
// schema data takes precedence; tag heuristics run only when no schema
// entry exists. A price of "0" or "1" is a known placeholder artifact and
// is discarded so a later layer may supply the real value. When a schema
// entry exists, the mapped projection is also returned for the later
// fill-only pass.
func (p *Pipeline) extractRecord(doc *goquery.Document) (*models.ProductRecord, *models.ProductRecord) {
	var record, mapped *models.ProductRecord

	if data, ok := extractor.ExtractProductSchema(doc); ok {
		mapped = extractor.MapSchemaFields(data)
		record = models.NewProductRecord()
		p.metrics.AddFieldsFilled("schema", record.Merge(mapped))
	} else {
		record = extractor.ExtractFromTags(doc)
		p.metrics.AddFieldsFilled("tags", record.FilledCount())
	}

	if record == nil {
		record = models.NewProductRecord()
	}

	p.discardImplausiblePrice(record)

	return record, mapped
}

func (p *Pipeline) discardImplausiblePrice(record *models.ProductRecord) {
	if price, ok := record.Get(models.FieldPrice); ok && isImplausiblePrice(price) {
		p.logger.Debug("discarding implausible price", "price", price)
		record.Discard(models.FieldPrice)
	}
}

func (p *Pipeline) enrichRecord(ctx context.Context, url string, record *models.ProductRecord) int {
	if p.enricher == nil {
		return 0
	}

	start := time.Now()
	filled, err := p.enricher.Enrich(ctx, record)
	p.metrics.ObserveEnrichment(time.Since(start))
	if err != nil {
		p.logger.Warn("enrichment failed, keeping extracted fields", "url", url, "error", err)
		p.metrics.IncEnrichmentFailure()
		return 0
	}

	p.metrics.AddFieldsFilled("enrichment", filled)
	return filled
}

func (p *Pipeline) fail(result *models.Result, err error) *models.Result {
	p.logger.Error("extraction failed", "url", result.URL, "error", err)
	result.Status = models.StatusFailed
	result.Error = err.Error()
	p.metrics.IncPage("failed")
	return result
}

func isImplausiblePrice(price string) bool {
	return price == "0" || price == "1"
}
