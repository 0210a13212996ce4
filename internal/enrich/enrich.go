package enrich

import (
	"context"
	"log/slog"
	"strings"

	"github.com/cole-vita-unc/CheekyWebScraper/internal/models"
)

// CompletionService produces a text completion for a prompt. Implemented by
// the OpenAI-compatible client; tests substitute a fake.
type CompletionService interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Enricher fills record fields the page itself did not reveal by asking a
// completion model to infer them from the product title. Fields already
// holding a value are never touched.
type Enricher struct {
	service CompletionService
	logger  *slog.Logger
}

func NewEnricher(service CompletionService) *Enricher {
	return &Enricher{
		service: service,
		logger:  slog.With("component", "enricher"),
	}
}

// Enrich requests inferred attributes for the record and fills any absent
// fields from the response. Returns the number of fields filled. A record
// without a title cannot be enriched and returns 0 without error.
func (e *Enricher) Enrich(ctx context.Context, record *models.ProductRecord) (int, error) {
	if record == nil {
		return 0, nil
	}

	title, ok := record.Get(models.FieldTitle)
	if !ok {
		e.logger.Info("no product title found, skipping enrichment")
		return 0, nil
	}

	completion, err := e.service.Complete(ctx, BuildPrompt(title))
	if err != nil {
		return 0, err
	}

	filled := ParseCompletion(completion, record)
	e.logger.Debug("enrichment applied", "fields_filled", filled)
	return filled, nil
}

// ParseCompletion applies a model response to the record. Each line holding
// a "Key - Value" pair is matched against the canonical field names
// case-insensitively; unknown keys, malformed lines, and "Not specified"
// values are ignored. Returns the number of fields filled.
func ParseCompletion(completion string, record *models.ProductRecord) int {
	filled := 0
	for _, line := range strings.Split(completion, "\n") {
		parts := strings.SplitN(line, " - ", 2)
		if len(parts) != 2 {
			continue
		}

		field, ok := models.FieldByName(parts[0])
		if !ok {
			continue
		}

		value := strings.TrimSpace(parts[1])
		if strings.EqualFold(value, "not specified") {
			continue
		}

		if record.Fill(field, value) {
			filled++
		}
	}
	return filled
}
