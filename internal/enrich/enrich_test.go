package enrich

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cole-vita-unc/CheekyWebScraper/internal/models"
)

type fakeCompletion struct {
	response string
	err      error
	prompt   string
}

func (f *fakeCompletion) Complete(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.response, f.err
}

func TestEnrichFillsAbsentFields(t *testing.T) {
	record := models.NewProductRecord()
	record.Fill(models.FieldTitle, "Moschino Panelled Midi Dress")
	record.Fill(models.FieldPrice, "515")

	service := &fakeCompletion{response: "Brand - Moschino\nGender - Women\nType - Dress\nMaterial - Not specified"}
	enricher := NewEnricher(service)

	filled, err := enricher.Enrich(context.Background(), record)
	require.NoError(t, err)
	assert.Equal(t, 3, filled)

	brand, _ := record.Get(models.FieldBrand)
	assert.Equal(t, "Moschino", brand)
	gender, _ := record.Get(models.FieldGender)
	assert.Equal(t, "Women", gender)
	kind, _ := record.Get(models.FieldType)
	assert.Equal(t, "Dress", kind)

	price, _ := record.Get(models.FieldPrice)
	assert.Equal(t, "515", price)
	assert.True(t, strings.Contains(service.prompt, "Moschino Panelled Midi Dress"))
}

func TestEnrichNeverOverwrites(t *testing.T) {
	record := models.NewProductRecord()
	record.Fill(models.FieldTitle, "Nike Air Force 1")
	record.Fill(models.FieldBrand, "Nike")

	service := &fakeCompletion{response: "Brand - Adidas\nColor - White"}
	enricher := NewEnricher(service)

	filled, err := enricher.Enrich(context.Background(), record)
	require.NoError(t, err)
	assert.Equal(t, 1, filled)

	brand, _ := record.Get(models.FieldBrand)
	assert.Equal(t, "Nike", brand)
}

func TestEnrichNoTitle(t *testing.T) {
	record := models.NewProductRecord()
	record.Fill(models.FieldPrice, "49")

	service := &fakeCompletion{response: "Brand - Something"}
	enricher := NewEnricher(service)

	filled, err := enricher.Enrich(context.Background(), record)
	require.NoError(t, err)
	assert.Equal(t, 0, filled)
	assert.Empty(t, service.prompt)
}

func TestEnrichServiceError(t *testing.T) {
	record := models.NewProductRecord()
	record.Fill(models.FieldTitle, "Some Product")

	service := &fakeCompletion{err: errors.New("rate limited")}
	enricher := NewEnricher(service)

	filled, err := enricher.Enrich(context.Background(), record)
	assert.Error(t, err)
	assert.Equal(t, 0, filled)
}

func TestParseCompletion(t *testing.T) {
	tests := []struct {
		name       string
		completion string
		wantFilled int
		wantBrand  string
	}{
		{
			name:       "standard lines",
			completion: "Brand - Swarovski\nColor - White",
			wantFilled: 2,
			wantBrand:  "Swarovski",
		},
		{
			name:       "lowercase keys",
			completion: "brand - Swarovski",
			wantFilled: 1,
			wantBrand:  "Swarovski",
		},
		{
			name:       "value containing the separator",
			completion: "Brand - Dolce - Gabbana",
			wantFilled: 1,
			wantBrand:  "Dolce - Gabbana",
		},
		{
			name:       "not specified skipped",
			completion: "Brand - Not Specified\nColor - Red",
			wantFilled: 1,
		},
		{
			name:       "unknown keys and noise ignored",
			completion: "Details:\nMaterial - Silk\nBrand - Prada",
			wantFilled: 1,
			wantBrand:  "Prada",
		},
		{
			name:       "empty response",
			completion: "",
			wantFilled: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := models.NewProductRecord()
			filled := ParseCompletion(tt.completion, record)
			assert.Equal(t, tt.wantFilled, filled)
			if tt.wantBrand != "" {
				brand, _ := record.Get(models.FieldBrand)
				assert.Equal(t, tt.wantBrand, brand)
			}
		})
	}
}
