package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cole-vita-unc/CheekyWebScraper/internal/models"
	"github.com/cole-vita-unc/CheekyWebScraper/internal/storage"
)

type fakeService struct {
	result *models.Result
	err    error
}

func (f *fakeService) ExtractURL(_ context.Context, url string) (*models.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.result.URL = url
	return f.result, nil
}

func newHandlers(t *testing.T, service ExtractService) (*Handlers, *storage.ResultStore) {
	t.Helper()
	store, err := storage.NewResultStore(filepath.Join(t.TempDir(), "results.json"))
	require.NoError(t, err)
	return NewHandlers(service, store, slog.Default()), store
}

func completedResult() *models.Result {
	record := models.NewProductRecord()
	record.Fill(models.FieldTitle, "Crystal Earrings")
	return &models.Result{
		Record:      record,
		Status:      models.StatusCompleted,
		ExtractedAt: time.Now().UTC(),
	}
}

func TestExtractHandler(t *testing.T) {
	handlers, _ := newHandlers(t, &fakeService{result: completedResult()})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/extract",
		strings.NewReader(`{"url": "https://shop.example/p/1"}`))
	rec := httptest.NewRecorder()

	handlers.Extract(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result models.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "https://shop.example/p/1", result.URL)
	assert.Equal(t, models.StatusCompleted, result.Status)
}

func TestExtractHandlerRejectsBadURL(t *testing.T) {
	handlers, _ := newHandlers(t, &fakeService{result: completedResult()})

	for _, body := range []string{`{"url": ""}`, `{"url": "not-a-url"}`, `{broken`} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/extract", strings.NewReader(body))
		rec := httptest.NewRecorder()

		handlers.Extract(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
	}
}

func TestExtractHandlerServiceError(t *testing.T) {
	handlers, _ := newHandlers(t, &fakeService{err: errors.New("browser unavailable")})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/extract",
		strings.NewReader(`{"url": "https://shop.example/p/2"}`))
	rec := httptest.NewRecorder()

	handlers.Extract(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetRecordAndStats(t *testing.T) {
	handlers, store := newHandlers(t, &fakeService{result: completedResult()})

	stored := completedResult()
	stored.URL = "https://shop.example/p/3"
	require.NoError(t, store.Save(stored))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/records/lookup?url=https%3A%2F%2Fshop.example%2Fp%2F3", nil)
	rec := httptest.NewRecorder()
	handlers.GetRecord(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/records/lookup?url=https%3A%2F%2Fshop.example%2Fmissing", nil)
	rec = httptest.NewRecorder()
	handlers.GetRecord(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	rec = httptest.NewRecorder()
	handlers.GetStats(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats["total"])
}
