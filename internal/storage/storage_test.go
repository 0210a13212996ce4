package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cole-vita-unc/CheekyWebScraper/internal/models"
)

func newResult(url string, status models.ResultStatus) *models.Result {
	record := models.NewProductRecord()
	record.Fill(models.FieldTitle, "Test Product")
	return &models.Result{
		URL:         url,
		Record:      record,
		Status:      status,
		ExtractedAt: time.Now().UTC(),
	}
}

func TestResultStoreSaveAndReload(t *testing.T) {
	file := filepath.Join(t.TempDir(), "results.json")

	store, err := NewResultStore(file)
	require.NoError(t, err)

	require.NoError(t, store.Save(newResult("https://shop.example/p/1", models.StatusCompleted)))
	require.NoError(t, store.Save(newResult("https://shop.example/p/2", models.StatusFailed)))

	reopened, err := NewResultStore(file)
	require.NoError(t, err)

	result, ok := reopened.Get("https://shop.example/p/1")
	require.True(t, ok)
	assert.Equal(t, models.StatusCompleted, result.Status)

	title, _ := result.Record.Get(models.FieldTitle)
	assert.Equal(t, "Test Product", title)
}

func TestResultStoreReplacesEarlierAttempt(t *testing.T) {
	file := filepath.Join(t.TempDir(), "results.json")

	store, err := NewResultStore(file)
	require.NoError(t, err)

	require.NoError(t, store.Save(newResult("https://shop.example/p/1", models.StatusFailed)))
	require.NoError(t, store.Save(newResult("https://shop.example/p/1", models.StatusCompleted)))

	assert.Equal(t, map[string]int{"completed": 1, "total": 1}, store.Stats())
}

func TestResultStoreListOrdered(t *testing.T) {
	file := filepath.Join(t.TempDir(), "results.json")

	store, err := NewResultStore(file)
	require.NoError(t, err)

	require.NoError(t, store.Save(newResult("https://shop.example/p/b", models.StatusCompleted)))
	require.NoError(t, store.Save(newResult("https://shop.example/p/a", models.StatusCompleted)))

	results := store.List()
	require.Len(t, results, 2)
	assert.Equal(t, "https://shop.example/p/a", results[0].URL)
}

func TestResultStoreRejectsMissingURL(t *testing.T) {
	file := filepath.Join(t.TempDir(), "results.json")

	store, err := NewResultStore(file)
	require.NoError(t, err)

	assert.Error(t, store.Save(&models.Result{}))
	assert.Error(t, store.Save(nil))
}
