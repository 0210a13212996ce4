package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/cole-vita-unc/CheekyWebScraper/internal/models"
)

// ResultStore keeps extraction results keyed by page URL and persists the
// full set to a JSON file after every change. Re-running a batch over the
// same file resumes with earlier results intact.
type ResultStore struct {
	mu       sync.RWMutex
	results  map[string]*models.Result
	filename string
}

func NewResultStore(filename string) (*ResultStore, error) {
	rs := &ResultStore{
		results:  make(map[string]*models.Result),
		filename: filename,
	}

	if err := rs.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load existing results: %w", err)
	}

	return rs, nil
}

// Save stores the result for its URL, replacing any earlier attempt.
func (rs *ResultStore) Save(result *models.Result) error {
	if result == nil || result.URL == "" {
		return fmt.Errorf("result must carry a URL")
	}

	rs.mu.Lock()
	defer rs.mu.Unlock()

	rs.results[result.URL] = result
	return rs.persist()
}

func (rs *ResultStore) Get(url string) (*models.Result, bool) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	result, exists := rs.results[url]
	return result, exists
}

// List returns all results ordered by URL for stable output.
func (rs *ResultStore) List() []*models.Result {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	results := make([]*models.Result, 0, len(rs.results))
	for _, r := range rs.results {
		results = append(results, r)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].URL < results[j].URL
	})
	return results
}

// Stats counts stored results by status, plus a "total" entry.
func (rs *ResultStore) Stats() map[string]int {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	stats := make(map[string]int)
	for _, r := range rs.results {
		stats[string(r.Status)]++
	}
	stats["total"] = len(rs.results)
	return stats
}

// persist writes through a temp file so a crash mid-write cannot corrupt
// the results file.
func (rs *ResultStore) persist() error {
	data, err := json.MarshalIndent(rs.results, "", "  ")
	if err != nil {
		return err
	}

	tmpFile := rs.filename + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return err
	}

	return os.Rename(tmpFile, rs.filename)
}

func (rs *ResultStore) Load() error {
	data, err := os.ReadFile(rs.filename)
	if err != nil {
		return err
	}

	return json.Unmarshal(data, &rs.results)
}
