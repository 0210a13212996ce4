package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cole-vita-unc/CheekyWebScraper/internal/browser"
	"github.com/cole-vita-unc/CheekyWebScraper/internal/database"
	"github.com/cole-vita-unc/CheekyWebScraper/internal/events"
	"github.com/cole-vita-unc/CheekyWebScraper/internal/models"
	"github.com/cole-vita-unc/CheekyWebScraper/internal/ratelimit"
	"github.com/cole-vita-unc/CheekyWebScraper/internal/storage"
)

// Service drives full extractions: it paces page loads, opens pages in the
// shared browser, runs the pipeline, and fans the result out to the
// configured sinks. The file store is the source of truth; database and
// event stream are best effort.
type Service struct {
	browser    *browser.Browser
	pipeline   *Pipeline
	store      *storage.ResultStore
	repo       *database.RecordRepository
	publisher  *events.Publisher
	limiter    ratelimit.RateLimiter
	maxRetries int
	logger     *slog.Logger
}

type ServiceOptions struct {
	Browser    *browser.Browser
	Pipeline   *Pipeline
	Store      *storage.ResultStore
	Repo       *database.RecordRepository
	Publisher  *events.Publisher
	Limiter    ratelimit.RateLimiter
	MaxRetries int
}

func NewService(opts ServiceOptions) *Service {
	return &Service{
		browser:    opts.Browser,
		pipeline:   opts.Pipeline,
		store:      opts.Store,
		repo:       opts.Repo,
		publisher:  opts.Publisher,
		limiter:    opts.Limiter,
		maxRetries: opts.MaxRetries,
		logger:     slog.With("component", "extract_service"),
	}
}

// ExtractURL processes one product page end to end and returns its result.
// Navigation failures produce a failed result rather than an error; an
// error means the result could not be produced or persisted at all.
func (s *Service) ExtractURL(ctx context.Context, url string) (*models.Result, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait canceled: %w", err)
		}
	}

	result := s.extract(ctx, url)

	if s.store != nil {
		if err := s.store.Save(result); err != nil {
			return nil, fmt.Errorf("failed to store result: %w", err)
		}
	}

	if s.repo != nil {
		if err := s.repo.Save(ctx, result); err != nil {
			s.logger.Warn("failed to persist result to database", "url", url, "error", err)
		}
	}

	if s.publisher != nil {
		if err := s.publisher.PublishRecordExtracted(ctx, result); err != nil {
			s.logger.Warn("failed to publish result event", "url", url, "error", err)
		}
	}

	return result, nil
}

func (s *Service) extract(ctx context.Context, url string) *models.Result {
	page, err := s.browser.Open(url, s.maxRetries)
	if err != nil {
		s.recordOutcome(false)
		return failedResult(url, fmt.Errorf("failed to open page: %w", err))
	}
	defer page.Close()

	result := s.pipeline.Extract(ctx, url, page)
	s.recordOutcome(result.Status == models.StatusCompleted)
	return result
}

func (s *Service) recordOutcome(success bool) {
	adaptive, ok := s.limiter.(*ratelimit.AdaptiveRateLimiter)
	if !ok {
		return
	}
	if success {
		adaptive.RecordSuccess()
	} else {
		adaptive.RecordError()
	}
}

func failedResult(url string, err error) *models.Result {
	return &models.Result{
		URL:         url,
		Status:      models.StatusFailed,
		Error:       err.Error(),
		ExtractedAt: time.Now().UTC(),
	}
}
