package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/cole-vita-unc/CheekyWebScraper/internal/browser"
	"github.com/cole-vita-unc/CheekyWebScraper/internal/config"
	"github.com/cole-vita-unc/CheekyWebScraper/internal/database"
	"github.com/cole-vita-unc/CheekyWebScraper/internal/enrich"
	"github.com/cole-vita-unc/CheekyWebScraper/internal/events"
	"github.com/cole-vita-unc/CheekyWebScraper/internal/metrics"
	"github.com/cole-vita-unc/CheekyWebScraper/internal/models"
	"github.com/cole-vita-unc/CheekyWebScraper/internal/pipeline"
	"github.com/cole-vita-unc/CheekyWebScraper/internal/queue"
	"github.com/cole-vita-unc/CheekyWebScraper/internal/ratelimit"
	"github.com/cole-vita-unc/CheekyWebScraper/internal/storage"
)

func main() {
	var (
		urlList  = flag.String("urls", "", "comma separated product page URLs")
		urlFile  = flag.String("file", "", "file with one product page URL per line")
		output   = flag.String("output", "", "results file (overrides OUTPUT_RESULTS_FILE)")
		headless = flag.Bool("headless", true, "run the browser headless")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.Logging)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	urls, err := collectURLs(*urlList, *urlFile)
	if err != nil {
		logger.Error("failed to read URLs", "error", err)
		os.Exit(1)
	}
	if len(urls) == 0 {
		fmt.Fprintln(os.Stderr, "no URLs given: use -urls or -file")
		flag.Usage()
		os.Exit(2)
	}

	if *output != "" {
		cfg.Output.ResultsFile = *output
	}
	cfg.Browser.Headless = *headless

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		logger.Info("shutdown requested, finishing current page")
		cancel()
	}()

	if err := run(ctx, cfg, urls, logger); err != nil {
		logger.Error("extraction run failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, urls []string, logger *slog.Logger) error {
	b, err := browser.New(&browser.Options{
		Headless:       cfg.Browser.Headless,
		Timeout:        cfg.Browser.Timeout,
		ViewportWidth:  cfg.Browser.ViewportWidth,
		ViewportHeight: cfg.Browser.ViewportHeight,
		AcceptLanguage: cfg.Browser.AcceptLanguage,
		TimezoneID:     cfg.Browser.TimezoneID,
		Locale:         cfg.Browser.Locale,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize browser: %w", err)
	}
	defer b.Close()

	store, err := storage.NewResultStore(cfg.Output.ResultsFile)
	if err != nil {
		return fmt.Errorf("failed to open result store: %w", err)
	}

	var repo *database.RecordRepository
	if cfg.Database.Enabled {
		db, err := database.New(ctx, database.Config{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			Database: cfg.Database.DBName,
			MaxConns: 5,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		if err := db.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("failed to ensure database schema: %w", err)
		}
		repo = database.NewRecordRepository(db)
	}

	var publisher *events.Publisher
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		publisher = events.NewPublisher(redisClient, cfg.Redis.Stream)
		defer publisher.Close()
	}

	var enricher *enrich.Enricher
	if cfg.EnrichmentEnabled() {
		enricher = enrich.NewEnricher(enrich.NewOpenAIClient(enrich.OpenAIConfig{
			APIKey:      cfg.Completion.APIKey,
			BaseURL:     cfg.Completion.BaseURL,
			Model:       cfg.Completion.Model,
			MaxTokens:   cfg.Completion.MaxTokens,
			Temperature: cfg.Completion.Temperature,
			Timeout:     cfg.Completion.Timeout,
			MaxRetries:  cfg.Completion.MaxRetries,
		}))
	} else {
		logger.Warn("no completion API key configured, enrichment disabled")
	}

	service := pipeline.NewService(pipeline.ServiceOptions{
		Browser:    b,
		Pipeline:   pipeline.New(enricher, metrics.New()),
		Store:      store,
		Repo:       repo,
		Publisher:  publisher,
		Limiter:    ratelimit.NewAdaptiveRateLimiter(cfg.Scraper.RateLimitMin, cfg.Scraper.RateLimitMax),
		MaxRetries: cfg.Scraper.MaxRetries,
	})

	q := queue.NewInMemoryQueue(cfg.Queue.MaxSize)
	for _, url := range urls {
		if err := q.Push(queue.NewTask(url, 0)); err != nil {
			return fmt.Errorf("failed to enqueue %s: %w", url, err)
		}
	}
	q.Close()

	completed, failed := 0, 0
	for {
		task, err := q.Pop(ctx)
		if err != nil {
			if errors.Is(err, queue.ErrQueueClosed) {
				break
			}
			if errors.Is(err, context.Canceled) {
				logger.Info("run canceled", "remaining", q.Size())
				break
			}
			return fmt.Errorf("failed to pop task: %w", err)
		}

		logger.Info("processing page", "url", task.URL)
		result, err := service.ExtractURL(ctx, task.URL)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			logger.Error("page could not be processed", "url", task.URL, "error", err)
			failed++
			continue
		}

		if result.Status == models.StatusCompleted {
			completed++
		} else {
			failed++
		}
	}

	logger.Info("run finished",
		"completed", completed,
		"failed", failed,
		"results_file", cfg.Output.ResultsFile)

	fmt.Printf("Processed %d page(s): %d completed, %d failed. Results in %s\n",
		completed+failed, completed, failed, cfg.Output.ResultsFile)

	return nil
}

func collectURLs(urlList, urlFile string) ([]string, error) {
	var urls []string

	for _, u := range strings.Split(urlList, ",") {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}

	if urlFile != "" {
		f, err := os.Open(urlFile)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			urls = append(urls, line)
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
	}

	return urls, nil
}

func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
