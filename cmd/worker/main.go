package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/catalog/pkg/app"
	"github.com/ghuser/catalog/pkg/cache"
	"github.com/ghuser/catalog/pkg/config"
	"github.com/ghuser/catalog/pkg/database"
	"github.com/ghuser/catalog/pkg/events"
	"github.com/ghuser/catalog/pkg/logger"
	"github.com/ghuser/catalog/pkg/telemetry"
	bookEvents "github.com/ghuser/catalog/services/catalog/domain/events"
)

func main() {
	if err := run(); err != nil {
		slog.Error("worker exited", "error", err)
		os.Exit(1)
	}
}

// run consumes book events into the Redis read model until SIGINT or SIGTERM.
// Returning triggers the deferred EventBus.Close, which waits for in-flight
// handlers.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := config.ValidateForProduction(cfg); err != nil {
		return err
	}
	log := logger.New(cfg).With("component", "worker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otelShutdown, _, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		return fmt.Errorf("setup otel: %w", err)
	}
	defer otelShutdown(context.Background()) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	eventBus, err := events.New(pool.DB(), events.OptionsFromConfig(cfg, false), log)
	if err != nil {
		return fmt.Errorf("setup event bus: %w", err)
	}
	defer eventBus.Close() //nolint:errcheck

	// The worker exists to maintain the cache, so Redis is mandatory here.
	redisClient, err := cache.NewRedisClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer redisClient.Close() //nolint:errcheck

	a := &app.Application{
		Config:   cfg,
		Db:       pool,
		Logger:   log,
		EventBus: eventBus,
		Redis:    redisClient,
	}
	if err := registerSubscribers(ctx, a); err != nil {
		return fmt.Errorf("register subscribers: %w", err)
	}

	<-ctx.Done()
	log.Info("shutting down worker")
	return nil
}

// bookCacheWriter is the part of cache.BookCache the subscribers need.
// Topics are consumed concurrently, so Set refuses snapshots older than
// the cached entry and anything after a Delete.
type bookCacheWriter interface {
	Set(ctx context.Context, b *cache.CachedBook) (bool, error)
	Delete(ctx context.Context, id int64) error
}

// registerSubscribers wires all domain event handlers.
// Add new topics here as more services publish events.
func registerSubscribers(ctx context.Context, a *app.Application) error {
	bookCache := cache.NewBookCache(a.Redis, a.Config.BookCacheTTL)

	handlers := map[string]func(context.Context, *message.Message) error{
		bookEvents.TopicBookCreated: handleBookCreated(bookCache, a.Logger),
		bookEvents.TopicBookUpdated: handleBookUpdated(bookCache, a.Logger),
		bookEvents.TopicBookDeleted: handleBookDeleted(bookCache, a.Logger),
	}

	topics := make([]string, 0, len(handlers))
	for topic, handler := range handlers {
		errCh, err := a.EventBus.Subscribe(ctx, topic, handler)
		if err != nil {
			return err
		}

		// Drain subscriber errors in background so the channel never blocks.
		go func(topic string) {
			for err := range errCh {
				a.Logger.ErrorContext(ctx, "subscriber error", "topic", topic, "error", err)
			}
		}(topic)
		topics = append(topics, topic)
	}

	a.Logger.Info("event subscribers registered", "topics", topics)
	return nil
}

// handleBookCreated warms the read model so the first GetByID is a cache hit.
// Handlers must be idempotent: EventBus retries transient failures
// (EVENT_MAX_RETRIES) and acks undecodable payloads without retrying.
func handleBookCreated(c bookCacheWriter, log logger.Logger) func(context.Context, *message.Message) error {
	return func(ctx context.Context, msg *message.Message) error {
		var evt bookEvents.BookCreatedEvent
		if err := events.DecodeJSON(msg, &evt); err != nil {
			return err
		}
		warm(ctx, c, log, bookEvents.TopicBookCreated, evt.Book)
		return nil
	}
}

// handleBookUpdated overwrites the read model with the post-update snapshot.
func handleBookUpdated(c bookCacheWriter, log logger.Logger) func(context.Context, *message.Message) error {
	return func(ctx context.Context, msg *message.Message) error {
		var evt bookEvents.BookUpdatedEvent
		if err := events.DecodeJSON(msg, &evt); err != nil {
			return err
		}
		warm(ctx, c, log, bookEvents.TopicBookUpdated, evt.Book)
		return nil
	}
}

// handleBookDeleted evicts the read model. Eviction failures are returned so
// the message is retried; a stale entry would outlive the book.
func handleBookDeleted(c bookCacheWriter, log logger.Logger) func(context.Context, *message.Message) error {
	return func(ctx context.Context, msg *message.Message) error {
		var evt bookEvents.BookDeletedEvent
		if err := events.DecodeJSON(msg, &evt); err != nil {
			return err
		}
		if err := c.Delete(ctx, evt.BookID); err != nil {
			return err
		}
		log.InfoContext(ctx, "cache evicted", "book_id", evt.BookID, "isbn", evt.ISBN)
		return nil
	}
}

func warm(ctx context.Context, c bookCacheWriter, log logger.Logger, topic string, b bookEvents.BookSnapshot) {
	stored, err := c.Set(ctx, &cache.CachedBook{
		ID:              b.BookID,
		Title:           b.Title,
		ISBN:            b.ISBN,
		PublicationDate: b.PublicationDate,
		Price:           b.Price,
		AuthorID:        b.AuthorID,
		CategoryID:      b.CategoryID,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	})
	if err != nil {
		// Cache warming is best-effort; log but do not fail the handler.
		log.WarnContext(ctx, "cache warm failed", "topic", topic, "book_id", b.BookID, "error", err)
		return
	}
	if !stored {
		log.InfoContext(ctx, "cache warm skipped, newer state cached", "topic", topic, "book_id", b.BookID)
		return
	}
	log.InfoContext(ctx, "cache warmed", "topic", topic, "book_id", b.BookID)
}
