// Package events carries catalog domain events over PostgreSQL with Watermill.
//
// Book writes publish inside the same transaction as the row change
// (PublishTx), so an event exists if and only if the write committed. In
// forwarder mode those messages land in an outbox topic and a Forwarder
// daemon relays them to their real topic; the worker consumes them to keep
// the Redis read model in sync.
//
// Delivery semantics:
//   - All instances sharing Options.ConsumerGroup load-balance a topic, so
//     each message is processed by exactly one of them.
//   - A handler error is retried with exponential backoff, then Nacked for
//     redelivery. Errors wrapped with Permanent skip the retries and are
//     Acked, so a corrupt payload cannot wedge a topic.
//
// OTel trace context travels in message metadata: injected on publish and
// restored around every handler call.
package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	watermillsql "github.com/ThreeDotsLabs/watermill-sql/v3/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/ghuser/catalog/pkg/config"
	"github.com/ghuser/catalog/pkg/logger"
)

const (
	shutdownTimeout = 30 * time.Second
	forwarderTopic  = "catalog_outbox" // internal outbox topic drained by the Forwarder
	instrumentation = "github.com/ghuser/catalog/pkg/events"
)

// Handler outcomes recorded on the catalog.events.handled counter.
const (
	outcomeAcked     = "acked"
	outcomeNacked    = "nacked"
	outcomeDiscarded = "discarded"
)

// Options tunes an EventBus.
type Options struct {
	// ConsumerGroup is shared by every instance that should load-balance a topic.
	ConsumerGroup string
	// Forwarder routes publishes through the outbox topic. StartForwarder must
	// be called on exactly one process that publishes.
	Forwarder bool
	// MaxRetries is the number of handler attempts before a message is Nacked.
	MaxRetries int
	// RetryBaseDelay is the first backoff delay; it doubles after every attempt.
	RetryBaseDelay time.Duration
}

// OptionsFromConfig derives bus options from the service configuration.
func OptionsFromConfig(cfg *config.Config, useForwarder bool) Options {
	return Options{
		ConsumerGroup:  cfg.ServiceName + "-consumer",
		Forwarder:      useForwarder,
		MaxRetries:     cfg.EventMaxRetries,
		RetryBaseDelay: cfg.EventRetryBaseDelay,
	}
}

func (o Options) withDefaults() Options {
	if o.ConsumerGroup == "" {
		o.ConsumerGroup = "catalog-consumer"
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = 3
	}
	if o.RetryBaseDelay <= 0 {
		o.RetryBaseDelay = time.Second
	}
	return o
}

// EventBus is a PostgreSQL-backed pub/sub bus built on Watermill's SQL
// transport. It uses FOR UPDATE SKIP LOCKED under the hood for concurrent-safe
// delivery. The *sql.DB is borrowed from the caller and never closed here.
type EventBus struct {
	subscriber *watermillsql.Subscriber
	fwd        *forwarder.Forwarder // non-nil once StartForwarder succeeded
	db         *sql.DB
	log        logger.Logger
	opts       Options
	wg         sync.WaitGroup

	tracer  trace.Tracer
	handled metric.Int64Counter
}

// New builds an EventBus on db. Watermill tables are created on first use.
// Writes publish only through PublishTx, so the bus holds no standalone
// publisher.
func New(db *sql.DB, opts Options, log logger.Logger) (*EventBus, error) {
	opts = opts.withDefaults()

	sub, err := watermillsql.NewSubscriber(db, subscriberConfig(opts.ConsumerGroup), &slogAdapter{log: log})
	if err != nil {
		return nil, fmt.Errorf("events: new subscriber: %w", err)
	}

	handled, err := otel.Meter(instrumentation).Int64Counter(
		"catalog.events.handled",
		metric.WithDescription("Domain event deliveries by topic and outcome."),
	)
	if err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("events: handled counter: %w", err)
	}

	return &EventBus{
		subscriber: sub,
		db:         db,
		log:        log,
		opts:       opts,
		tracer:     otel.Tracer(instrumentation),
		handled:    handled,
	}, nil
}

func publisherConfig(autoInit bool) watermillsql.PublisherConfig {
	return watermillsql.PublisherConfig{
		SchemaAdapter:        watermillsql.DefaultPostgreSQLSchema{},
		AutoInitializeSchema: autoInit,
	}
}

func subscriberConfig(group string) watermillsql.SubscriberConfig {
	return watermillsql.SubscriberConfig{
		SchemaAdapter:    watermillsql.DefaultPostgreSQLSchema{},
		OffsetsAdapter:   watermillsql.DefaultPostgreSQLOffsetsAdapter{},
		InitializeSchema: true,
		ConsumerGroup:    group,
	}
}

// wrapForwarder envelopes messages for the outbox topic when enabled.
func wrapForwarder(pub message.Publisher, enabled bool) message.Publisher {
	if !enabled {
		return pub
	}
	return forwarder.NewPublisher(pub, forwarder.PublisherConfig{ForwarderTopic: forwarderTopic})
}

// StartForwarder starts the daemon that drains the outbox topic into the
// target topics. It returns once the forwarder is running.
func (q *EventBus) StartForwarder(ctx context.Context) error {
	if !q.opts.Forwarder {
		return errors.New("events: StartForwarder called on non-forwarder EventBus")
	}
	if q.fwd != nil {
		return errors.New("events: forwarder already started")
	}

	wlog := &slogAdapter{log: q.log}

	fwdSub, err := watermillsql.NewSubscriber(q.db, subscriberConfig("catalog-forwarder"), wlog)
	if err != nil {
		return fmt.Errorf("events: new forwarder subscriber: %w", err)
	}
	targetPub, err := watermillsql.NewPublisher(q.db, publisherConfig(true), wlog)
	if err != nil {
		_ = fwdSub.Close()
		return fmt.Errorf("events: new forwarder target publisher: %w", err)
	}

	fwd, err := forwarder.NewForwarder(fwdSub, targetPub, wlog, forwarder.Config{
		ForwarderTopic: forwarderTopic,
	})
	if err != nil {
		_ = targetPub.Close()
		_ = fwdSub.Close()
		return fmt.Errorf("events: create forwarder: %w", err)
	}
	q.fwd = fwd

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		q.log.InfoContext(ctx, "events: forwarder started", "topic", forwarderTopic)
		if err := fwd.Run(ctx); err != nil {
			q.log.ErrorContext(ctx, "events: forwarder stopped with error", "error", err)
			return
		}
		q.log.InfoContext(ctx, "events: forwarder stopped")
	}()

	select {
	case <-fwd.Running():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("events: context cancelled waiting for forwarder: %w", ctx.Err())
	}
}

// NewTxPublisher returns a Publisher bound to tx, so messages commit or roll
// back with the caller's writes. Schema initialisation is skipped because the
// tables exist once the bus has started.
func (q *EventBus) NewTxPublisher(tx *sql.Tx) (message.Publisher, error) {
	pub, err := watermillsql.NewPublisher(tx, publisherConfig(false), &slogAdapter{log: q.log})
	if err != nil {
		return nil, fmt.Errorf("events: new tx publisher: %w", err)
	}
	return wrapForwarder(pub, q.opts.Forwarder), nil
}

// Subscribe runs handler for every message on topic until ctx is cancelled.
//
// The returned channel (capacity 100) receives errors for messages that were
// Nacked after exhausting retries or discarded as permanent failures. Callers
// must drain it. All in-flight handlers finish before Close returns.
func (q *EventBus) Subscribe(ctx context.Context, topic string, handler func(context.Context, *message.Message) error) (<-chan error, error) {
	ch, err := q.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("events: subscribe to %s: %w", topic, err)
	}

	errCh := make(chan error, 100)

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		defer close(errCh)

		for msg := range ch {
			if err := q.consume(ctx, topic, msg, handler); err != nil {
				select {
				case errCh <- err:
				default:
					q.log.ErrorContext(ctx, "events: error channel full, dropping error",
						"error", err, "topic", topic)
				}
			}
		}
	}()

	return errCh, nil
}

// consume handles one message inside a consumer span and settles it.
func (q *EventBus) consume(ctx context.Context, topic string, msg *message.Message, handler func(context.Context, *message.Message) error) error {
	msgCtx, span := q.tracer.Start(extractTrace(ctx, msg), "events.consume "+topic,
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.destination.name", topic),
			attribute.String("messaging.message.id", msg.UUID),
		),
	)
	defer span.End()

	err := retryWithBackoff(msgCtx, msg, handler, q.opts.MaxRetries, q.opts.RetryBaseDelay, q.log)
	outcome := outcomeAcked
	switch {
	case err == nil:
		msg.Ack()
	case IsPermanent(err):
		outcome = outcomeDiscarded
		msg.Ack()
	default:
		outcome = outcomeNacked
		msg.Nack()
	}
	q.handled.Add(msgCtx, 1, metric.WithAttributes(
		attribute.String("topic", topic),
		attribute.String("outcome", outcome),
	))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		return fmt.Errorf("events: %s message %s %s: %w", topic, msg.UUID, outcome, err)
	}
	return nil
}

// retryWithBackoff calls handler up to maxRetries times with exponential
// backoff. Permanent errors stop the loop at once.
func retryWithBackoff(
	ctx context.Context,
	msg *message.Message,
	handler func(context.Context, *message.Message) error,
	maxRetries int,
	baseDelay time.Duration,
	log logger.Logger,
) error {
	delay := baseDelay
	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err = handler(ctx, msg); err == nil {
			return nil
		}
		if IsPermanent(err) {
			return err
		}
		if attempt < maxRetries {
			log.WarnContext(ctx, "events: handler failed, retrying",
				"attempt", attempt,
				"max_retries", maxRetries,
				"next_delay", delay,
				"error", err,
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}
	}
	return fmt.Errorf("events: handler failed after %d retries: %w", maxRetries, err)
}

// Ping checks the EventBus database connection health.
func (q *EventBus) Ping(ctx context.Context) error {
	if err := q.db.PingContext(ctx); err != nil {
		return fmt.Errorf("events: ping db: %w", err)
	}
	return nil
}

// Close stops the subscriber and forwarder, then waits up to 30s for
// in-flight handlers. The shared *sql.DB stays open.
func (q *EventBus) Close() error {
	if err := q.subscriber.Close(); err != nil {
		return fmt.Errorf("events: close subscriber: %w", err)
	}
	if q.fwd != nil {
		if err := q.fwd.Close(); err != nil {
			return fmt.Errorf("events: close forwarder: %w", err)
		}
	}

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(shutdownTimeout):
		q.log.Error("events: timed out waiting for in-flight handlers to complete")
	}
	return nil
}

func extractTrace(ctx context.Context, msg *message.Message) context.Context {
	carrier := propagation.MapCarrier{}
	for k, v := range msg.Metadata {
		carrier[k] = v
	}
	return otel.GetTextMapPropagator().Extract(ctx, carrier)
}

// slogAdapter bridges logger.Logger to watermill.LoggerAdapter.
type slogAdapter struct{ log logger.Logger }

func (a *slogAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.log.Error(msg, append(fieldsToArgs(fields), "error", err)...)
}
func (a *slogAdapter) Info(msg string, fields watermill.LogFields) {
	a.log.Info(msg, fieldsToArgs(fields)...)
}
func (a *slogAdapter) Debug(msg string, fields watermill.LogFields) {
	a.log.Debug(msg, fieldsToArgs(fields)...)
}
func (a *slogAdapter) Trace(msg string, fields watermill.LogFields) {
	a.log.Debug(msg, fieldsToArgs(fields)...)
}
func (a *slogAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &slogAdapter{log: a.log.With(fieldsToArgs(fields)...)}
}

func fieldsToArgs(fields watermill.LogFields) []any {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return args
}
