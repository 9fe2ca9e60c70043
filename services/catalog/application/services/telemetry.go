package services

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"github.com/ghuser/catalog/pkg/logger"
	pkgtelemetry "github.com/ghuser/catalog/pkg/telemetry"
	"github.com/ghuser/catalog/services/catalog/domain"
)

const instrumentationName = "github.com/ghuser/catalog/services/catalog"

// instruments bundles the tracer, the rejection counter and the logger shared
// by the catalog application services.
type instruments struct {
	log        logger.Logger
	tracer     trace.Tracer
	rejections metric.Int64Counter
}

func newInstruments(log logger.Logger) instruments {
	counter, err := otel.Meter(instrumentationName).Int64Counter(
		"catalog.validation.rejections",
		metric.WithDescription("Write requests rejected by catalog validation, by entity and kind."),
	)
	if err != nil {
		log.Warn("catalog: rejection counter unavailable", "error", err)
		counter = noop.Int64Counter{}
	}
	return instruments{
		log:        log,
		tracer:     otel.Tracer(instrumentationName),
		rejections: counter,
	}
}

// fail records err on span and returns it unchanged. Client faults are
// counted and logged at WARN. Not-found errors pass through quietly. Anything
// else is logged at ERROR and reported to Sentry.
func (in instruments) fail(ctx context.Context, span trace.Span, entity, op string, err error) error {
	kind := domain.KindOf(err)
	span.RecordError(err)
	span.SetAttributes(attribute.String("catalog.rejection.kind", kind))

	if domain.IsClientFault(err) {
		in.rejections.Add(ctx, 1, metric.WithAttributes(
			attribute.String("entity", entity),
			attribute.String("kind", kind),
		))
		in.log.WarnContext(ctx, "catalog: write rejected",
			"entity", entity, "op", op, "kind", kind, "reason", err.Error())
		return err
	}

	if !isNotFound(err) {
		span.SetStatus(codes.Error, err.Error())
		in.log.ErrorContext(ctx, "catalog: operation failed",
			"entity", entity, "op", op, "kind", kind, "error", err)
		pkgtelemetry.CaptureError(ctx, err, map[string]string{"entity": entity, "op": op, "kind": kind})
	}
	return err
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrAuthorNotFound) ||
		errors.Is(err, domain.ErrCategoryNotFound) ||
		errors.Is(err, domain.ErrBookNotFound)
}
