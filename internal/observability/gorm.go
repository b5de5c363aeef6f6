// Package observability instruments the shop API with OpenTelemetry spans
// and Server-Timing metrics. Without a configured tracer provider the spans
// are no-ops, and Server-Timing only reports when the request went through
// ServerTiming.
package observability

import (
	"context"

	servertiming "github.com/mitchellh/go-server-timing"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

// TracerName identifies spans emitted by this module.
const TracerName = "shop"

const (
	gormSpanKey   = "shop:gorm:span"
	gormMetricKey = "shop:gorm:metric"
	callbackName  = "shop:observability"
)

// RegisterGORMCallbacks wraps every GORM operation in a span and a "db"
// Server-Timing metric on the request carried by the statement context.
func RegisterGORMCallbacks(db *gorm.DB) error {
	tracer := otel.Tracer(TracerName)
	cb := db.Callback()

	// Query callbacks
	if err := cb.Query().Before("gorm:query").Register(callbackName+":before_query", before(tracer, "db.query")); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register(callbackName+":after_query", after("SELECT")); err != nil {
		return err
	}

	// Create callbacks
	if err := cb.Create().Before("gorm:create").Register(callbackName+":before_create", before(tracer, "db.create")); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Register(callbackName+":after_create", after("INSERT")); err != nil {
		return err
	}

	// Update callbacks
	if err := cb.Update().Before("gorm:update").Register(callbackName+":before_update", before(tracer, "db.update")); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register(callbackName+":after_update", after("UPDATE")); err != nil {
		return err
	}

	// Delete callbacks
	if err := cb.Delete().Before("gorm:delete").Register(callbackName+":before_delete", before(tracer, "db.delete")); err != nil {
		return err
	}
	if err := cb.Delete().After("gorm:delete").Register(callbackName+":after_delete", after("DELETE")); err != nil {
		return err
	}

	// Row callbacks
	if err := cb.Row().Before("gorm:row").Register(callbackName+":before_row", before(tracer, "db.row")); err != nil {
		return err
	}
	if err := cb.Row().After("gorm:row").Register(callbackName+":after_row", after("ROW")); err != nil {
		return err
	}

	// Raw callbacks
	if err := cb.Raw().Before("gorm:raw").Register(callbackName+":before_raw", before(tracer, "db.raw")); err != nil {
		return err
	}
	if err := cb.Raw().After("gorm:raw").Register(callbackName+":after_raw", after("RAW")); err != nil {
		return err
	}

	return nil
}

func before(tracer trace.Tracer, spanName string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		ctx := db.Statement.Context
		if ctx == nil {
			ctx = context.Background()
		}

		ctx, span := tracer.Start(ctx, spanName,
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(attribute.String("db.system", db.Dialector.Name())),
		)
		db.Statement.Context = ctx
		db.InstanceSet(gormSpanKey, span)

		if timing := servertiming.FromContext(ctx); timing != nil {
			db.InstanceSet(gormMetricKey, timing.NewMetric("db").Start())
		}
	}
}

func after(operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		if v, ok := db.InstanceGet(gormMetricKey); ok {
			if metric, ok := v.(*servertiming.Metric); ok {
				metric.WithDesc(operation + " " + db.Statement.Table).Stop()
			}
		}

		v, ok := db.InstanceGet(gormSpanKey)
		if !ok {
			return
		}
		span, ok := v.(trace.Span)
		if !ok {
			return
		}
		defer span.End()

		span.SetAttributes(
			attribute.String("db.operation", operation),
			attribute.Int64("db.rows_affected", db.RowsAffected),
		)
		if table := db.Statement.Table; table != "" {
			span.SetAttributes(attribute.String("db.sql.table", table))
		}
		if db.Error != nil && db.Error != gorm.ErrRecordNotFound {
			span.RecordError(db.Error)
			span.SetStatus(codes.Error, db.Error.Error())
		}
	}
}
