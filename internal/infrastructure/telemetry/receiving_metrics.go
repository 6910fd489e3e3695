package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ReceivingMetrics records operational metrics for the receiving engine.
// All recording methods are safe to call on a nil receiver and never fail:
// a metrics problem must not change how a shipment is processed.
type ReceivingMetrics struct {
	operationDuration *Histogram
	errorsTotal       *Counter
	asnsProcessed     *Counter
	mismatchesTotal   *Counter
	logger            *zap.Logger
}

// NewReceivingMetrics creates the receiving engine instruments on the given meter.
func NewReceivingMetrics(meter metric.Meter, logger *zap.Logger) (*ReceivingMetrics, error) {
	operationDuration, err := NewHistogram(meter, HistogramOpts{
		Name:        "receiving_operation_duration_seconds",
		Description: "Duration of receiving engine operations",
		Unit:        "s",
		Boundaries:  OperationDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	errorsTotal, err := NewCounter(meter,
		"receiving_errors_total",
		"Total errors by operation and category",
		"{error}",
	)
	if err != nil {
		return nil, err
	}

	asnsProcessed, err := NewCounter(meter,
		"receiving_asns_processed_total",
		"Total ASNs accepted into the schedule",
		"{asn}",
	)
	if err != nil {
		return nil, err
	}

	mismatchesTotal, err := NewCounter(meter,
		"receiving_quantity_mismatches_total",
		"Total quantity mismatches detected during receipt",
		"{mismatch}",
	)
	if err != nil {
		return nil, err
	}

	return &ReceivingMetrics{
		operationDuration: operationDuration,
		errorsTotal:       errorsTotal,
		asnsProcessed:     asnsProcessed,
		mismatchesTotal:   mismatchesTotal,
		logger:            logger,
	}, nil
}

// RecordLatency records how long an operation took.
func (m *ReceivingMetrics) RecordLatency(ctx context.Context, operation string, elapsed time.Duration, asnNumber string) {
	if m == nil || m.operationDuration == nil {
		return
	}
	m.operationDuration.RecordDuration(ctx, elapsed,
		AttrOperation.String(operation),
		AttrASNNumber.String(asnNumber),
	)
}

// IncrementError counts one error for an operation under a category.
func (m *ReceivingMetrics) IncrementError(ctx context.Context, operation, category string) {
	if m == nil || m.errorsTotal == nil {
		return
	}
	m.errorsTotal.Inc(ctx,
		AttrOperation.String(operation),
		AttrCategory.String(category),
	)
}

// RecordASNProcessed counts one scheduled ASN.
func (m *ReceivingMetrics) RecordASNProcessed(ctx context.Context, supplierID, dock string) {
	if m == nil || m.asnsProcessed == nil {
		return
	}
	m.asnsProcessed.Inc(ctx,
		AttrSupplier.String(supplierID),
		AttrDock.String(dock),
	)
}

// RecordMismatches counts quantity mismatches found in a receiving batch.
func (m *ReceivingMetrics) RecordMismatches(ctx context.Context, asnNumber string, count int) {
	if m == nil || m.mismatchesTotal == nil || count <= 0 {
		return
	}
	m.mismatchesTotal.Add(ctx, int64(count),
		AttrASNNumber.String(asnNumber),
	)
}
