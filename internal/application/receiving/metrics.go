package receiving

import (
	"context"
	"time"
)

// Error counter categories
const (
	ErrorCategoryValidation      = "validation_failed"
	ErrorCategoryProcessing      = "processing_failed"
	ErrorCategoryStartReceiving  = "start_receiving_error"
	ErrorCategoryReceiveGoods    = "receive_goods_error"
	ErrorCategoryPublish         = "publish_failed"
	ErrorCategoryInspectionStore = "inspection_store_failed"
)

// MetricsRecorder records operation latency and error counts. It is a side
// channel: implementations must never return errors, panic, or otherwise
// affect control flow.
type MetricsRecorder interface {
	// RecordLatency records the elapsed time of one operation
	RecordLatency(ctx context.Context, operation string, elapsed time.Duration, asnNumber string)
	// IncrementError increments the error counter for a failure category
	IncrementError(ctx context.Context, operation, category string)
}

// NopMetricsRecorder discards all measurements
type NopMetricsRecorder struct{}

// RecordLatency does nothing
func (NopMetricsRecorder) RecordLatency(context.Context, string, time.Duration, string) {}

// IncrementError does nothing
func (NopMetricsRecorder) IncrementError(context.Context, string, string) {}
