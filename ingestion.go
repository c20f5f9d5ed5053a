package langfuse

import (
	"context"
	"time"

	"github.com/curacel/langfuse-go/pkg/errors"
	"github.com/curacel/langfuse-go/pkg/http"
	"github.com/curacel/langfuse-go/pkg/ingestion"
)

// IngestionServiceKey is the circuit breaker key of the ingestion endpoint.
const IngestionServiceKey = "ingestion"

// IngestionClient posts batches to the ingestion endpoint.
//
// Failure policy: when failOnError is set, Ingest returns transport
// failures as *errors.NetworkError and everything else, including partial
// (207) rejections, as *errors.IngestionError. Otherwise failures are
// logged, published to the async error handler and Ingest returns nil.
// Rejected events are never resubmitted.
type IngestionClient struct {
	transport   *http.Transport
	failOnError bool
	logger      StructuredLogger
	metrics     Metrics
	errors      *errors.AsyncErrorHandler
}

// Ingest sends events as one batch. An empty batch is not sent.
func (c *IngestionClient) Ingest(ctx context.Context, events []ingestion.Event) error {
	return c.ingest(ctx, events, errors.AsyncOpIngest)
}

func (c *IngestionClient) ingest(ctx context.Context, events []ingestion.Event, op errors.AsyncErrorOperation) error {
	if len(events) == 0 {
		return nil
	}
	batch := ingestion.Batch{Batch: events}

	start := time.Now()
	resp, err := c.transport.Send(ctx, &http.Request{
		Method:     "POST",
		Path:       ingestion.Path,
		Body:       batch,
		ServiceKey: IngestionServiceKey,
	})
	if c.metrics != nil {
		c.metrics.RecordDuration("langfuse.ingestion.duration", time.Since(start))
	}
	if err != nil {
		return c.fail(err, batch, op)
	}

	if resp.StatusCode == 207 {
		var result ingestion.Result
		if err := resp.JSON(&result); err != nil {
			c.logger.Warn("langfuse: could not decode multi-status ingestion response", "error", err)
		} else if result.HasErrors() {
			if c.metrics != nil {
				c.metrics.IncrementCounter("langfuse.ingestion.rejected", int64(len(result.Errors)))
			}
			return c.fail(result.Err(), batch, op)
		}
	}

	if c.metrics != nil {
		c.metrics.IncrementCounter("langfuse.ingestion.sent", int64(batch.Len()))
	}
	c.logger.Debug("langfuse: batch ingested", "events", batch.Len(), "status", resp.StatusCode)
	return nil
}

func (c *IngestionClient) fail(err error, batch ingestion.Batch, op errors.AsyncErrorOperation) error {
	if c.metrics != nil {
		c.metrics.IncrementCounter("langfuse.ingestion.failures", 1)
	}

	if c.failOnError {
		if netErr, ok := errors.AsNetworkError(err); ok {
			return netErr
		}
		return errors.WrapIngestion(err)
	}

	c.logger.Error("langfuse: batch ingestion failed", "events", batch.Len(), "error", err)
	c.errors.Handle(errors.NewAsyncError(op, err).WithEventIDs(batch.IDs()...))
	return nil
}
