package handler

import (
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/use-agent/docscrub/cache"
	"github.com/use-agent/docscrub/cleaner"
	"github.com/use-agent/docscrub/models"
	"github.com/use-agent/docscrub/simhash"
	"github.com/use-agent/docscrub/webhook"
)

// PostBatch returns a handler for POST /api/v1/clean/batch.
//
// Every document is cleaned independently, at most concurrency at a time.
// A failing document does not fail the batch: its slot in Results carries
// the error. Results keep the request order. When the request names a
// webhook, the finished response is also posted there asynchronously.
func PostBatch(cl *cleaner.Cleaner, cc *cache.Cache, concurrency int) gin.HandlerFunc {
	if concurrency <= 0 {
		concurrency = 4
	}

	return func(c *gin.Context) {
		totalStart := time.Now()

		var req models.BatchCleanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.BatchCleanResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}

		batchID := "batch-" + uuid.New().String()
		results := make([]*models.CleanResponse, len(req.Documents))
		var succeeded atomic.Int32

		var g errgroup.Group
		g.SetLimit(concurrency)
		for i := range req.Documents {
			g.Go(func() error {
				start := time.Now()
				doc := req.Documents[i]
				doc.Defaults()

				resp, err := cleanOne(cl, cc, &doc)
				if err != nil {
					ce := asCleanError(err)
					resp = &models.CleanResponse{Success: false, Error: ce.ToDetail()}
				} else {
					succeeded.Add(1)
				}
				resp.Timing.TotalMs = time.Since(start).Milliseconds()
				results[i] = resp
				return nil
			})
		}
		_ = g.Wait()

		markDuplicates(results)

		ok := int(succeeded.Load())
		slog.Info("batch clean finished",
			"batch_id", batchID,
			"total", len(results),
			"succeeded", ok,
			"failed", len(results)-ok,
		)

		resp := models.BatchCleanResponse{
			Success:   ok == len(results),
			BatchID:   batchID,
			Total:     len(results),
			Succeeded: ok,
			Results:   results,
			Timing: models.TimingInfo{
				TotalMs: time.Since(totalStart).Milliseconds(),
			},
		}
		if req.WebhookURL != "" {
			webhook.DeliverAsync(req.WebhookURL, req.WebhookSecret,
				webhook.NewEvent(webhook.EventBatchCompleted, batchID, resp))
		}
		c.JSON(http.StatusOK, resp)
	}
}

// nearDuplicateBits is the largest fingerprint distance still reported as
// a duplicate.
const nearDuplicateBits = 3

// markDuplicates points every successful result at the first earlier result
// whose content fingerprint is within nearDuplicateBits of its own.
func markDuplicates(results []*models.CleanResponse) {
	for i, r := range results {
		if !r.Success || r.ContentFingerprint == 0 {
			continue
		}
		for j := range i {
			prev := results[j]
			if !prev.Success || prev.ContentFingerprint == 0 || prev.DuplicateOf != nil {
				continue
			}
			if simhash.Similar(prev.ContentFingerprint, r.ContentFingerprint, nearDuplicateBits) {
				r.DuplicateOf = &j
				break
			}
		}
	}
}
