package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/docscrub/cache"
	"github.com/use-agent/docscrub/cleaner"
	"github.com/use-agent/docscrub/models"
)

// Clean returns a handler for POST /api/v1/clean.
//
// Orchestration flow:
//  1. Parse & validate request, apply defaults.
//  2. Cache lookup (when max_age > 0).
//  3. Cleaner.Clean → Markdown/HTML/text   (records cleaning_ms)
//  4. Fill Timing, store in cache, return 200.
func Clean(cl *cleaner.Cleaner, cc *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		totalStart := time.Now()

		// ── 1. Parse request ────────────────────────────────────────
		var req models.CleanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.CleanResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}
		req.Defaults()

		resp, err := cleanOne(cl, cc, &req)
		if err != nil {
			respondError(c, err, models.TimingInfo{
				TotalMs: time.Since(totalStart).Milliseconds(),
			})
			return
		}
		resp.Timing.TotalMs = time.Since(totalStart).Milliseconds()

		c.JSON(http.StatusOK, resp)
	}
}

// cleanOne runs one request through the cache and the cleaner. The
// returned response has CleaningMs set; TotalMs is left to the caller.
func cleanOne(cl *cleaner.Cleaner, cc *cache.Cache, req *models.CleanRequest) (*models.CleanResponse, error) {
	// ── 2. Cache lookup ─────────────────────────────────────────────
	useCache := cc != nil && req.MaxAge > 0
	var cacheKey string
	if useCache {
		cacheKey = cache.Key(req)
		if cached, hit := cc.Get(cacheKey, req.MaxAge); hit {
			cached.CacheStatus = "hit"
			cached.Timing = models.TimingInfo{}
			return cached, nil
		}
	}

	// ── 3. Clean ────────────────────────────────────────────────────
	cleanStart := time.Now()
	resp, err := cl.Clean(req.HTML, req.URL, req.OutputFormat, req.ExtractMode, cleaner.CleanOptions{
		IncludeTags:   req.IncludeTags,
		ExcludeTags:   req.ExcludeTags,
		IncludeReport: req.IncludeReport,
	})
	if err != nil {
		return nil, err
	}
	resp.Timing.CleaningMs = time.Since(cleanStart).Milliseconds()

	// ── 4. Cache store ──────────────────────────────────────────────
	if useCache {
		cc.Set(cacheKey, resp)
		resp.CacheStatus = "miss"
	}
	return resp, nil
}

// asCleanError converts any error into a CleanError, defaulting to
// INTERNAL_ERROR.
func asCleanError(err error) *models.CleanError {
	var ce *models.CleanError
	if errors.As(err, &ce) {
		return ce
	}
	return models.NewCleanError(models.ErrCodeInternal, err.Error(), err)
}

// respondError maps a CleanError to the correct HTTP status code and writes
// a structured JSON error response.
func respondError(c *gin.Context, err error, timing models.TimingInfo) {
	ce := asCleanError(err)
	c.JSON(mapErrorToStatus(ce), models.CleanResponse{
		Success: false,
		Error:   ce.ToDetail(),
		Timing:  timing,
	})
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.CleanError) int {
	switch e.Code {
	case models.ErrCodeInvalidInput, models.ErrCodeParse:
		return http.StatusBadRequest // 400
	case models.ErrCodeInputTooLarge:
		return http.StatusRequestEntityTooLarge // 413
	case models.ErrCodeMalformedTree:
		return http.StatusUnprocessableEntity // 422
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized // 401
	default:
		return http.StatusInternalServerError // 500
	}
}
