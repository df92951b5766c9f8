package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Checker-Finance/tss-sdk/internal/rate"
)

// Backoff returns the retry sleep duration for the given attempt number.
func Backoff(attempt int) time.Duration {
	switch attempt {
	case 0:
		return 100 * time.Millisecond
	case 1:
		return 250 * time.Millisecond
	default:
		return 500 * time.Millisecond
	}
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Body       []byte
	Elapsed    time.Duration
}

// Executor sends requests and reads their bodies. It never interprets the
// status code for the caller; retries happen only when retryMax > 0.
type Executor struct {
	logger   *zap.Logger
	rateMgr  *rate.Manager
	http     *http.Client
	retryMax int
	tag      string
}

// New creates an Executor. rateMgr may be nil to disable rate limiting.
func New(logger *zap.Logger, rateMgr *rate.Manager, httpClient *http.Client, retryMax int, tag string) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if retryMax < 0 {
		retryMax = 0
	}
	return &Executor{
		logger:   logger,
		rateMgr:  rateMgr,
		http:     httpClient,
		retryMax: retryMax,
		tag:      tag,
	}
}

// Do executes req and returns the status code and body. rateLimitKey scopes
// the rate limiter. A 5xx response is retried while attempts remain; the final
// response is returned as-is whatever its status.
func (e *Executor) Do(ctx context.Context, req *http.Request, rateLimitKey string) (*Response, error) {
	if e.rateMgr != nil {
		if err := e.rateMgr.Wait(ctx, rateLimitKey); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	var lastErr error
	for attempt := 0; attempt <= e.retryMax; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, Backoff(attempt-1)); err != nil {
				return nil, err
			}
		}

		attemptReq, err := cloneRequest(ctx, req)
		if err != nil {
			return nil, err
		}

		start := time.Now()
		resp, err := e.http.Do(attemptReq)
		if err != nil {
			lastErr = err
			e.logger.Warn(e.tag+".http_failed",
				zap.String("url", req.URL.String()),
				zap.Error(err),
				zap.Int("attempt", attempt))
			continue
		}

		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read body: %w", err)
			continue
		}
		out := &Response{StatusCode: resp.StatusCode, Body: body, Elapsed: time.Since(start)}

		if resp.StatusCode >= 500 && attempt < e.retryMax {
			e.logger.Warn(e.tag+".server_error",
				zap.Int("status", resp.StatusCode),
				zap.String("url", req.URL.String()),
				zap.Int("attempt", attempt))
			lastErr = fmt.Errorf("%s server error: %d", e.tag, resp.StatusCode)
			continue
		}

		e.logger.Debug(e.tag+".http_done",
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.Int("status", resp.StatusCode),
			zap.Duration("elapsed", out.Elapsed))
		return out, nil
	}

	if e.retryMax == 0 {
		return nil, lastErr
	}
	return nil, fmt.Errorf("%s request failed after %d attempts: %w", e.tag, e.retryMax+1, lastErr)
}

// cloneRequest gives each attempt its own copy of req with a fresh body.
func cloneRequest(ctx context.Context, req *http.Request) (*http.Request, error) {
	out := req.Clone(ctx)
	if req.Body == nil || req.GetBody == nil {
		return out, nil
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, fmt.Errorf("rewind body: %w", err)
	}
	out.Body = body
	return out, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
