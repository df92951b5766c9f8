package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Checker-Finance/tss-sdk/internal/metrics"
)

const accessDeniedCode = "API_AccessDenied"

// apiError is the error envelope Secret Server returns in JSON bodies.
type apiError struct {
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
}

// AccessResource performs an authorized request and decodes the JSON body
// into out (which may be nil to discard it). A body carrying the
// API_AccessDenied error code yields ErrAccessDenied. The HTTP status is not
// inspected.
func (s *Server) AccessResource(ctx context.Context, method, resource, path string, out any) error {
	body, err := s.do(ctx, method, resource, path)
	if err != nil {
		return err
	}

	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		s.logger.Error("tss.resource.decode_failed",
			zap.String("resource", resource),
			zap.String("path", path),
			zap.Error(err))
		return fmt.Errorf("tss: decode %s response: %w", resource, err)
	}

	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '{' {
		var envelope apiError
		if err := json.Unmarshal(raw, &envelope); err == nil && envelope.ErrorCode == accessDeniedCode {
			s.logger.Warn("tss.resource.access_denied",
				zap.String("resource", resource),
				zap.String("path", path),
				zap.String("message", envelope.Message))
			return fmt.Errorf("%w: %s/%s", ErrAccessDenied, resource, path)
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		s.logger.Error("tss.resource.decode_failed",
			zap.String("resource", resource),
			zap.String("path", path),
			zap.Error(err))
		return fmt.Errorf("tss: decode %s response: %w", resource, err)
	}
	return nil
}

// AccessResourceRaw performs an authorized request and returns the body
// unmodified, without looking at status or content.
func (s *Server) AccessResourceRaw(ctx context.Context, method, resource, path string) ([]byte, error) {
	return s.do(ctx, method, resource, path)
}

// do validates the request, acquires a token and executes the call.
// Validation failures never touch the network.
func (s *Server) do(ctx context.Context, method, resource, path string) ([]byte, error) {
	m := strings.ToUpper(method)
	switch m {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
	default:
		s.logger.Error("tss.resource.invalid_method", zap.String("method", method))
		return nil, fmt.Errorf("%w: %q", ErrInvalidMethodType, method)
	}

	if _, ok := SupportedResources[resource]; !ok {
		s.logger.Debug("tss.resource.unrecognized", zap.String("resource", resource))
		return nil, fmt.Errorf("%w: %q", ErrUnrecognizedResource, resource)
	}

	token, err := s.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	target := s.URLFor(resource, path)
	s.logger.Debug("tss.resource.request", zap.String("method", m), zap.String("url", target))

	req, err := http.NewRequestWithContext(ctx, m, target, nil)
	if err != nil {
		return nil, fmt.Errorf("tss: build %s request: %w", resource, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if m == http.MethodPost || m == http.MethodPut {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := s.exec.Do(ctx, req, s.cfg.Username)
	metrics.ObserveDuration(metrics.TSSRequestDuration, start, resource, m)
	if err != nil {
		metrics.IncRequest(resource, m, 0)
		s.logger.Error("tss.resource.request_failed",
			zap.String("url", target),
			zap.Error(err))
		return nil, fmt.Errorf("tss: %s %s: %w", m, resource, err)
	}
	metrics.IncRequest(resource, m, resp.StatusCode)

	return resp.Body, nil
}
