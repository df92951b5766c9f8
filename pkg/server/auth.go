package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Checker-Finance/tss-sdk/internal/metrics"
)

// tokenResponse is the body of a successful password grant.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// AccessToken exchanges the configured username and password for a bearer
// token. The token is not cached.
func (s *Server) AccessToken(ctx context.Context) (string, error) {
	form := url.Values{
		"grant_type": {"password"},
		"username":   {s.cfg.Username},
		"password":   {s.cfg.Password},
	}

	tokenURL := s.URLFor(TokenResource, "")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("tss: build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := s.exec.Do(ctx, req, s.cfg.Username)
	metrics.ObserveDuration(metrics.TSSRequestDuration, start, TokenResource, http.MethodPost)
	if err != nil {
		metrics.IncRequest(TokenResource, http.MethodPost, 0)
		return "", fmt.Errorf("tss: request token: %w", err)
	}
	metrics.IncRequest(TokenResource, http.MethodPost, resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		s.logger.Error("tss.token.rejected",
			zap.String("username", s.cfg.Username),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", resp.Body))
		return "", fmt.Errorf("%w: token endpoint returned %d", ErrInvalidCredentials, resp.StatusCode)
	}

	var grant tokenResponse
	if err := json.Unmarshal(resp.Body, &grant); err != nil {
		s.logger.Error("tss.token.decode_failed", zap.Error(err))
		return "", fmt.Errorf("tss: decode token response: %w", err)
	}
	if grant.AccessToken == "" {
		s.logger.Error("tss.token.empty", zap.String("username", s.cfg.Username))
		return "", fmt.Errorf("%w: empty access_token", ErrInvalidCredentials)
	}

	return grant.AccessToken, nil
}
