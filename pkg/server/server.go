// Package server is a client for the Secret Server REST API. It builds
// tenant URLs, acquires OAuth2 password-grant tokens and performs
// authorized requests against supported resource kinds.
package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Checker-Finance/tss-sdk/internal/httpclient"
	"github.com/Checker-Finance/tss-sdk/internal/rate"
)

const (
	// TokenResource selects the OAuth2 token endpoint in URLFor.
	TokenResource = "token"
	// SecretsResource is the secrets resource kind.
	SecretsResource = "secrets"

	defaultHTTPTimeout = 30 * time.Second
)

// SupportedResources lists the resource kinds AccessResource accepts.
var SupportedResources = map[string]struct{}{
	SecretsResource: {},
}

// Server performs authorized requests against one Secret Server tenant.
// Its configuration is fixed at construction. A fresh token is acquired for
// every resource access; nothing is cached between calls.
type Server struct {
	cfg    Config
	logger *zap.Logger
	exec   *httpclient.Executor
}

type options struct {
	logger     *zap.Logger
	httpClient *http.Client
	rateLimit  rate.Config
	retryMax   int
}

// Option configures a Server.
type Option func(*options)

// WithLogger sets the logger. A nil logger silences output.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithHTTPClient replaces the default HTTP client (30s timeout).
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithRateLimit throttles outbound requests per username.
func WithRateLimit(cfg rate.Config) Option {
	return func(o *options) { o.rateLimit = cfg }
}

// WithRetries retries transport failures and 5xx responses up to n times.
// The default is zero.
func WithRetries(n int) Option {
	return func(o *options) { o.retryMax = n }
}

// New validates cfg, applies defaults and returns a Server.
func New(cfg Config, opts ...Option) (*Server, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	if err := cfg.Validate(); err != nil {
		o.logger.Error("tss.config_invalid", zap.Error(err))
		return nil, err
	}

	if o.httpClient == nil {
		o.httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	var rateMgr *rate.Manager
	if o.rateLimit.Enabled() {
		rateMgr = rate.NewManager(o.rateLimit)
	}

	return &Server{
		cfg:    cfg.withDefaults(),
		logger: o.logger,
		exec:   httpclient.New(o.logger, rateMgr, o.httpClient, o.retryMax, "tss"),
	}, nil
}

// Config returns the effective configuration, defaults applied.
func (s *Server) Config() Config {
	return s.cfg
}

// URLFor builds the request URL for resource and path. The token resource
// ignores path. A path of exactly "/" is kept verbatim, so it yields a
// double slash after the resource segment; any other path loses one
// leading slash.
func (s *Server) URLFor(resource, path string) string {
	base := s.cfg.baseURL()

	if resource == TokenResource {
		return fmt.Sprintf("%s/%s", base, strings.TrimPrefix(s.cfg.TokenPathURI, "/"))
	}

	if path != "/" {
		path = strings.TrimPrefix(path, "/")
	}
	resource = strings.TrimPrefix(strings.TrimSuffix(resource, "/"), "/")

	return fmt.Sprintf("%s/%s/%s/%s", base, strings.TrimPrefix(s.cfg.APIPathURI, "/"), resource, path)
}
