package server

import (
	"fmt"
	"strings"
)

const (
	defaultURLTemplate  = "https://%s.secretservercloud.%s/"
	DefaultTLD          = "com"
	DefaultAPIPathURI   = "/api/v1"
	DefaultTokenPathURI = "/oauth2/token"
)

// Config holds the connection settings for one Secret Server tenant.
// Either Tenant or ServerURL must be set; ServerURL wins when both are.
type Config struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	Tenant       string `json:"tenant"`
	ServerURL    string `json:"server_url"`
	TLD          string `json:"tld"`
	APIPathURI   string `json:"api_path_uri"`
	TokenPathURI string `json:"token_path_uri"`
}

// Validate checks the required fields.
func (c Config) Validate() error {
	if c.ServerURL == "" && c.Tenant == "" {
		return fmt.Errorf("%w: either server_url or tenant must be set", ErrInvalidConfiguration)
	}
	if c.Username == "" || c.Password == "" {
		return fmt.Errorf("%w: username and password are required", ErrInvalidConfiguration)
	}
	return nil
}

// withDefaults fills unset optional fields and strips one trailing slash
// from both path prefixes.
func (c Config) withDefaults() Config {
	if c.TLD == "" {
		c.TLD = DefaultTLD
	}
	if c.APIPathURI == "" {
		c.APIPathURI = DefaultAPIPathURI
	}
	if c.TokenPathURI == "" {
		c.TokenPathURI = DefaultTokenPathURI
	}
	c.APIPathURI = strings.TrimSuffix(c.APIPathURI, "/")
	c.TokenPathURI = strings.TrimSuffix(c.TokenPathURI, "/")
	return c
}

// baseURL is ServerURL, or the tenant's secretservercloud URL, without a trailing slash.
func (c Config) baseURL() string {
	if c.ServerURL != "" {
		return strings.TrimSuffix(c.ServerURL, "/")
	}
	return strings.TrimSuffix(fmt.Sprintf(defaultURLTemplate, c.Tenant, c.TLD), "/")
}
