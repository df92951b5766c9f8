package secrets

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	pkgsecrets "github.com/Checker-Finance/tss-sdk/pkg/secrets"
	"github.com/Checker-Finance/tss-sdk/pkg/server"
)

// CredentialResolver loads Secret Server credentials from a Provider
// (normally AWS Secrets Manager) and caches them locally to reduce calls.
//
// Secret naming convention: {env}/tss/{name}, unless the name already
// contains a slash, in which case it is used as-is.
type CredentialResolver struct {
	logger   *zap.Logger
	env      string
	provider pkgsecrets.Provider
	cache    *pkgsecrets.Cache[pkgsecrets.Credentials]
}

// NewCredentialResolver constructs a resolver.
func NewCredentialResolver(
	logger *zap.Logger,
	env string,
	provider pkgsecrets.Provider,
	cache *pkgsecrets.Cache[pkgsecrets.Credentials],
) *CredentialResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CredentialResolver{
		logger:   logger,
		env:      env,
		provider: provider,
		cache:    cache,
	}
}

// secretName builds the provider key for name.
func (r *CredentialResolver) secretName(name string) string {
	if strings.Contains(name, "/") {
		return name
	}
	return strings.ToLower(fmt.Sprintf("%s/tss/%s", r.env, name))
}

// Resolve returns the credentials stored under name.
func (r *CredentialResolver) Resolve(ctx context.Context, name string) (pkgsecrets.Credentials, error) {
	key := r.secretName(name)

	if creds, ok := r.cache.Get(key); ok {
		return creds, nil
	}

	fields, err := r.provider.GetSecret(ctx, key)
	if err != nil {
		r.logger.Warn("tss.credentials_fetch_failed",
			zap.String("key", key),
			zap.Error(err))
		return pkgsecrets.Credentials{}, fmt.Errorf("resolve credentials %q: %w", key, err)
	}

	creds := pkgsecrets.Credentials{
		Username: fields["username"],
		Password: fields["password"],
	}
	if creds.Username == "" || creds.Password == "" {
		return pkgsecrets.Credentials{}, fmt.Errorf("%w: secret %q must contain username and password",
			server.ErrInvalidConfiguration, key)
	}

	r.cache.Put(key, creds)
	r.logger.Info("tss.credentials_resolved",
		zap.String("key", key),
		zap.String("username", creds.Username))
	return creds, nil
}

// Apply returns cfg with Username and Password replaced by the credentials
// stored under name.
func (r *CredentialResolver) Apply(ctx context.Context, name string, cfg server.Config) (server.Config, error) {
	creds, err := r.Resolve(ctx, name)
	if err != nil {
		return cfg, err
	}
	cfg.Username = creds.Username
	cfg.Password = creds.Password
	return cfg, nil
}

// Forget drops cached credentials for name so the next Resolve refetches,
// e.g. after the server rejected them.
func (r *CredentialResolver) Forget(name string) {
	r.cache.Bust(r.secretName(name))
}
