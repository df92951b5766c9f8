package secrets

import "context"

// Provider is a key/value view over a secrets backend. Both AWS Secrets
// Manager (where the agent's own credentials live) and Secret Server itself
// satisfy it.
type Provider interface {
	// GetSecret retrieves a secret by key and returns its fields as a map.
	GetSecret(ctx context.Context, key string) (map[string]string, error)

	// ListSecrets returns the keys of all secrets matching prefix. The keys
	// are accepted by GetSecret.
	ListSecrets(ctx context.Context, prefix string) ([]string, error)
}

var (
	_ Provider = (*AWSSecretsManagerProvider)(nil)
	_ Provider = (*TSSProvider)(nil)
)
