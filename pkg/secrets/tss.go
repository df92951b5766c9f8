package secrets

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Checker-Finance/tss-sdk/pkg/server"
	"github.com/Checker-Finance/tss-sdk/pkg/tss"
)

const searchPageSize = 100

// secretSearchPage is one page of GET /secrets?filter.searchText=...
type secretSearchPage struct {
	Records []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"records"`
	HasNext bool `json:"hasNext"`
}

// TSSProvider exposes Secret Server secrets through Provider. Keys are
// secret IDs in decimal; values are keyed by item slug with attachments
// already inlined.
type TSSProvider struct {
	logger  *zap.Logger
	srv     tss.Accessor
	fetcher *tss.Fetcher
}

// NewTSSProvider wraps srv, normally a *server.Server.
func NewTSSProvider(logger *zap.Logger, srv tss.Accessor) *TSSProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TSSProvider{
		logger:  logger,
		srv:     srv,
		fetcher: tss.NewFetcher(logger, srv),
	}
}

// GetSecret fetches the secret whose ID is key.
func (p *TSSProvider) GetSecret(ctx context.Context, key string) (map[string]string, error) {
	id, err := strconv.Atoi(key)
	if err != nil {
		return nil, fmt.Errorf("secret key %q is not a numeric id: %w", key, err)
	}
	secret, err := p.fetcher.Fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	return secret.Values(), nil
}

// ListSecrets searches by name and returns the IDs of secrets whose name
// starts with prefix. The server-side search is a substring match, so the
// prefix is re-checked here.
func (p *TSSProvider) ListSecrets(ctx context.Context, prefix string) ([]string, error) {
	var ids []string
	for skip := 0; ; skip += searchPageSize {
		query := url.Values{
			"filter.searchText": {prefix},
			"skip":              {strconv.Itoa(skip)},
			"take":              {strconv.Itoa(searchPageSize)},
		}

		var page secretSearchPage
		if err := p.srv.AccessResource(ctx, http.MethodGet, server.SecretsResource, "?"+query.Encode(), &page); err != nil {
			return nil, fmt.Errorf("search secrets with prefix [%s]: %w", prefix, err)
		}
		for _, rec := range page.Records {
			if strings.HasPrefix(rec.Name, prefix) {
				ids = append(ids, strconv.Itoa(rec.ID))
			}
		}
		if !page.HasNext || len(page.Records) == 0 {
			break
		}
	}

	p.logger.Debug("tss.secrets_listed",
		zap.String("prefix", prefix),
		zap.Int("count", len(ids)))
	return ids, nil
}
