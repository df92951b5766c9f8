// Package tss fetches Secret Server secrets and inlines their file
// attachments.
package tss

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/Checker-Finance/tss-sdk/internal/metrics"
	"github.com/Checker-Finance/tss-sdk/pkg/server"
)

// ErrInvalidSecret is the only error Fetch returns. The underlying cause
// (not found, auth, transport, decode) is logged but not wrapped.
var ErrInvalidSecret = errors.New("invalid secret")

// Accessor is the part of *server.Server that Fetch needs.
type Accessor interface {
	AccessResource(ctx context.Context, method, resource, path string, out any) error
	AccessResourceRaw(ctx context.Context, method, resource, path string) ([]byte, error)
}

var _ Accessor = (*server.Server)(nil)

// Fetcher resolves secrets through an Accessor.
type Fetcher struct {
	logger *zap.Logger
	srv    Accessor
}

// NewFetcher returns a Fetcher. A nil logger silences output.
func NewFetcher(logger *zap.Logger, srv Accessor) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{logger: logger, srv: srv}
}

// Fetch is NewFetcher(nil, srv).Fetch(ctx, id).
func Fetch(ctx context.Context, srv Accessor, id int) (*Secret, error) {
	return NewFetcher(nil, srv).Fetch(ctx, id)
}

// Fetch retrieves secret id and replaces the value of every item with a
// file attachment by the attachment's raw content. Attachments are
// downloaded one at a time in item order.
func (f *Fetcher) Fetch(ctx context.Context, id int) (*Secret, error) {
	var secret *Secret
	if err := f.srv.AccessResource(ctx, http.MethodGet, server.SecretsResource, strconv.Itoa(id), &secret); err != nil {
		f.logger.Error("tss.secret.fetch_failed",
			zap.Int("secret_id", id),
			zap.Error(err))
		return nil, f.invalid(id)
	}
	if secret == nil || secret.empty() {
		f.logger.Error("tss.secret.empty", zap.Int("secret_id", id))
		return nil, f.invalid(id)
	}

	for i := range secret.Items {
		item := &secret.Items[i]
		if !item.HasAttachment() {
			continue
		}

		path := fmt.Sprintf("%d/fields/%s", id, item.Slug)
		data, err := f.srv.AccessResourceRaw(ctx, http.MethodGet, server.SecretsResource, path)
		if err != nil {
			f.logger.Error("tss.secret.attachment_failed",
				zap.Int("secret_id", id),
				zap.String("slug", item.Slug),
				zap.Error(err))
			return nil, f.invalid(id)
		}
		item.ItemValue = string(data)
		metrics.AttachmentsResolved.Inc()
	}

	metrics.IncSecretFetch("ok")
	f.logger.Debug("tss.secret.fetched",
		zap.Int("secret_id", id),
		zap.Int("items", len(secret.Items)))
	return secret, nil
}

func (f *Fetcher) invalid(id int) error {
	metrics.IncSecretFetch("invalid")
	return fmt.Errorf("%w: %d", ErrInvalidSecret, id)
}
