package api

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Checker-Finance/tss-sdk/pkg/tss"
)

const requestIDHeader = "X-Request-Id"

// SecretFetcher resolves a secret with attachments inlined.
type SecretFetcher interface {
	Fetch(ctx context.Context, id int) (*tss.Secret, error)
}

// SecretHandler serves resolved secrets over HTTP.
type SecretHandler struct {
	logger  *zap.Logger
	fetcher SecretFetcher
}

// NewSecretHandler creates a new SecretHandler.
func NewSecretHandler(logger *zap.Logger, fetcher SecretFetcher) *SecretHandler {
	return &SecretHandler{
		logger:  logger,
		fetcher: fetcher,
	}
}

// GetSecret handles GET /api/v1/secrets/:id. The optional query flag
// ?full=true adds the complete record to the response.
func (h *SecretHandler) GetSecret(c *fiber.Ctx) error {
	requestID := requestIDFrom(c)

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			RequestID: requestID,
			Error:     "secret id must be a positive integer",
		})
	}

	secret, err := h.fetcher.Fetch(c.UserContext(), id)
	if err != nil {
		h.logger.Warn("tss.api.get_secret_failed",
			zap.String("request_id", requestID),
			zap.Int("secret_id", id),
			zap.Error(err))

		status := fiber.StatusBadGateway
		if errors.Is(err, tss.ErrInvalidSecret) {
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(ErrorResponse{RequestID: requestID, Error: err.Error()})
	}

	resp := SecretResponse{
		RequestID: requestID,
		ID:        secret.ID,
		Name:      secret.Name,
		Values:    secret.Values(),
	}
	if c.QueryBool("full") {
		raw, err := json.Marshal(secret)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{RequestID: requestID, Error: err.Error()})
		}
		resp.Secret = raw
	}

	h.logger.Info("tss.api.secret_served",
		zap.String("request_id", requestID),
		zap.Int("secret_id", id),
		zap.Int("items", len(secret.Items)))
	return c.Status(fiber.StatusOK).JSON(resp)
}

// requestIDFrom reuses the caller's request id or mints one, and echoes it
// in the response header.
func requestIDFrom(c *fiber.Ctx) string {
	id := c.Get(requestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	c.Set(requestIDHeader, id)
	return id
}
