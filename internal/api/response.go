package api

import "encoding/json"

// SecretResponse is the body of GET /api/v1/secrets/:id. Secret holds the
// full record with attachments inlined.
type SecretResponse struct {
	RequestID string            `json:"requestId"`
	ID        int               `json:"id"`
	Name      string            `json:"name"`
	Values    map[string]string `json:"values"`
	Secret    json.RawMessage   `json:"secret,omitempty"`
}

// ErrorResponse is returned for any failed request.
type ErrorResponse struct {
	RequestID string `json:"requestId"`
	Error     string `json:"error"`
}
