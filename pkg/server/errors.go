package server

import "errors"

// Error kinds returned by Server. Match them with errors.Is; transport and
// JSON decode failures are wrapped rather than mapped onto one of these.
var (
	// ErrInvalidConfiguration is returned by New when credentials are missing
	// or neither a tenant nor a server URL is set.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInvalidMethodType is returned for any method other than GET, POST, PUT or DELETE.
	ErrInvalidMethodType = errors.New("invalid method type")

	// ErrUnrecognizedResource is returned for resource kinds outside SupportedResources.
	ErrUnrecognizedResource = errors.New("unrecognized resource")

	// ErrInvalidCredentials is returned when the token endpoint rejects the password grant.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccessDenied is returned when a resource body carries the API_AccessDenied error code.
	ErrAccessDenied = errors.New("access denied")
)
