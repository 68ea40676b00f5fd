// Package common contains shared constants and sentinel errors used across
// taskkeeper components.
package common

const (
	// AuthorizationHeaderName is the gRPC metadata key carrying the bearer
	// access token.
	AuthorizationHeaderName = "authorization"

	// BearerScheme prefixes the token in the authorization header.
	BearerScheme = "Bearer"

	// CorrelationIDHeaderName is the metadata key used to correlate a request
	// across log records. It is echoed back as a response header.
	CorrelationIDHeaderName = "x-correlation-id"

	// TokenType is reported to clients alongside an issued access token.
	TokenType = "bearer"
)
