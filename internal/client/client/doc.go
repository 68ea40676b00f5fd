// Package client talks to the taskkeeper backend over gRPC.
//
// GRPCClient keeps the access token obtained by Login in memory and attaches
// it to every later call as "authorization: Bearer <token>". Each call also
// carries a fresh x-correlation-id so client and server logs can be joined.
// The token is dropped as soon as the server rejects it; there is no refresh,
// the user logs in again.
//
// gRPC status codes are mapped onto the sentinel errors in errors.go so that
// callers can match them with errors.Is.
package client
