// Package client contains the remote implementation of the persistence
// bridge.
//
// GRPCClient satisfies bridge.Bridge by talking to the bridge daemon over
// gRPC. It asks its local Dialog for the save destination before anything
// is sent, so a cancelled prompt never reaches the server. An access token
// is attached to every call by interceptors; when the server reports an
// expired token, a fresh one is minted from the TokenSource and the unary
// call is retried once.
//
// gRPC status codes are mapped back to the sentinel errors in
// internal/common and to ErrUnavailable / ErrUnauthorized, so callers can
// use errors.Is regardless of whether the bridge is local or remote.
package client
