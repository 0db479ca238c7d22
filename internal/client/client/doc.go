// Package client is the HTTP client of the cahier de veille API.
//
// The session cookie issued at login is kept in a cookie jar and sent on
// every following call. Non-2xx replies are mapped to the sentinel errors of
// package common, so callers can match them with errors.Is:
//
//   - 400 with a message: *common.ValidationError
//   - 401: common.ErrorUnauthorized
//   - 404: common.ErrorNotFound
//   - 409: common.ErrorAlreadyExists
//
// Transport failures wrap ErrUnavailable.
package client
