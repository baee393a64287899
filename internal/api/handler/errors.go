package handler

import "errors"

var (
	// ErrBadPayload is returned when the request body is not valid JSON for
	// the endpoint.
	ErrBadPayload = errors.New("invalid payload")

	// ErrRefreshExpired marks an expired refresh token; unlike an expired
	// access token the client has to log in again.
	ErrRefreshExpired = errors.New("refresh token expired")
)
