package client

import "errors"

var (
	ErrUnavailable    = errors.New("server unavailable")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrRejected       = errors.New("rejected by server")
	ErrNotFound       = errors.New("exam not found")
	ErrDigestMismatch = errors.New("server digest does not match local file")
)
