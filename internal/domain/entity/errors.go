package entity

import "errors"

// Standard domain errors
var (
	ErrRateLimitExceeded = errors.New("rate limit exceeded: too many requests")
	ErrInternalServer    = errors.New("an internal error occurred")
	ErrInvalidRequest    = errors.New("invalid request parameters")
	ErrEmptyMessage      = errors.New("request contains no user message")
)
