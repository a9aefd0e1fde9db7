package client

import "errors"

var (
	ErrClientNotFound     = errors.New("client not found")
	ErrInvalidDateOfBirth = errors.New("date of birth cannot be in the future")
)
