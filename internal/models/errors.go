package models

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrValidation          = errors.New("validation error")
	ErrIO                  = errors.New("backing store unavailable")
	ErrExternalUnavailable = errors.New("external service unavailable")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAuthRejected        = errors.New("authentication rejected")
)
