package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound          = errors.New("entity not found")
	ErrAlreadyExists     = errors.New("entity already exists")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrPersistence       = errors.New("persistence unavailable")
	ErrInvalidTransition = errors.New("invalid job status transition")
	ErrQueueEmpty        = errors.New("trigger queue empty")
	ErrUserNotFound      = errors.New("messenger user not found")
)
