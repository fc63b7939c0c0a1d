package service

import "errors"

var (
	ErrValidation    = errors.New("validation failed")
	ErrUserNotFound  = errors.New("user does not exist")
	ErrTokenNotExist = errors.New("token does not exist")
)

// ValidationError names the first field that failed the format check.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string { return "wrong " + e.Field }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
