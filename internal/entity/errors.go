package entity

import "errors"

var (
	ErrEmailAlreadyExists = errors.New("email already in use")
	ErrUserNotFound       = errors.New("user not found")
	ErrLeadNotFound       = errors.New("lead not found")
	ErrActivityNotFound   = errors.New("activity not found")
)
