package service

import "errors"

var (
	ErrEmailAlreadyRegistered = errors.New("email in use")
	ErrInvalidCredentials     = errors.New("email or password is wrong")
	ErrEmailNotVerified       = errors.New("email not verified, request a new verification email with POST /users/verify")
	ErrUnauthorized           = errors.New("not authorized")
	ErrInvalidToken           = errors.New("verification token does not exist or has expired")
	ErrAlreadyVerified        = errors.New("verification has already been passed")
	ErrUserNotFound           = errors.New("not found")
)
