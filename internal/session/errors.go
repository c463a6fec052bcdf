package session

import "errors"

var (
	ErrInvalidCredentials  = errors.New("Invalid email or password")
	ErrInvalidRefreshToken = errors.New("refresh token is invalid or expired")
	ErrUserNotFound        = errors.New("user not found")
)
