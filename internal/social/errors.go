package social

import "errors"

var (
	ErrUnknownPlatform = errors.New("platform must be one of: instagram tiktok linkedin")
	ErrHandleRequired  = errors.New("handle is required")
	ErrCountOutOfRange = errors.New("count must be between 0 and 1000000000000")
	ErrUserNotFound    = errors.New("user not found")
)
