package wiki

import "errors"

var (
	ErrRevisionNotFound   = errors.New("revision not found")
	ErrRevisionNotPending = errors.New("revision has already been moderated")
	ErrPageNotFound       = errors.New("page not found")
	ErrPageNameRequired   = errors.New("university name is required for a new page")
	ErrContentRequired    = errors.New("content is required")
	ErrInvalidSlug        = errors.New("slug must be lowercase words joined by '-'")
)
