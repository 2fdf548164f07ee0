package analyses

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidPayload = errors.New("analysis payload does not match schema")
)
