package business

import "errors"

var (
	ErrBusinessNotFound  = errors.New("business not found")
	ErrBusinessSuspended = errors.New("business is suspended")
)
