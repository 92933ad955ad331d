package domain

import "errors"

var (
	ErrListingNotFound = errors.New("listing not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrForbidden       = errors.New("not allowed to modify this listing")
	ErrDuplicateEmail  = errors.New("email already registered")
)
