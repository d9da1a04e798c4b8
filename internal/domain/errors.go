package domain

import "errors"

// ErrRequestNotFound is returned by repositories when no service request
// matches the given code.
var ErrRequestNotFound = errors.New("service request not found")
