package auth

import "errors"

// ErrEmailExists indicates a duplicate email address.
var ErrEmailExists = errors.New("email already exists")

// ErrUserNotFound is returned by repositories when updating an unknown user.
var ErrUserNotFound = errors.New("user not found")
