package domain

import "errors"

var (
	ErrUserExists         = errors.New("username already taken")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrMissingCredentials = errors.New("missing username or password")
	ErrPasswordTooLong    = errors.New("password must be at most 72 bytes")

	ErrImageNotFound     = errors.New("image not found or not modified")
	ErrMissingField      = errors.New("missing image or name")
	ErrUnsupportedFormat = errors.New("unsupported image type")
	ErrFileTooLarge      = errors.New("file too large")
	ErrFileCount         = errors.New("exactly one image file is required")

	ErrObjectNotFound = errors.New("object not found")
	ErrNotReady       = errors.New("database not ready")
)
