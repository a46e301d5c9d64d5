package domain

import "errors"

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrInvalidProfileType = errors.New("invalid profile type")
	ErrInvalidTemplate    = errors.New("invalid template")
	ErrInvalidPlatform    = errors.New("invalid social link key")
	ErrImageDecode        = errors.New("could not decode image")
	ErrImageFetch         = errors.New("could not fetch image")
	ErrBackendUnavailable = errors.New("profile backend unavailable")
	ErrUnauthorized       = errors.New("missing or expired bearer token")
)
