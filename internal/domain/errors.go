package domain

import "errors"

var (
	// ErrUnknownContentType signals a content type with no registered projector.
	ErrUnknownContentType = errors.New("unknown content type")
	// ErrMissingKey signals a mutation event without a resolvable primary key.
	ErrMissingKey = errors.New("event has no primary key")
	// ErrRecordNotFound signals a missing canonical record.
	ErrRecordNotFound = errors.New("record not found")
	// ErrInvalidConfig signals missing or malformed configuration.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrStoreUnavailable signals a failed call to the canonical record store.
	ErrStoreUnavailable = errors.New("record store unavailable")
	// ErrIndexUnavailable signals a failed call to the search index.
	ErrIndexUnavailable = errors.New("search index unavailable")
	// ErrUnsupportedAction signals an action the content type does not handle on the live path.
	ErrUnsupportedAction = errors.New("unsupported action")
)
