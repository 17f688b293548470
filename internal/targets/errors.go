package targets

import "errors"

var (
	// ErrRootNotFound indicates the documentation root does not exist or is not a directory.
	ErrRootNotFound = errors.New("documentation root not found")

	// ErrWalkFailed indicates filesystem traversal of the documentation root failed.
	ErrWalkFailed = errors.New("notebook discovery walk failed")
)
