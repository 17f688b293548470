package history

import "errors"

var (
	// ErrRunNotFound indicates no stored run matches the given ID or prefix.
	ErrRunNotFound = errors.New("run not found")

	// ErrAmbiguousRunID indicates an ID prefix matches more than one stored run.
	ErrAmbiguousRunID = errors.New("ambiguous run id prefix")
)
