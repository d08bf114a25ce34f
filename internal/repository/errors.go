package repository

import "errors"

var (
	// ErrRemoteUnavailable means the document store could not be
	// reached. Reads fall back to the local cache; best-effort writes
	// degrade to cache-only; confirming writes fail hard.
	ErrRemoteUnavailable = errors.New("remote store unavailable")

	// ErrNotFound means no ledger record exists for the key.
	ErrNotFound = errors.New("ledger record not found")
)
