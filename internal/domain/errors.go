package domain

import "errors"

var (
	// Transaction errors
	ErrInvalidTransaction = errors.New("transaction must have exactly one payment direction")

	// Snapshot errors
	ErrSnapshotNotFound = errors.New("balance snapshot not found")
)
