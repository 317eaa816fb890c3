package repository

import "errors"

var (
	// ErrNotFound is returned by writes that target a record that does not exist.
	// Lookups report absence as (nil, nil) instead.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a uniqueness constraint.
	ErrDuplicate = errors.New("duplicate record")
	// ErrStaleStatus is returned when a status update finds the record no longer PENDING.
	ErrStaleStatus = errors.New("record is no longer pending")
)
