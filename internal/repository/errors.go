package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrConflict is returned when a conditional update finds the entity
	// in a different state than expected (lost compare-and-set).
	ErrConflict = errors.New("conditional update conflict")

	// ErrInsufficientBalance is returned when a guarded debit would drive
	// a wallet balance negative.
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
)
