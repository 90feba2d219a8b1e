package core

import "errors"

var (
	ErrNotFound       = errors.New("record not found")
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrInvalidDate    = errors.New("invalid date")
	ErrInvalidPeriod  = errors.New("period end before period start")
	ErrInvalidCadence = errors.New("invalid cadence")
	ErrInvalidStatus  = errors.New("invalid status")
	ErrInvalidDay     = errors.New("invalid billing day")
	ErrEmptyName      = errors.New("empty name")
	ErrEmptyCategory  = errors.New("empty category")
	ErrEmptySource    = errors.New("empty source")
	ErrNotOwned       = errors.New("record not owned by user")
)
