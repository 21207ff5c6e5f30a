package player

import "errors"

// Precondition failures. State is unchanged whenever one is returned.
var (
	ErrInsufficientFunds = errors.New("insufficient credits")
	ErrNotEnoughCargo    = errors.New("not enough cargo")
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
	ErrUnknownResource   = errors.New("unknown resource")
	ErrNoIdleShuttle     = errors.New("no idle shuttle")
	ErrDatabaseFull      = errors.New("celestial database is full")
	ErrUnknownAction     = errors.New("unknown action")
)

// ErrShuttleMissing marks a resolved expedition whose shuttle could not be
// found. It is an internal consistency fault for the operator, not the player.
var ErrShuttleMissing = errors.New("expedition shuttle not found")
