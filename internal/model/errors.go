package model

import "fmt"

// ValidationError describes a missing or malformed field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ReferenceNotFoundError is returned when an account or item id does not resolve.
type ReferenceNotFoundError struct {
	Kind string // "account", "item", "transaction"
	ID   string
}

func (e ReferenceNotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// InsufficientStockError rejects a sale larger than the stock at its location.
type InsufficientStockError struct {
	ItemID    string
	Location  Location
	Available int
	Requested int
}

func (e InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock of %s at %s: available %d, requested %d",
		e.ItemID, e.Location.Label(), e.Available, e.Requested)
}
