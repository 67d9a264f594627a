package id

import (
	"github.com/google/uuid"
)

// Prefixes used for generated identifiers.
const (
	PrefixTransaction = "txn"
	PrefixAccount     = "acc"
	PrefixItem        = "inv"
	PrefixImported    = "imported"
)

// New returns an identifier like "txn-6f1c...".
func New(prefix string) string {
	return Format(prefix, uuid.New())
}

// Format joins a prefix and a uuid: "txn-<uuid>".
func Format(prefix string, u uuid.UUID) string {
	return prefix + "-" + u.String()
}

// NewTransaction returns a fresh transaction identifier.
func NewTransaction() string { return New(PrefixTransaction) }

// NewImported returns an identifier for an imported row that had none.
func NewImported() string { return New(PrefixImported) }
