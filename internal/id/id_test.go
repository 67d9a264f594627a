package id

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	u := uuid.MustParse("6f1c2b1e-8a57-4d0e-9f0e-2b3c4d5e6f70")
	assert.Equal(t, "txn-6f1c2b1e-8a57-4d0e-9f0e-2b3c4d5e6f70", Format(PrefixTransaction, u))
}

func TestNewIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		got := NewTransaction()
		require.False(t, seen[got], "duplicate id %s", got)
		seen[got] = true
	}
}
