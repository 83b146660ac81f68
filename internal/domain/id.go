package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// IDGenerator mints ids for notes, key points, flashcards and sessions.
// It is injected into every creation path so the pipeline stays free of
// hidden process-wide state and deterministic under test.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator generates random UUID ids. The production generator.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string { return uuid.NewString() }

// SequenceGenerator generates "prefix-1", "prefix-2", ... for tests.
type SequenceGenerator struct {
	Prefix string
	n      int
}

func (g *SequenceGenerator) NewID() string {
	g.n++
	return fmt.Sprintf("%s-%d", g.Prefix, g.n)
}
