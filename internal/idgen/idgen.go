// Package idgen generates user identifiers.
package idgen

import (
	"fmt"

	"github.com/google/uuid"
)

// v7Attempts bounds uuid.NewV7 calls; it fails only when the entropy source does.
const v7Attempts = 2

// Generator generates unique identifiers.
// Implementations should be safe for concurrent use.
type Generator interface {
	Generate() (uuid.UUID, error)
}

type v7Gen struct {
	newV7 func() (uuid.UUID, error)
}

// NewV7 returns a Generator that produces time-ordered UUID v7 values,
// which keep the users primary key index append-mostly.
func NewV7() Generator {
	return &v7Gen{newV7: uuid.NewV7}
}

func (g *v7Gen) Generate() (uuid.UUID, error) {
	var last error
	for range v7Attempts {
		id, err := g.newV7()
		if err == nil {
			return id, nil
		}
		last = err
	}
	return uuid.Nil, fmt.Errorf("uuid v7 generation failed after %d attempts: %w", v7Attempts, last)
}
