package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// SourceID identifies a loaded dataset. It is assigned on load and never
// changes afterwards; renaming a dataset only touches its display name.
type SourceID ID

// NewSourceID creates a fresh dataset identity.
func NewSourceID() SourceID {
	return SourceID(NewID())
}

func (id SourceID) String() string { return ID(id).String() }

// ParseSourceID parses a string into a SourceID
func ParseSourceID(s string) (SourceID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("source ID cannot be empty")
	}
	return SourceID(s), nil
}
