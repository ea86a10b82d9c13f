package repository

import "github.com/google/uuid"

// NewID returns a time-ordered identifier (UUIDv7) so that ids sort roughly
// by creation. It falls back to a random v4 id if the v7 generator fails.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
