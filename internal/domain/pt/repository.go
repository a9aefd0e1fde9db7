package pt

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Get returns ErrHistoryNotFound if the client has no history yet.
	Get(ctx context.Context, clientID uuid.UUID) (*History, error)

	// Save creates or replaces the client's history.
	Save(ctx context.Context, h *History) error
}
