package client

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, c *Client) error

	// GetByID returns ErrClientNotFound if no client has id.
	GetByID(ctx context.Context, id uuid.UUID) (*Client, error)

	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
