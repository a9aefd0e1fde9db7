package document

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Upsert stores d, replacing any earlier signature of the same kind.
	Upsert(ctx context.Context, d *SignedDocument) error

	// Get returns ErrDocumentNotFound when the client has not signed kind.
	Get(ctx context.Context, clientID uuid.UUID, kind Kind) (*SignedDocument, error)

	ListByClient(ctx context.Context, clientID uuid.UUID) ([]*SignedDocument, error)
}
