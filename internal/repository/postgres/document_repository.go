package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dmehra2102/prod-golang-projects/odyssey/internal/domain/document"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Upsert(ctx context.Context, d *document.SignedDocument) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "client_id"}, {Name: "kind"}},
		DoUpdates: clause.AssignmentColumns([]string{"sign_date", "signature", "revision", "fields", "updated_at"}),
	}).Create(d).Error
	if err != nil {
		return fmt.Errorf("saving signed document: %w", err)
	}
	return nil
}

func (r *DocumentRepository) Get(ctx context.Context, clientID uuid.UUID, kind document.Kind) (*document.SignedDocument, error) {
	var d document.SignedDocument
	err := r.db.WithContext(ctx).
		Where("client_id = ? AND kind = ?", clientID, kind).
		First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, document.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading signed document: %w", err)
	}
	return &d, nil
}

func (r *DocumentRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*document.SignedDocument, error) {
	var docs []*document.SignedDocument
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("kind").
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("listing signed documents: %w", err)
	}
	return docs, nil
}
