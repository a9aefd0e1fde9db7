package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dmehra2102/prod-golang-projects/odyssey/internal/domain/pt"
)

type PTRepository struct {
	db *gorm.DB
}

func NewPTRepository(db *gorm.DB) *PTRepository {
	return &PTRepository{db: db}
}

func (r *PTRepository) Get(ctx context.Context, clientID uuid.UUID) (*pt.History, error) {
	var h pt.History
	err := r.db.WithContext(ctx).First(&h, "client_id = ?", clientID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pt.ErrHistoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading pt history: %w", err)
	}
	return &h, nil
}

// historyUpdateColumns are rewritten when a history is saved again.
// created_at keeps the first save's value.
var historyUpdateColumns = []string{
	"exercise",
	"has_pt", "has_chiro", "has_massage", "has_surgery", "has_medication", "has_acupuncture",
	"pain_areas",
	"best_pain", "worst_pain", "current_pain",
	"makes_worse", "makes_better",
	"updated_at",
}

func (r *PTRepository) Save(ctx context.Context, h *pt.History) error {
	// gorm only fills autoUpdateTime on insert when it is zero.
	h.UpdatedAt = r.db.NowFunc()
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "client_id"}},
		DoUpdates: clause.AssignmentColumns(historyUpdateColumns),
	}).Create(h).Error
	if err != nil {
		return fmt.Errorf("saving pt history: %w", err)
	}
	return nil
}
