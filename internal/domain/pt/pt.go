package pt

import (
	"time"

	"github.com/google/uuid"
)

const (
	MinPain = 0
	MaxPain = 10

	MaxDescriptionLength = 1024
)

// History is a client's physical therapy intake. PainAreas holds the
// strokes drawn over the body outline in their serialized JSON form.
type History struct {
	ClientID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"client_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Exercise string `gorm:"column:exercise;type:text" json:"exercise,omitempty"`

	HasPT          bool `gorm:"column:has_pt" json:"has_pt"`
	HasChiro       bool `gorm:"column:has_chiro" json:"has_chiro"`
	HasMassage     bool `gorm:"column:has_massage" json:"has_massage"`
	HasSurgery     bool `gorm:"column:has_surgery" json:"has_surgery"`
	HasMedication  bool `gorm:"column:has_medication" json:"has_medication"`
	HasAcupuncture bool `gorm:"column:has_acupuncture" json:"has_acupuncture"`

	PainAreas string `gorm:"column:pain_areas;type:text;not null;default:'[]'" json:"pain_areas"`

	BestPain    *int `gorm:"column:best_pain" json:"best_pain,omitempty"`
	WorstPain   *int `gorm:"column:worst_pain" json:"worst_pain,omitempty"`
	CurrentPain *int `gorm:"column:current_pain" json:"current_pain,omitempty"`

	MakesWorse  string `gorm:"column:makes_worse;type:varchar(1024)" json:"makes_worse,omitempty"`
	MakesBetter string `gorm:"column:makes_better;type:varchar(1024)" json:"makes_better,omitempty"`
}

func (History) TableName() string {
	return "intake.pt_histories"
}

type UpdateHistoryCommand struct {
	Exercise       string
	HasPT          bool
	HasChiro       bool
	HasMassage     bool
	HasSurgery     bool
	HasMedication  bool
	HasAcupuncture bool
	PainAreas      string
	BestPain       *int
	WorstPain      *int
	CurrentPain    *int
	MakesWorse     string
	MakesBetter    string
}

// Apply copies the command onto h. PainAreas is expected to be canonical.
func (cmd *UpdateHistoryCommand) Apply(h *History) {
	h.Exercise = cmd.Exercise
	h.HasPT = cmd.HasPT
	h.HasChiro = cmd.HasChiro
	h.HasMassage = cmd.HasMassage
	h.HasSurgery = cmd.HasSurgery
	h.HasMedication = cmd.HasMedication
	h.HasAcupuncture = cmd.HasAcupuncture
	h.PainAreas = cmd.PainAreas
	h.BestPain = cmd.BestPain
	h.WorstPain = cmd.WorstPain
	h.CurrentPain = cmd.CurrentPain
	h.MakesWorse = cmd.MakesWorse
	h.MakesBetter = cmd.MakesBetter
}

func ValidPain(p *int) bool {
	return p == nil || (*p >= MinPain && *p <= MaxPain)
}
