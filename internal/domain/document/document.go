package document

import (
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindConsent      Kind = "consent"
	KindRelease      Kind = "release"
	KindPolicies     Kind = "policies"
	KindConsult      Kind = "consult"
	KindSubscription Kind = "subscription"
	KindIndividual   Kind = "individual"
)

// SignedDocument is the latest signature a client gave on one kind of
// document. Signing again replaces it.
type SignedDocument struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	ClientID uuid.UUID `gorm:"column:client_id;type:uuid;not null;uniqueIndex:idx_signed_documents_client_kind" json:"client_id"`
	Kind     Kind      `gorm:"column:kind;type:varchar(20);not null;uniqueIndex:idx_signed_documents_client_kind" json:"kind"`

	SignDate time.Time `gorm:"column:sign_date;type:date;not null" json:"signdate"`
	// Signature is a PNG data URL.
	Signature string         `gorm:"column:signature;type:text;not null" json:"signature"`
	Revision  string         `gorm:"column:revision;type:varchar(10);not null" json:"revision"`
	Fields    map[string]any `gorm:"column:fields;serializer:json" json:"fields,omitempty"`
}

func (SignedDocument) TableName() string {
	return "intake.signed_documents"
}

// IsCurrent reports whether the document was signed on the revision
// currently in force.
func (d *SignedDocument) IsCurrent(def Definition) bool {
	return d.Revision == def.Revision
}
