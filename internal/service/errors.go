package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var ErrTooManyPoints = errors.New("drawing has too many points")

type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

// RequestMeta identifies where a call came from, for the audit trail.
type RequestMeta struct {
	IP        string
	UserAgent string
	RequestID string
}

type AuditEntry struct {
	Action       string
	ResourceType string
	ResourceID   string
	ClientID     uuid.UUID
	Meta         RequestMeta
	Changes      string
}
