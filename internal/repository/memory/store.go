// Package memory holds map-backed repositories for tests and for running
// the service without a database.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmehra2102/prod-golang-projects/odyssey/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/odyssey/internal/domain/client"
	"github.com/dmehra2102/prod-golang-projects/odyssey/internal/domain/document"
	"github.com/dmehra2102/prod-golang-projects/odyssey/internal/domain/pt"
)

type ClientRepository struct {
	mu   sync.RWMutex
	data map[uuid.UUID]client.Client
}

func NewClientRepository() *ClientRepository {
	return &ClientRepository{data: make(map[uuid.UUID]client.Client)}
}

func (r *ClientRepository) Create(_ context.Context, c *client.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	r.data[c.ID] = *c
	return nil
}

func (r *ClientRepository) GetByID(_ context.Context, id uuid.UUID) (*client.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.data[id]
	if !ok {
		return nil, client.ErrClientNotFound
	}
	return &c, nil
}

func (r *ClientRepository) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.data[id]
	return ok, nil
}

type docKey struct {
	client uuid.UUID
	kind   document.Kind
}

type DocumentRepository struct {
	mu   sync.RWMutex
	data map[docKey]document.SignedDocument
}

func NewDocumentRepository() *DocumentRepository {
	return &DocumentRepository{data: make(map[docKey]document.SignedDocument)}
}

func (r *DocumentRepository) Upsert(_ context.Context, d *document.SignedDocument) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	k := docKey{d.ClientID, d.Kind}
	if prev, ok := r.data[k]; ok {
		d.ID, d.CreatedAt = prev.ID, prev.CreatedAt
	} else {
		if d.ID == uuid.Nil {
			d.ID = uuid.New()
		}
		d.CreatedAt = now
	}
	d.UpdatedAt = now

	cp := *d
	cp.Fields = copyFields(d.Fields)
	r.data[k] = cp
	return nil
}

func (r *DocumentRepository) Get(_ context.Context, clientID uuid.UUID, kind document.Kind) (*document.SignedDocument, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.data[docKey{clientID, kind}]
	if !ok {
		return nil, document.ErrDocumentNotFound
	}
	d.Fields = copyFields(d.Fields)
	return &d, nil
}

func (r *DocumentRepository) ListByClient(_ context.Context, clientID uuid.UUID) ([]*document.SignedDocument, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*document.SignedDocument
	for k, d := range r.data {
		if k.client != clientID {
			continue
		}
		d.Fields = copyFields(d.Fields)
		out = append(out, &d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out, nil
}

func copyFields(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

type PTRepository struct {
	mu   sync.RWMutex
	data map[uuid.UUID]pt.History
}

func NewPTRepository() *PTRepository {
	return &PTRepository{data: make(map[uuid.UUID]pt.History)}
}

func (r *PTRepository) Get(_ context.Context, clientID uuid.UUID) (*pt.History, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.data[clientID]
	if !ok {
		return nil, pt.ErrHistoryNotFound
	}
	return &h, nil
}

func (r *PTRepository) Save(_ context.Context, h *pt.History) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	if prev, ok := r.data[h.ClientID]; ok {
		h.CreatedAt = prev.CreatedAt
	} else {
		h.CreatedAt = now
	}
	h.UpdatedAt = now
	r.data[h.ClientID] = *h
	return nil
}

// AuditRepository keeps audit entries in insertion order.
type AuditRepository struct {
	mu      sync.Mutex
	entries []domain.AuditLog
}

func NewAuditRepository() *AuditRepository { return &AuditRepository{} }

func (r *AuditRepository) Create(_ context.Context, entry *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = time.Now().UTC()
	}
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *AuditRepository) Entries() []domain.AuditLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.AuditLog, len(r.entries))
	copy(out, r.entries)
	return out
}
