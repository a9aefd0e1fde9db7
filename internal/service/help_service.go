package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/dmehra2102/prod-golang-projects/odyssey/internal/domain/client"
	"github.com/dmehra2102/prod-golang-projects/odyssey/internal/domain/document"
	"github.com/dmehra2102/prod-golang-projects/odyssey/pkg/toggle"
)

const HelpGroup = "document-help"

type PanelState struct {
	Kind    document.Kind  `json:"kind"`
	Display toggle.Display `json:"display"`
}

type HelpState struct {
	Group  string       `json:"group"`
	Open   string       `json:"open,omitempty"`
	Panels []PanelState `json:"panels"`
}

type helpGroup struct {
	mu       sync.Mutex
	panels   []toggle.Element
	triggers map[document.Kind]*toggle.TriggerElement
}

// HelpService keeps, per client, which document help panel is open. Only
// one panel of a group shows at a time.
type HelpService struct {
	catalog *document.Catalog
	clients client.Repository

	mu     sync.Mutex
	groups map[uuid.UUID]*helpGroup
}

func NewHelpService(catalog *document.Catalog, clients client.Repository) *HelpService {
	return &HelpService{
		catalog: catalog,
		clients: clients,
		groups:  make(map[uuid.UUID]*helpGroup),
	}
}

func (s *HelpService) group(clientID uuid.UUID) *helpGroup {
	s.mu.Lock()
	defer s.mu.Unlock()

	if g, ok := s.groups[clientID]; ok {
		return g
	}

	g := &helpGroup{triggers: make(map[document.Kind]*toggle.TriggerElement)}
	triggers := make([]toggle.Trigger, 0, len(s.catalog.Kinds()))
	for _, k := range s.catalog.Kinds() {
		g.panels = append(g.panels, toggle.NewPanel(string(k)))
		tr := toggle.NewTrigger(map[string]string{toggle.DefaultAttr: string(k)})
		g.triggers[k] = tr
		triggers = append(triggers, tr)
	}
	toggle.Bind(g.panels, triggers, toggle.DefaultAttr)

	s.groups[clientID] = g
	return g
}

// Toggle clicks the help trigger for kind.
func (s *HelpService) Toggle(ctx context.Context, clientID uuid.UUID, kind document.Kind) (*HelpState, error) {
	if _, err := s.catalog.Lookup(kind); err != nil {
		return nil, err
	}
	if err := requireClient(ctx, s.clients, clientID); err != nil {
		return nil, err
	}

	g := s.group(clientID)
	g.mu.Lock()
	defer g.mu.Unlock()

	tr, ok := g.triggers[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", document.ErrUnknownKind, kind)
	}
	tr.Click()
	return g.state(), nil
}

func (s *HelpService) State(ctx context.Context, clientID uuid.UUID) (*HelpState, error) {
	if err := requireClient(ctx, s.clients, clientID); err != nil {
		return nil, err
	}

	g := s.group(clientID)
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state(), nil
}

func (g *helpGroup) state() *HelpState {
	st := &HelpState{Group: HelpGroup, Panels: make([]PanelState, 0, len(g.panels))}
	if id, ok := toggle.Visible(g.panels); ok {
		st.Open = id
	}
	for _, p := range g.panels {
		st.Panels = append(st.Panels, PanelState{Kind: document.Kind(p.ID()), Display: p.Display()})
	}
	return st
}
