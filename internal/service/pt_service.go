package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/odyssey/internal/domain/client"
	"github.com/dmehra2102/prod-golang-projects/odyssey/internal/domain/pt"
	"github.com/dmehra2102/prod-golang-projects/odyssey/pkg/capture"
	"github.com/dmehra2102/prod-golang-projects/odyssey/pkg/drawing"
	"github.com/dmehra2102/prod-golang-projects/odyssey/pkg/metrics"
)

type PTService struct {
	clients  client.Repository
	repo     pt.Repository
	auditSvc *AuditService
	canvas   CanvasSettings
	metrics  *metrics.Collector
	log      *zap.Logger
}

func NewPTService(clients client.Repository, repo pt.Repository, auditSvc *AuditService, canvas CanvasSettings, m *metrics.Collector, log *zap.Logger) *PTService {
	return &PTService{
		clients:  clients,
		repo:     repo,
		auditSvc: auditSvc,
		canvas:   canvas,
		metrics:  m,
		log:      log,
	}
}

// GetHistory returns the client's PT history. A client who has not filled
// it in yet gets an empty one.
func (s *PTService) GetHistory(ctx context.Context, clientID uuid.UUID, meta RequestMeta) (*pt.History, error) {
	if err := requireClient(ctx, s.clients, clientID); err != nil {
		return nil, err
	}

	h, err := s.load(ctx, clientID)
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		Action:       "read",
		ResourceType: "pt_history",
		ResourceID:   clientID.String(),
		ClientID:     clientID,
		Meta:         meta,
	})
	return h, nil
}

func (s *PTService) load(ctx context.Context, clientID uuid.UUID) (*pt.History, error) {
	h, err := s.repo.Get(ctx, clientID)
	if errors.Is(err, pt.ErrHistoryNotFound) {
		return &pt.History{ClientID: clientID, PainAreas: "[]"}, nil
	}
	return h, err
}

func (s *PTService) UpdateHistory(ctx context.Context, clientID uuid.UUID, cmd *pt.UpdateHistoryCommand, meta RequestMeta) (*pt.History, error) {
	if err := requireClient(ctx, s.clients, clientID); err != nil {
		return nil, err
	}
	if err := validateHistory(cmd); err != nil {
		return nil, err
	}

	painAreas, err := s.canonicalPainAreas(cmd.PainAreas)
	if err != nil {
		return nil, err
	}

	h, err := s.load(ctx, clientID)
	if err != nil {
		return nil, err
	}
	cmd.PainAreas = painAreas
	cmd.Apply(h)

	if err := s.repo.Save(ctx, h); err != nil {
		s.log.Error("failed to save pt history", zap.Error(err))
		return nil, fmt.Errorf("saving pt history: %w", err)
	}

	s.metrics.PainAreaSubmissions.WithLabelValues("form").Inc()
	s.auditSvc.LogAsync(ctx, AuditEntry{
		Action:       "update",
		ResourceType: "pt_history",
		ResourceID:   clientID.String(),
		ClientID:     clientID,
		Meta:         meta,
	})
	return h, nil
}

// canonicalPainAreas replays submitted pain areas through a pain-area
// widget and returns what the widget writes back on submit.
func (s *PTService) canonicalPainAreas(raw string) (string, error) {
	pad, err := s.canvas.painPad()
	if err != nil {
		return "", fmt.Errorf("creating pain pad: %w", err)
	}

	form, field := capture.NewForm(), capture.NewHiddenField(raw)
	pc, err := capture.NewPainAreaCapture(pad, form, capture.NewButton(), capture.NewCheckbox(false), field)
	if err != nil {
		return "", fmt.Errorf("%w: %v", pt.ErrInvalidPainAreas, err)
	}

	d := pad.ToData()
	if err := s.canvas.checkPoints(d); err != nil {
		return "", &ValidationError{Fields: []string{err.Error()}}
	}
	countStrokes(d, s.metrics)

	if !form.Submit() {
		return "", fmt.Errorf("encoding pain areas: %w", pc.Err())
	}
	return field.Value(), nil
}

// SavePainAreas replaces only the pain areas of the client's history.
// painAreas must already be canonical.
func (s *PTService) SavePainAreas(ctx context.Context, clientID uuid.UUID, painAreas, source string) (*pt.History, error) {
	h, err := s.load(ctx, clientID)
	if err != nil {
		return nil, err
	}
	h.PainAreas = painAreas

	if err := s.repo.Save(ctx, h); err != nil {
		return nil, fmt.Errorf("saving pain areas: %w", err)
	}

	s.metrics.PainAreaSubmissions.WithLabelValues(source).Inc()
	s.auditSvc.LogAsync(ctx, AuditEntry{
		Action:       "update",
		ResourceType: "pt_history",
		ResourceID:   clientID.String(),
		ClientID:     clientID,
		Changes:      `{"fields":["pain_areas"]}`,
	})
	return h, nil
}

// PainAreasImage renders the stored pain areas as a PNG.
func (s *PTService) PainAreasImage(ctx context.Context, clientID uuid.UUID) ([]byte, error) {
	if err := requireClient(ctx, s.clients, clientID); err != nil {
		return nil, err
	}
	h, err := s.load(ctx, clientID)
	if err != nil {
		return nil, err
	}

	d, err := drawing.Decode(h.PainAreas)
	if err != nil {
		return nil, fmt.Errorf("stored pain areas: %w", err)
	}

	start := time.Now()
	w, ht := s.canvas.pixelSize(s.canvas.PainWidth, s.canvas.PainHeight)
	img := image.NewNRGBA(image.Rect(0, 0, w, ht))
	drawing.RenderScaled(img, d, s.canvas.PixelRatio)
	data, err := encodePNG(img)
	s.metrics.RenderDuration.WithLabelValues("pain_areas").Observe(time.Since(start).Seconds())
	return data, err
}

func validateHistory(cmd *pt.UpdateHistoryCommand) error {
	var errs []string

	for name, p := range map[string]*int{
		"best_pain":    cmd.BestPain,
		"worst_pain":   cmd.WorstPain,
		"current_pain": cmd.CurrentPain,
	} {
		if !pt.ValidPain(p) {
			errs = append(errs, fmt.Sprintf("%s: %v", name, pt.ErrPainOutOfRange))
		}
	}
	if cmd.BestPain != nil && cmd.WorstPain != nil && *cmd.BestPain > *cmd.WorstPain {
		errs = append(errs, "best_pain cannot exceed worst_pain")
	}
	if len(cmd.MakesWorse) > pt.MaxDescriptionLength {
		errs = append(errs, fmt.Sprintf("makes_worse: %v", pt.ErrDescriptionLength))
	}
	if len(cmd.MakesBetter) > pt.MaxDescriptionLength {
		errs = append(errs, fmt.Sprintf("makes_better: %v", pt.ErrDescriptionLength))
	}

	if len(errs) > 0 {
		sort.Strings(errs)
		return &ValidationError{Fields: errs}
	}
	return nil
}
