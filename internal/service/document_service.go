package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/odyssey/internal/domain/client"
	"github.com/dmehra2102/prod-golang-projects/odyssey/internal/domain/document"
	"github.com/dmehra2102/prod-golang-projects/odyssey/pkg/age"
	"github.com/dmehra2102/prod-golang-projects/odyssey/pkg/capture"
	"github.com/dmehra2102/prod-golang-projects/odyssey/pkg/drawing"
	"github.com/dmehra2102/prod-golang-projects/odyssey/pkg/metrics"
)

type SignDocumentInput struct {
	ClientID uuid.UUID
	Kind     document.Kind
	SignDate time.Time
	// Signature is an existing data URL, e.g. from a browser pad. Strokes
	// are drawn on top of it.
	Signature string
	Strokes   drawing.Drawing
	Fields    map[string]any
}

// DocumentStatus tells whether a client has signed one catalog document
// and whether that signature is on the current revision.
type DocumentStatus struct {
	Kind     document.Kind `json:"kind"`
	Name     string        `json:"name"`
	Revision string        `json:"revision"`
	Signed   bool          `json:"signed"`
	Current  bool          `json:"current"`
	SignDate *time.Time    `json:"signdate,omitempty"`
}

type DocumentService struct {
	catalog  *document.Catalog
	clients  client.Repository
	repo     document.Repository
	auditSvc *AuditService
	canvas   CanvasSettings
	clock    age.Clock
	metrics  *metrics.Collector
	log      *zap.Logger
}

func NewDocumentService(
	catalog *document.Catalog,
	clients client.Repository,
	repo document.Repository,
	auditSvc *AuditService,
	canvas CanvasSettings,
	clock age.Clock,
	m *metrics.Collector,
	log *zap.Logger,
) *DocumentService {
	return &DocumentService{
		catalog:  catalog,
		clients:  clients,
		repo:     repo,
		auditSvc: auditSvc,
		canvas:   canvas,
		clock:    clock,
		metrics:  m,
		log:      log,
	}
}

func (s *DocumentService) Catalog() []document.Definition {
	return s.catalog.All()
}

// Sign stores a client's signature on a catalog document, replacing any
// earlier one. The submission is replayed through a signature widget so
// an empty pad is refused exactly as it is in the browser.
func (s *DocumentService) Sign(ctx context.Context, in SignDocumentInput, meta RequestMeta) (*document.SignedDocument, error) {
	def, err := s.catalog.Lookup(in.Kind)
	if err != nil {
		return nil, err
	}
	if err := requireClient(ctx, s.clients, in.ClientID); err != nil {
		return nil, err
	}
	if err := s.validateSign(in, def); err != nil {
		return nil, err
	}

	signature, err := s.capture(in)
	if err != nil {
		reason := "invalid"
		if errors.Is(err, document.ErrSignatureRequired) {
			reason = "empty"
		}
		s.metrics.SignaturesRejected.WithLabelValues(reason).Inc()
		return nil, err
	}

	doc := &document.SignedDocument{
		ClientID:  in.ClientID,
		Kind:      def.Kind,
		SignDate:  in.SignDate,
		Signature: signature,
		Revision:  def.Revision,
		Fields:    in.Fields,
	}
	if err := s.repo.Upsert(ctx, doc); err != nil {
		s.log.Error("failed to store signed document", zap.Error(err))
		return nil, fmt.Errorf("storing signed document: %w", err)
	}

	s.metrics.SignaturesCaptured.WithLabelValues(string(def.Kind)).Inc()
	s.auditSvc.LogAsync(ctx, AuditEntry{
		Action:       "sign",
		ResourceType: "document",
		ResourceID:   string(def.Kind),
		ClientID:     in.ClientID,
		Meta:         meta,
	})

	s.log.Info("document signed",
		zap.String("client_id", in.ClientID.String()),
		zap.String("kind", string(def.Kind)),
		zap.String("revision", def.Revision),
	)

	return doc, nil
}

func (s *DocumentService) capture(in SignDocumentInput) (string, error) {
	pad, err := s.canvas.signaturePad()
	if err != nil {
		return "", fmt.Errorf("creating signature pad: %w", err)
	}

	form, field := capture.NewForm(), capture.NewHiddenField(in.Signature)
	var alerted string
	sc, err := capture.NewSignatureCapture(pad, form, capture.NewButton(), field,
		capture.AlertFunc(func(msg string) { alerted = msg }))
	if err != nil {
		return "", fmt.Errorf("%w: %v", document.ErrInvalidSignature, err)
	}

	start := time.Now()
	replay(pad, in.Strokes, s.metrics)

	if !pad.IsEmpty() && !drawing.HasInk(pad.Image()) {
		pad.Clear()
	}

	ok := form.Submit()
	s.metrics.RenderDuration.WithLabelValues("signature").Observe(time.Since(start).Seconds())
	if !ok {
		if errors.Is(sc.Err(), capture.ErrEmptySignature) {
			s.log.Debug("empty signature refused", zap.String("alert", alerted))
			return "", document.ErrSignatureRequired
		}
		return "", fmt.Errorf("capturing signature: %w", sc.Err())
	}
	return field.Value(), nil
}

func (s *DocumentService) validateSign(in SignDocumentInput, def document.Definition) error {
	var errs []string

	if in.SignDate.IsZero() {
		errs = append(errs, "signdate is required")
	} else if in.SignDate.After(s.clock.Now()) {
		errs = append(errs, document.ErrSignDateInFuture.Error())
	}
	if err := s.canvas.checkPoints(in.Strokes); err != nil {
		errs = append(errs, err.Error())
	}
	if err := def.CheckFields(in.Fields); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

func (s *DocumentService) Get(ctx context.Context, clientID uuid.UUID, kind document.Kind, meta RequestMeta) (*document.SignedDocument, error) {
	if _, err := s.catalog.Lookup(kind); err != nil {
		return nil, err
	}
	if err := requireClient(ctx, s.clients, clientID); err != nil {
		return nil, err
	}

	doc, err := s.repo.Get(ctx, clientID, kind)
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		Action:       "read",
		ResourceType: "document",
		ResourceID:   string(kind),
		ClientID:     clientID,
		Meta:         meta,
	})
	return doc, nil
}

// Status lists every catalog document with the client's signing state.
func (s *DocumentService) Status(ctx context.Context, clientID uuid.UUID) ([]DocumentStatus, error) {
	if err := requireClient(ctx, s.clients, clientID); err != nil {
		return nil, err
	}

	docs, err := s.repo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	signed := make(map[document.Kind]*document.SignedDocument, len(docs))
	for _, d := range docs {
		signed[d.Kind] = d
	}

	defs := s.catalog.All()
	out := make([]DocumentStatus, 0, len(defs))
	for _, def := range defs {
		st := DocumentStatus{Kind: def.Kind, Name: def.Name, Revision: def.Revision}
		if d, ok := signed[def.Kind]; ok {
			st.Signed = true
			st.Current = d.IsCurrent(def)
			sd := d.SignDate
			st.SignDate = &sd
		}
		out = append(out, st)
	}
	return out, nil
}

// SignatureImage returns the stored signature as an image. A positive
// width scales it down to at most that many pixels wide.
func (s *DocumentService) SignatureImage(ctx context.Context, clientID uuid.UUID, kind document.Kind, width int) ([]byte, string, error) {
	if width < 0 || width > s.canvas.MaxThumbWidth {
		return nil, "", &ValidationError{Fields: []string{
			fmt.Sprintf("width must be between 1 and %d", s.canvas.MaxThumbWidth),
		}}
	}

	doc, err := s.Get(ctx, clientID, kind, RequestMeta{})
	if err != nil {
		return nil, "", err
	}

	if width == 0 {
		data, mime, err := drawing.DataURLBytes(doc.Signature)
		if err != nil {
			return nil, "", fmt.Errorf("stored signature: %w", err)
		}
		return data, mime, nil
	}

	img, err := drawing.DecodeDataURL(doc.Signature)
	if err != nil {
		return nil, "", fmt.Errorf("stored signature: %w", err)
	}
	data, err := encodePNG(drawing.Thumbnail(img, width))
	if err != nil {
		return nil, "", err
	}
	return data, drawing.MimePNG, nil
}
