package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/odyssey/internal/domain/client"
	"github.com/dmehra2102/prod-golang-projects/odyssey/pkg/age"
	"github.com/dmehra2102/prod-golang-projects/odyssey/pkg/metrics"
)

// ClientView is a client record together with its age on the day it was
// read.
type ClientView struct {
	*client.Client
	Age int `json:"age"`
}

type ClientService struct {
	repo     client.Repository
	auditSvc *AuditService
	clock    age.Clock
	metrics  *metrics.Collector
	log      *zap.Logger
}

func NewClientService(repo client.Repository, auditSvc *AuditService, clock age.Clock, m *metrics.Collector, log *zap.Logger) *ClientService {
	return &ClientService{
		repo:     repo,
		auditSvc: auditSvc,
		clock:    clock,
		metrics:  m,
		log:      log,
	}
}

func (s *ClientService) CreateClient(ctx context.Context, cmd *client.CreateClientCommand, meta RequestMeta) (*ClientView, error) {
	if err := s.validateCreate(cmd); err != nil {
		return nil, err
	}

	c := &client.Client{
		FirstName:    strings.TrimSpace(cmd.FirstName),
		MiddleName:   strings.TrimSpace(cmd.MiddleName),
		LastName:     strings.TrimSpace(cmd.LastName),
		DateOfBirth:  cmd.DateOfBirth,
		Email:        strings.ToLower(strings.TrimSpace(cmd.Email)),
		Phone:        strings.TrimSpace(cmd.Phone),
		GuardianName: strings.TrimSpace(cmd.GuardianName),
	}

	if err := s.repo.Create(ctx, c); err != nil {
		s.log.Error("failed to create client", zap.Error(err))
		return nil, fmt.Errorf("creating client: %w", err)
	}

	s.metrics.ClientsCreatedTotal.Inc()
	s.auditSvc.LogAsync(ctx, AuditEntry{
		Action:       "create",
		ResourceType: "client",
		ResourceID:   c.ID.String(),
		ClientID:     c.ID,
		Meta:         meta,
	})

	s.log.Info("client created", zap.String("client_id", c.ID.String()))

	return s.view(c), nil
}

func (s *ClientService) GetClient(ctx context.Context, id uuid.UUID, meta RequestMeta) (*ClientView, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		Action:       "read",
		ResourceType: "client",
		ResourceID:   id.String(),
		ClientID:     id,
		Meta:         meta,
	})

	return s.view(c), nil
}

// requireClient returns client.ErrClientNotFound unless id exists.
func requireClient(ctx context.Context, repo client.Repository, id uuid.UUID) error {
	ok, err := repo.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("checking client: %w", err)
	}
	if !ok {
		return client.ErrClientNotFound
	}
	return nil
}

func (s *ClientService) view(c *client.Client) *ClientView {
	return &ClientView{Client: c, Age: c.AgeAt(s.clock.Now())}
}

func (s *ClientService) validateCreate(cmd *client.CreateClientCommand) error {
	var errs []string
	now := s.clock.Now()

	if strings.TrimSpace(cmd.FirstName) == "" {
		errs = append(errs, "first_name is required")
	}
	if strings.TrimSpace(cmd.LastName) == "" {
		errs = append(errs, "last_name is required")
	}
	if cmd.DateOfBirth.IsZero() {
		errs = append(errs, "date_of_birth is required")
	} else if cmd.DateOfBirth.After(now) {
		errs = append(errs, client.ErrInvalidDateOfBirth.Error())
	} else if age.Age(cmd.DateOfBirth, now) < 18 && strings.TrimSpace(cmd.GuardianName) == "" {
		errs = append(errs, "guardian_name is required for clients under 18")
	}
	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
