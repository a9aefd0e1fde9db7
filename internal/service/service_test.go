package service

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/odyssey/internal/domain/client"
	"github.com/dmehra2102/prod-golang-projects/odyssey/internal/domain/document"
	"github.com/dmehra2102/prod-golang-projects/odyssey/internal/repository/memory"
	"github.com/dmehra2102/prod-golang-projects/odyssey/pkg/age"
	"github.com/dmehra2102/prod-golang-projects/odyssey/pkg/metrics"
)

var testNow = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

type testEnv struct {
	clients *memory.ClientRepository
	docs    *memory.DocumentRepository
	pts     *memory.PTRepository
	audits  *memory.AuditRepository
	metrics *metrics.Collector

	auditSvc  *AuditService
	clientSvc *ClientService
	docSvc    *DocumentService
	ptSvc     *PTService
	helpSvc   *HelpService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := zap.NewNop()
	m := metrics.NewCollector("test", prometheus.NewRegistry())
	catalog, err := document.DefaultCatalog()
	require.NoError(t, err)

	canvas := DefaultCanvasSettings()
	canvas.SignatureWidth, canvas.SignatureHeight = 200, 80
	canvas.PainWidth, canvas.PainHeight = 100, 150
	canvas.MaxThumbWidth = 400
	canvas.MaxStrokePoints = 500

	env := &testEnv{
		clients: memory.NewClientRepository(),
		docs:    memory.NewDocumentRepository(),
		pts:     memory.NewPTRepository(),
		audits:  memory.NewAuditRepository(),
		metrics: m,
	}
	clock := age.FixedClock(testNow)

	env.auditSvc = NewAuditService(env.audits, log, m)
	t.Cleanup(env.auditSvc.Shutdown)

	env.clientSvc = NewClientService(env.clients, env.auditSvc, clock, m, log)
	env.docSvc = NewDocumentService(catalog, env.clients, env.docs, env.auditSvc, canvas, clock, m, log)
	env.ptSvc = NewPTService(env.clients, env.pts, env.auditSvc, canvas, m, log)
	env.helpSvc = NewHelpService(catalog, env.clients)
	return env
}

func (e *testEnv) newClient(t *testing.T) *client.Client {
	t.Helper()
	c := &client.Client{
		FirstName:   "Grace",
		LastName:    "Hopper",
		DateOfBirth: time.Date(1980, 1, 2, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, e.clients.Create(context.Background(), c))
	return c
}

func intp(v int) *int { return &v }
