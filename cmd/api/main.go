package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/odyssey/config"
	"github.com/dmehra2102/prod-golang-projects/odyssey/internal/domain/client"
	"github.com/dmehra2102/prod-golang-projects/odyssey/internal/domain/document"
	"github.com/dmehra2102/prod-golang-projects/odyssey/internal/domain/pt"
	v1 "github.com/dmehra2102/prod-golang-projects/odyssey/internal/handler/v1"
	"github.com/dmehra2102/prod-golang-projects/odyssey/internal/repository/memory"
	"github.com/dmehra2102/prod-golang-projects/odyssey/internal/repository/postgres"
	"github.com/dmehra2102/prod-golang-projects/odyssey/internal/server"
	"github.com/dmehra2102/prod-golang-projects/odyssey/internal/service"
	"github.com/dmehra2102/prod-golang-projects/odyssey/pkg/age"
	"github.com/dmehra2102/prod-golang-projects/odyssey/pkg/database"
	"github.com/dmehra2102/prod-golang-projects/odyssey/pkg/discovery"
	"github.com/dmehra2102/prod-golang-projects/odyssey/pkg/logger"
	"github.com/dmehra2102/prod-golang-projects/odyssey/pkg/metrics"
	"github.com/dmehra2102/prod-golang-projects/odyssey/pkg/tracer"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "odyssey: %v\n", err)
		os.Exit(1)
	}
}

type repositories struct {
	clients client.Repository
	docs    document.Repository
	pts     pt.Repository
	audits  service.AuditRepository
	db      v1.Pinger
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := tracer.Init(ctx, cfg.Tracing, cfg.App.Version)
	if err != nil {
		return fmt.Errorf("initialising tracer: %w", err)
	}

	m := metrics.NewCollector(cfg.App.Name, prometheus.DefaultRegisterer)

	repos, closeDB, err := openRepositories(cfg, log)
	if err != nil {
		return err
	}
	defer closeDB()

	catalog, err := document.DefaultCatalog()
	if err != nil {
		return fmt.Errorf("loading document catalog: %w", err)
	}

	canvas := service.CanvasSettings{
		SignatureWidth:  cfg.Canvas.SignatureWidth,
		SignatureHeight: cfg.Canvas.SignatureHeight,
		PainWidth:       cfg.Canvas.PainWidth,
		PainHeight:      cfg.Canvas.PainHeight,
		PixelRatio:      cfg.Canvas.PixelRatio,
		MaxThumbWidth:   cfg.Canvas.MaxThumbWidth,
		MaxStrokePoints: cfg.Canvas.MaxStrokePoints,
	}
	clock := age.SystemClock{}

	auditSvc := service.NewAuditService(repos.audits, logger.Named(log, "audit"), m)
	clientSvc := service.NewClientService(repos.clients, auditSvc, clock, m, logger.Named(log, "clients"))
	docSvc := service.NewDocumentService(catalog, repos.clients, repos.docs, auditSvc, canvas, clock, m, logger.Named(log, "documents"))
	ptSvc := service.NewPTService(repos.clients, repos.pts, auditSvc, canvas, m, logger.Named(log, "pt"))
	helpSvc := service.NewHelpService(catalog, repos.clients)

	srv := server.New(cfg, server.Handlers{
		Health:    v1.NewHealthHandler(repos.db, cfg.App.Version),
		Clients:   v1.NewClientHandler(clientSvc),
		Documents: v1.NewDocumentHandler(docSvc),
		PT:        v1.NewPTHandler(ptSvc),
		Live:      v1.NewLiveHandler(ptSvc, cfg.Canvas.LiveIdleTimeout, cfg.CORS.AllowedOrigins, logger.Named(log, "live")),
		Help:      v1.NewHelpHandler(helpSvc),
	}, m, prometheus.DefaultGatherer, logger.Named(log, "http"))

	var adv *discovery.Advertiser
	if cfg.Discovery.Enabled {
		var advErr error
		adv, advErr = discovery.Advertise(cfg.Discovery, cfg.Server.Port, cfg.App.Version)
		if advErr != nil {
			log.Warn("mdns advertisement disabled", zap.Error(advErr))
		}
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	log.Info("odyssey intake started",
		zap.String("env", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
		zap.String("db_driver", cfg.Database.Driver),
	)

	select {
	case err = <-errCh:
		if err != nil {
			log.Error("http server stopped", zap.Error(err))
		}
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if shutdownErr := adv.Shutdown(); shutdownErr != nil {
		log.Warn("mdns shutdown", zap.Error(shutdownErr))
	}
	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		log.Error("http shutdown", zap.Error(shutdownErr))
	}
	auditSvc.Shutdown()
	if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
		log.Warn("tracer shutdown", zap.Error(shutdownErr))
	}

	log.Info("odyssey intake stopped")
	return err
}

func openRepositories(cfg *config.Config, log *zap.Logger) (*repositories, func(), error) {
	if cfg.Database.Driver == "memory" {
		log.Warn("using in-memory storage, data is lost on restart")
		return &repositories{
			clients: memory.NewClientRepository(),
			docs:    memory.NewDocumentRepository(),
			pts:     memory.NewPTRepository(),
			audits:  memory.NewAuditRepository(),
		}, func() {}, nil
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := database.Migrate(db, logger.Named(log, "migrate")); err != nil {
		return nil, nil, fmt.Errorf("migrating database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("database handle: %w", err)
	}

	return &repositories{
		clients: postgres.NewClientRepository(db),
		docs:    postgres.NewDocumentRepository(db),
		pts:     postgres.NewPTRepository(db),
		audits:  postgres.NewAuditRepository(db),
		db:      sqlDB,
	}, func() { _ = sqlDB.Close() }, nil
}
