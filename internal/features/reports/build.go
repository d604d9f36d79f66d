package reports

import (
	"time"

	"patrol-verifier/internal/core/cache"
	"patrol-verifier/internal/core/config"
	"patrol-verifier/internal/core/httpclient"
	"patrol-verifier/internal/features/reports/adapters"
	"patrol-verifier/internal/features/reports/handler"
	"patrol-verifier/internal/features/reports/ports"
	"patrol-verifier/internal/features/reports/service"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const webhookTimeout = 10 * time.Second

// Module wires the patrol report feature.
type Module struct {
	Service *service.SubmissionService
	Routes  ports.RouteRepository
	Shifts  ports.ShiftRepository
	handler *handler.ReportHandler
}

// Build assembles the feature on top of db. routeCache may be nil to read routes uncached.
func Build(cfg *config.AppConfig, db *sqlx.DB, routeCache cache.Cache, logger *zap.Logger) *Module {
	if logger == nil {
		logger = zap.NewNop()
	}

	var routes ports.RouteRepository = adapters.NewPostgresRouteRepository(db)
	if routeCache != nil {
		routes = adapters.NewCachedRouteRepository(routes, routeCache, cfg.Redis.RouteCacheTTL(), logger)
	}
	shifts := adapters.NewPostgresShiftRepository(db)

	var notifier ports.ReportNotifier
	if cfg.Reports.WebhookURL != "" {
		notifier = adapters.NewWebhookNotifier(cfg.Reports.WebhookURL, httpclient.NewClient(webhookTimeout, logger))
	}

	svc := service.NewSubmissionService(
		adapters.NewPostgresReportRepository(db),
		shifts,
		routes,
		adapters.NewLocalFileStore(cfg.Reports.UploadFolder),
		notifier,
		logger,
		service.Options{Timeout: cfg.Reports.ProcessingTimeout()},
	)

	return &Module{
		Service: svc,
		Routes:  routes,
		Shifts:  shifts,
		handler: handler.NewReportHandler(svc, int64(cfg.Reports.MaxUploadBytes)),
	}
}

// RegisterRoutes mounts the report endpoints.
func (m *Module) RegisterRoutes(router fiber.Router) {
	m.handler.RegisterRoutes(router)
}
