// Package main provides the flowbuilder API server implementation.
package main

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/dukex/flowbuilder/pkg/cmd"
	"github.com/dukex/flowbuilder/pkg/document"
	"github.com/dukex/flowbuilder/pkg/editor"
	"github.com/dukex/flowbuilder/pkg/eventbus"
	"github.com/dukex/flowbuilder/pkg/persistence"
	"github.com/dukex/flowbuilder/pkg/services"
	"github.com/dukex/flowbuilder/pkg/web"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"go.opentelemetry.io/otel/trace"
)

type API struct {
	logger   *slog.Logger
	session  *editor.Session
	workflow *services.Workflow
	handlers *web.APIHandlers
}

func NewAPI(
	logger *slog.Logger,
	persistence persistence.Persistence,
	eventBus eventbus.EventPublisher,
	tracer trace.Tracer,
	noticeTTL time.Duration,
) *API {
	validate := validator.New(validator.WithRequiredStructEnabled())

	palette := cmd.NewRegistry(logger.With("module", "registry"))

	machine := editor.NewMachine(persistence, logger.With("module", "editor"))
	session := editor.NewSession(machine, editor.WithNoticeTTL(noticeTTL))
	workspace := services.NewWorkspace(session, eventBus, tracer, logger)

	workflowService := services.NewWorkflow(workspace, persistence)
	nodeService := services.NewNode(workspace)
	publishingService := services.NewPublishing(workspace, document.NewCodec(validate))

	return &API{
		logger:   logger,
		session:  session,
		workflow: workflowService,
		handlers: web.NewAPIHandlers(workflowService, nodeService, publishingService, validate, palette),
	}
}

// LoadCatalog reads the saved workflows into the session.
func (a *API) LoadCatalog(ctx context.Context) {
	state, err := a.workflow.Reload(ctx)
	if err != nil {
		a.logger.ErrorContext(ctx, "Failed to load workflow catalog", "error", err)

		return
	}

	if state.Issues.HasBlocking() {
		a.logger.WarnContext(ctx, "Workflow catalog unavailable", "issues", state.Issues.Messages())

		return
	}

	a.logger.InfoContext(ctx, "Workflow catalog loaded", "workflows", len(state.Workflows))
}

func (a *API) App() *fiber.App {
	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker(healthcheck.Config{
		Probe: func(c fiber.Ctx) bool {
			_, ok := a.workflow.HealthCheck(c.Context())

			return ok
		},
	}))

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Flowbuilder API")
	})

	a.handlers.Register(app)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	return app.Listen(":" + strconv.Itoa(port))
}

// Close stops the notice timer of the session.
func (a *API) Close() {
	a.session.Close()
}
