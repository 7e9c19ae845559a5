// Package main provides the workflow builder API server implementation.
package main

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/eventbus"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/llm"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/persistence"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/retrieval"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/services"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/web"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/workflow"
)

type API struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	pipeline    *retrieval.Pipeline
	provider    llm.Provider
	eventBus    eventbus.EventBus
	validate    *validator.Validate
	uploadDir   string
	nodeTimeout time.Duration
}

func NewAPI(
	logger *slog.Logger,
	persistence persistence.Persistence,
	pipeline *retrieval.Pipeline,
	provider llm.Provider,
	eventBus eventbus.EventBus,
	uploadDir string,
	nodeTimeout time.Duration,
) *API {
	return &API{
		logger:      logger,
		persistence: persistence,
		pipeline:    pipeline,
		provider:    provider,
		eventBus:    eventBus,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		uploadDir:   uploadDir,
		nodeTimeout: nodeTimeout,
	}
}

func (a *API) App() *fiber.App {
	executor := workflow.NewNodeExecutor(a.provider, a.pipeline, a.logger).WithNodeTimeout(a.nodeTimeout)
	orchestrator := workflow.NewOrchestrator(executor, a.eventBus, a.logger)

	workflowService := services.NewWorkflow(a.persistence)
	knowledgeService := services.NewKnowledge(a.persistence, a.pipeline, a.eventBus, a.logger, a.uploadDir)
	chatService := services.NewChat(a.persistence, orchestrator, a.logger)

	handlers := web.NewAPIHandlers(workflowService, knowledgeService, chatService, a.validate, a.logger)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("AI Workflow Builder API")
	})

	w := app.Group("/workflows")
	w.Get("/", handlers.GetWorkflows)
	w.Post("/", handlers.CreateWorkflow)
	w.Get("/:id", handlers.GetWorkflow)
	w.Put("/:id", handlers.UpdateWorkflow)
	w.Delete("/:id", handlers.DeleteWorkflow)
	w.Post("/:id/build", handlers.BuildWorkflow)

	// Chat endpoints:
	w.Post("/:id/chats", handlers.CreateChat)
	w.Get("/:id/chats", handlers.GetChats)
	w.Get("/:id/chats/:chatId/messages", handlers.GetChatMessages)
	w.Post("/:id/chats/:chatId/messages", handlers.SendChatMessage)

	d := app.Group("/documents")
	d.Get("/", handlers.GetDocuments)
	d.Post("/upload", handlers.UploadDocument)
	d.Post("/:id/ingest", handlers.IngestDocument)
	d.Get("/:id/search", handlers.SearchDocument)
	d.Delete("/:id", handlers.DeleteDocument)

	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	return app.Listen(":" + strconv.Itoa(port))
}
