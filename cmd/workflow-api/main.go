package main

import (
	"context"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/cmd"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/log"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/otelhelper"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/retrieval"
	"github.com/RaafidAfraazG/AI-workflow-builder/pkg/workflow"
)

const defaultPort = 8080

func main() {
	logger := log.WithModule("api")

	command := &cli.Command{
		Name:                  "workflow-api",
		Usage:                 "Build, validate and run AI workflows",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "Database connection URL for persistence (postgres://... or a file path)",
				Value:   "./data",
				Sources: cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "vector-url",
				Usage:   "Vector store connection URL (postgres://... for pgvector, empty for in-memory)",
				Sources: cli.EnvVars("VECTOR_URL"),
			},
			&cli.StringFlag{
				Name:    "redis-url",
				Usage:   "Redis URL for the embedding cache (empty disables caching)",
				Sources: cli.EnvVars("REDIS_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus type (gochannel, kafka)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "llm-provider",
				Usage:   "Generation model provider (mock, openai)",
				Value:   "mock",
				Sources: cli.EnvVars("LLM_PROVIDER"),
			},
			&cli.StringFlag{
				Name:    "embedding-provider",
				Usage:   "Embedding provider (hash, openai)",
				Value:   "hash",
				Sources: cli.EnvVars("EMBEDDING_PROVIDER"),
			},
			&cli.StringFlag{
				Name:    "openai-api-key",
				Usage:   "API key for the openai providers",
				Sources: cli.EnvVars("OPENAI_API_KEY"),
			},
			&cli.StringFlag{
				Name:    "upload-dir",
				Usage:   "Directory for uploaded knowledge base documents",
				Value:   "./uploads",
				Sources: cli.EnvVars("UPLOAD_DIR"),
			},
			&cli.DurationFlag{
				Name:    "node-timeout",
				Usage:   "Timeout for each node's external calls",
				Value:   workflow.DefaultNodeTimeout,
				Sources: cli.EnvVars("NODE_TIMEOUT"),
			},
			&cli.BoolFlag{
				Name:    "tracing",
				Usage:   "Enable OTLP trace export",
				Sources: cli.EnvVars("TRACING_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger.InfoContext(ctx, "Initializing workflow builder API")

			if command.Bool("tracing") {
				if _, err := otelhelper.NewTracer(ctx, "workflow-api"); err != nil {
					return err
				}
			}

			persistence, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
			if err != nil {
				return err
			}

			defer func() {
				if err := persistence.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			eventBus, err := cmd.NewEventBus(command.String("event-bus"), logger)
			if err != nil {
				return err
			}

			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			if err := newAuditSubscriber(eventBus, logger).Start(ctx); err != nil {
				return err
			}

			apiKey := command.String("openai-api-key")

			embedder, err := cmd.NewEmbedder(command.String("embedding-provider"), apiKey, command.String("redis-url"), logger)
			if err != nil {
				return err
			}

			vectorStore, err := cmd.NewVectorStore(ctx, logger, command.String("vector-url"))
			if err != nil {
				return err
			}

			provider, err := cmd.NewLLMProvider(command.String("llm-provider"), apiKey)
			if err != nil {
				return err
			}

			pipeline := retrieval.NewPipeline(embedder, vectorStore, logger)

			api := NewAPI(
				logger,
				persistence,
				pipeline,
				provider,
				eventBus,
				command.String("upload-dir"),
				command.Duration("node-timeout"),
			)

			if err := api.Start(command.Int("port")); err != nil {
				logger.ErrorContext(ctx, "Failed to start API server", "error", err)

				return err
			}

			return nil
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}
