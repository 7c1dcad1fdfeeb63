package app

import (
	"context"
	"fmt"
	"os"

	"github.com/yungbote/docqa-backend/internal/corpus"
	httpserver "github.com/yungbote/docqa-backend/internal/http"
	httpH "github.com/yungbote/docqa-backend/internal/http/handlers"
	"github.com/yungbote/docqa-backend/internal/ingestion"
	"github.com/yungbote/docqa-backend/internal/observability"
	"github.com/yungbote/docqa-backend/internal/platform/logger"
	"github.com/yungbote/docqa-backend/internal/platform/openai"
	"github.com/yungbote/docqa-backend/internal/services"
)

type App struct {
	Log    *logger.Logger
	Cfg    Config
	Server *httpserver.Server
	Index  *corpus.Index
	Ask    *services.AskService

	otelShutdown func(context.Context) error
}

// New wires the whole service: logger, observability, model client, vector
// store, corpus index, then the ask pipeline and HTTP surface. The index
// build blocks until every snapshot chunk is embedded and upserted.
func New(ctx context.Context) (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	cfg := LoadConfig()
	log.Info("Configuration loaded",
		"port", cfg.Port,
		"snapshot_path", cfg.SnapshotPath,
		"vector_provider", cfg.VectorProvider,
		"top_k", cfg.TopK,
		"max_distance", cfg.MaxDistance,
	)

	metrics := observability.Init()
	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "docqa",
	})

	model, err := openai.NewClient(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init model client: %w", err)
	}

	store, err := resolveVectorStoreProvider(log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}

	records, err := ingestion.LoadSnapshot(cfg.SnapshotPath)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	log.Info("Snapshot loaded", "records", len(records))

	index, err := corpus.BuildIndex(ctx, log, model, store, corpus.ChunksFromRecords(records))
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("build corpus index: %w", err)
	}

	expander, err := services.NewQueryExpander()
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init query expander: %w", err)
	}
	ask := services.NewAskService(
		services.NewQueryGuard(),
		expander,
		services.NewRetriever(index, log),
		services.NewContextAssembler(),
		services.NewAnswerComposer(model, log),
		services.NewCitationResolver(),
		log,
	)

	server := httpserver.NewServer(httpserver.RouterConfig{
		Log:            log,
		Metrics:        metrics,
		AskHandler:     httpH.NewAskHandler(ask),
		HealthHandler:  httpH.NewHealthHandler(),
		MetricsHandler: httpH.NewMetricsHandler(metrics),
		TracingEnabled: observability.OTelEnabled(),
	})

	return &App{
		Log:          log,
		Cfg:          cfg,
		Server:       server,
		Index:        index,
		Ask:          ask,
		otelShutdown: otelShutdown,
	}, nil
}

func (a *App) Run() error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Server.Run(":" + a.Cfg.Port)
}

func (a *App) Close(ctx context.Context) {
	if a == nil {
		return
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
