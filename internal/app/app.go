// Package app wires every component into one process: a flat App struct, a
// New() constructor that builds collaborators bottom-up, and Start/Run/Close
// lifecycle methods. Components are independently deployable Temporal
// workers plus one HTTP API, so App exposes a Runner per queue family and
// lets each cmd/ binary decide which to start.
package app

import (
	"context"
	"fmt"
	"os"

	temporalsdkclient "go.temporal.io/sdk/client"

	"github.com/shark8848/knowledge-transformer/internal/config"
	"github.com/shark8848/knowledge-transformer/internal/conversion"
	"github.com/shark8848/knowledge-transformer/internal/enrich"
	"github.com/shark8848/knowledge-transformer/internal/httpapi"
	"github.com/shark8848/knowledge-transformer/internal/httpapi/handlers"
	"github.com/shark8848/knowledge-transformer/internal/llm"
	"github.com/shark8848/knowledge-transformer/internal/metrics"
	"github.com/shark8848/knowledge-transformer/internal/objectstore"
	"github.com/shark8848/knowledge-transformer/internal/orchestrator"
	"github.com/shark8848/knowledge-transformer/internal/platform/appkey"
	"github.com/shark8848/knowledge-transformer/internal/platform/gcp"
	"github.com/shark8848/knowledge-transformer/internal/platform/logger"
	"github.com/shark8848/knowledge-transformer/internal/platform/temporalx"
	"github.com/shark8848/knowledge-transformer/internal/plugins"
	"github.com/shark8848/knowledge-transformer/internal/plugins/builtin"
	"github.com/shark8848/knowledge-transformer/internal/probe"
	"github.com/shark8848/knowledge-transformer/internal/resultstore"
	"github.com/shark8848/knowledge-transformer/internal/search"
	"github.com/shark8848/knowledge-transformer/internal/search/index"
	"github.com/shark8848/knowledge-transformer/internal/search/query"
	"github.com/shark8848/knowledge-transformer/internal/vector"
	"github.com/shark8848/knowledge-transformer/internal/video"
)

// App holds every wired collaborator. Unexported fields would force a
// single wiring entry point; cmd/ binaries need direct access to pick
// which Runner(s) to start, so these stay exported.
type App struct {
	Log    *logger.Logger
	Cfg    config.Config
	Server *httpapi.Server

	Temporal temporalsdkclient.Client

	OrchestratorRunner *orchestrator.Runner
	OrchestratorSvc    *orchestrator.Service
	VideoRunner        *video.Runner
	VideoSvc           *video.Service
	EnrichRunner       *enrich.Runner
	IndexRunner        *index.Runner
	QueryRunner        *query.Runner
	QuerySvc           *query.Service
	VectorRunner       *vector.Runner

	cancel context.CancelFunc
}

// New builds the full dependency graph. Binaries that only need a subset
// (e.g. a single Temporal worker container) still pay the cost of building
// the rest; splitting wiring per binary isn't worth the duplication.
func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("loading configuration")
	cfg := config.Load(log)

	temporalClient, err := temporalx.NewClient(cfg.Temporal.HostPort, cfg.Temporal.Namespace, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init temporal client: %w", err)
	}

	s3Store, err := objectstore.NewS3Store(cfg.S3, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init s3 store: %w", err)
	}

	var attachIDClient *objectstore.AttachIDClient
	if cfg.AttachID.BaseURL != "" {
		attachIDClient = objectstore.NewAttachIDClient(cfg.AttachID, log)
	}
	sharedGateway := objectstore.NewGateway(s3Store, attachIDClient, log)
	gatewayFactory := conversion.NewDefaultGatewayFactory(cfg.S3, sharedGateway, cfg.S3.DefaultBucket, attachIDClient, log)

	registry := plugins.NewRegistry()
	if err := builtin.RegisterAll(registry); err != nil {
		log.Sync()
		return nil, fmt.Errorf("register builtin plugins: %w", err)
	}
	converterSvc := plugins.NewService(registry, log)
	conversionWorker := conversion.NewWorker(cfg.Conversion, registry, converterSvc, gatewayFactory, conversion.NewMetrics(), log)

	visionClient, visionErr := gcp.NewVision(log)
	if visionErr != nil {
		log.Warn("gcp vision unavailable, OCR fallback disabled", "error", visionErr)
		visionClient = nil
	}
	var ocrFallback probe.OCRFallback
	if visionClient != nil {
		if of, ok := visionClient.(probe.OCRFallback); ok {
			ocrFallback = of
		}
	}

	orchestratorActivities := &orchestrator.Activities{
		Worker:         conversionWorker,
		GatewayFactory: gatewayFactory,
		SampleConfig:   cfg.Sample,
		StrategyConfig: cfg.Strategy,
		OCR:            ocrFallback,
		Log:            log,
	}
	orchestratorSvc := orchestrator.NewService(cfg.Orchestrator, temporalClient, log)
	orchestratorRunner := orchestrator.NewRunner(temporalClient, orchestratorActivities, 8, log)

	speechClient, speechErr := gcp.NewSpeech(log)
	if speechErr != nil {
		log.Warn("gcp speech unavailable, ASR disabled", "error", speechErr)
		speechClient = nil
	}
	var sceneClient gcp.Video
	if cfg.Video.SceneCutEnabled {
		sceneClient, err = gcp.NewVideo(log)
		if err != nil {
			log.Warn("gcp video intelligence unavailable, falling back to fixed-window segmentation", "error", err)
			sceneClient = nil
		}
	}

	llmClient, err := llm.NewClient(llm.ConfigFromEnv(), log)
	if err != nil {
		log.Warn("llm client unavailable, captioning/enrichment degraded", "error", err)
	}
	var captioner video.Captioner
	if llmClient != nil {
		captioner = llm.NewCaptioner(llmClient)
	}

	videoActivities := &video.Activities{
		GatewayFactory: gatewayFactory,
		Tools:          video.NewTools(),
		Shots:          sceneClient,
		Transcriber:    speechClient,
		Captioner:      captioner,
		OCR:            visionClient,
		Config:         cfg.Video,
		Log:            log,
	}
	videoSvc := video.NewService(temporalClient, log)
	videoRunner := video.NewRunner(temporalClient, videoActivities, 4, log)

	enrichActivities := &enrich.Activities{
		GatewayFactory: gatewayFactory,
		Client:         llmClient,
		Config:         cfg.Enrich,
		Log:            log,
	}
	enrichRunner := enrich.NewRunner(temporalClient, enrichActivities, 4, log)

	searchClient, err := search.NewClient(cfg.Search)
	if err != nil {
		log.Warn("elasticsearch client unavailable, search/index queues degraded", "error", err)
	}
	indexActivities := &index.Activities{Client: searchClient, Config: cfg.Search, Log: log}
	indexRunner := index.NewRunner(temporalClient, indexActivities, 4, log)

	queryActivities := &query.Activities{Client: searchClient, Config: cfg.Search, Log: log}
	querySvc := query.NewService(temporalClient, log)
	queryRunner := query.NewRunner(temporalClient, queryActivities, 8, log)

	vectorClient, err := vector.NewClient(cfg.Vector, log)
	if err != nil {
		log.Warn("vector client unavailable, embed/rerank queue degraded", "error", err)
	}
	vectorActivities := &vector.Activities{Client: vectorClient, Config: cfg.Vector, Log: log}
	vectorRunner := vector.NewRunner(temporalClient, vectorActivities, 8, log)

	redisStore, err := resultstore.NewStore(cfg.Redis)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init redis: %w", err)
	}

	if err := appkey.EnsureFile(cfg.HTTP.AppSecretsPath); err != nil {
		log.Warn("could not ensure app secrets file", "path", cfg.HTTP.AppSecretsPath, "error", err)
	}
	validator := appkey.NewValidator(cfg.HTTP.AppSecretsPath)

	server := httpapi.NewServer(httpapi.RouterConfig{
		HealthHandler:   handlers.NewHealthHandler(redisStore, s3Store, temporalClient),
		FormatsHandler:  handlers.NewFormatsHandler(registry),
		ConvertHandler:  handlers.NewConvertHandler(orchestratorSvc, cfg.HTTP.MaxBatchFiles, cfg.HTTP.MaxTotalSizeMB, cfg.HTTP.DefaultFileMaxMB),
		PipelineHandler: handlers.NewPipelineHandler(s3Store, cfg.S3.DefaultBucket, orchestratorSvc),
		VideoHandler:    handlers.NewVideoHandler(videoSvc),
		SearchHandler:   handlers.NewSearchHandler(querySvc),
		Metrics:         metrics.NewHTTP(),
		AppKeyValidator: validator,
		AuthHeaderAppid: cfg.HTTP.AuthHeaderAppid,
		AuthHeaderKey:   cfg.HTTP.AuthHeaderKey,
		AuthRequired:    cfg.HTTP.AuthRequired,
	})

	return &App{
		Log:                log,
		Cfg:                cfg,
		Server:             server,
		Temporal:           temporalClient,
		OrchestratorRunner: orchestratorRunner,
		OrchestratorSvc:    orchestratorSvc,
		VideoRunner:        videoRunner,
		VideoSvc:           videoSvc,
		EnrichRunner:       enrichRunner,
		IndexRunner:        indexRunner,
		QueryRunner:        queryRunner,
		QuerySvc:           querySvc,
		VectorRunner:       vectorRunner,
	}, nil
}

// Start launches the Temporal worker runners this process is configured to
// serve. Pass the subset of flags relevant to the calling binary; the rest
// default to false and that Runner is simply never started.
type StartFlags struct {
	Orchestrator, Pipeline, Probe bool
	Video, VideoASR, VideoVision  bool
	Enrich                        bool
	Index                         bool
	Query                         bool
	Vector                        bool
}

func (a *App) Start(ctx context.Context, flags StartFlags) error {
	runCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	if flags.Orchestrator || flags.Pipeline || flags.Probe {
		if err := a.OrchestratorRunner.Start(runCtx, flags.Orchestrator, flags.Pipeline, flags.Probe); err != nil {
			return fmt.Errorf("start orchestrator runner: %w", err)
		}
	}
	if flags.Video || flags.VideoASR || flags.VideoVision {
		if err := a.VideoRunner.Start(runCtx, flags.Video, flags.VideoASR, flags.VideoVision); err != nil {
			return fmt.Errorf("start video runner: %w", err)
		}
	}
	if flags.Enrich {
		if err := a.EnrichRunner.Start(runCtx); err != nil {
			return fmt.Errorf("start enrich runner: %w", err)
		}
	}
	if flags.Index {
		if err := a.IndexRunner.Start(runCtx); err != nil {
			return fmt.Errorf("start index runner: %w", err)
		}
	}
	if flags.Query {
		if err := a.QueryRunner.Start(runCtx); err != nil {
			return fmt.Errorf("start query runner: %w", err)
		}
	}
	if flags.Vector {
		if err := a.VectorRunner.Start(runCtx); err != nil {
			return fmt.Errorf("start vector runner: %w", err)
		}
	}
	return nil
}

func (a *App) Run(addr string) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Server.Run(addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.Temporal != nil {
		a.Temporal.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
