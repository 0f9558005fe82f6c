package main

import (
	"context"
	"flag"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
	fiberSwagger "github.com/swaggo/fiber-swagger"

	"videothingy/narrator/config"
	_ "videothingy/narrator/docs"
	"videothingy/narrator/handlers"
	"videothingy/narrator/internal/auth"
	"videothingy/narrator/internal/db"
	"videothingy/narrator/internal/healthcheck"
	"videothingy/narrator/internal/orchestrator"
	"videothingy/narrator/internal/poller"
	"videothingy/narrator/internal/speech"
	"videothingy/narrator/internal/storage"
	"videothingy/narrator/internal/studio"
	"videothingy/narrator/internal/video"
	"videothingy/narrator/internal/view"
	"videothingy/narrator/internal/voices"
	"videothingy/narrator/internal/worker"
	"videothingy/narrator/middleware"
)

const shutdownTimeout = 30 * time.Second

// @title Narrator Studio API
// @version 1.0
// @description Turns a script and a title into a narrated video using speech and video generation providers.
// @host localhost:8080
// @BasePath /api/v1
func main() {
	configPath := flag.String("config", os.Getenv("NARRATOR_CONFIG"), "path to the YAML config file")
	flag.Parse()

	if !config.LoadDotEnv() {
		config.Log.Info("No .env file loaded, relying on process environment")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		config.Log.WithError(err).Fatal("Failed to load configuration")
	}

	logger := config.InitLogger(cfg.Log)
	if err := cfg.CheckCredentials(); err != nil {
		logger.WithError(err).Fatal("Missing provider credentials")
	}

	// Persistence, identity and asset storage all live in Supabase.
	supaClient, err := config.NewSupabaseClient(cfg.Supabase, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize Supabase")
	}
	restClient, err := config.NewPostgrestClient(cfg.Supabase)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize PostgREST client")
	}

	store := db.NewVideoStore(restClient, cfg.Supabase.VideosTable, logger)
	identity := auth.NewSupabaseIdentity(supaClient.Auth)
	audioStore := storage.NewAudioStore(supaClient.Storage, cfg.Supabase.AudioBucket, logger)

	speechClient := speech.NewClient(cfg.Speech.BaseURL, cfg.Speech.APIKey, speech.Settings{
		ModelID:         cfg.Speech.ModelID,
		Stability:       cfg.Speech.Stability,
		SimilarityBoost: cfg.Speech.SimilarityBoost,
	}, cfg.Speech.Timeout)
	videoClient := video.NewClient(cfg.Video.BaseURL, cfg.Video.APIToken, video.Parameters{
		ModelVersion:   cfg.Video.ModelVersion,
		VideoLength:    cfg.Video.VideoLength,
		FPS:            cfg.Video.FPS,
		MotionBucketID: cfg.Video.MotionBucketID,
		CondAug:        cfg.Video.CondAug,
	}, cfg.Video.PollInterval, cfg.Video.MaxWait)

	catalog := voices.NewCatalog(cfg.Voices)
	orch := orchestrator.New(identity, store, speechClient, audioStore, videoClient, catalog, logger)
	sessions := studio.NewRegistry(catalog.Default)

	dispatcher := worker.NewDispatcher(cfg.Workers.Count, cfg.Workers.QueueSize, logger)
	dispatcher.Run()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go poller.NewSynchronizer(sessions, store, cfg.Polling.Interval, cfg.Session.IdleTTL, logger).Run(ctx)

	if *configPath != "" {
		watcher, err := config.NewWatcher(*configPath, logger, func(next *config.Config, err error) {
			if err != nil {
				return
			}
			catalog.Replace(next.Voices)
			if level, err := logrus.ParseLevel(next.Log.Level); err == nil {
				logger.SetLevel(level)
			}
			logger.WithField("voices", len(next.Voices)).Info("Applied reloaded configuration")
		})
		if err != nil {
			logger.WithError(err).Fatal("Failed to watch config file")
		}
		defer watcher.Close()
	}

	renderer, err := view.NewRenderer()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load studio templates")
	}

	h := handlers.NewApplicationHandler(handlers.Deps{
		Logger:      logger,
		Sessions:    sessions,
		Voices:      catalog,
		Identity:    identity,
		Videos:      store,
		Runner:      orch,
		Jobs:        dispatcher,
		Speech:      speechClient,
		PreviewText: cfg.Speech.PreviewText,
		Renderer:    renderer,
	})

	app := fiber.New(fiber.Config{
		AppName:      "narrator-studio",
		ErrorHandler: handlers.ErrorHandler(logger),
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.RequestLogger(logger))

	app.Get("/swagger/*", fiberSwagger.WrapHandler)
	handlers.RegisterRoutes(app, h, cfg.Session.IdleTTL)

	health := healthcheck.NewServer(logger)
	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		logger.WithError(err).Fatal("Failed to listen for gRPC health checks")
	}
	go func() {
		if err := health.Serve(lis); err != nil {
			logger.WithError(err).Error("gRPC health server stopped")
			stop()
		}
	}()

	go func() {
		logger.WithField("addr", cfg.Server.HTTPAddr).Info("Starting narrator studio")
		if err := app.Listen(cfg.Server.HTTPAddr); err != nil {
			logger.WithError(err).Error("HTTP server stopped")
			stop()
		}
	}()

	health.SetServing(true)
	<-ctx.Done()

	logger.Info("Shutting down narrator studio...")
	health.SetServing(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.WithError(err).Error("HTTP shutdown did not complete")
	}
	if err := dispatcher.Stop(shutdownCtx); err != nil {
		logger.WithError(err).Warn("Generations were cancelled at shutdown")
	}
	health.Stop(shutdownCtx)
	logger.Info("Narrator studio shut down gracefully.")
}
