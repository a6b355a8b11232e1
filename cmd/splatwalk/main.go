package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"go.uber.org/zap"

	"github.com/leterax/splatwalk/internal/config"
	"github.com/leterax/splatwalk/internal/logger"
	"github.com/leterax/splatwalk/pkg/asset"
	"github.com/leterax/splatwalk/pkg/collision"
	"github.com/leterax/splatwalk/pkg/movement"
	"github.com/leterax/splatwalk/pkg/render"
)

func init() {
	// This is needed to ensure that OpenGL functions are called from the same thread
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file (defaults are used when empty)")
	collisionPath := flag.String("collision", "", "Collision asset (.glb, .gltf or .obj), overrides assets.collision")
	showHitbox := flag.Bool("hitbox", false, "Draw the collision mesh as a wireframe")
	logLevel := flag.String("log-level", "", "Log level override (debug, info, warn, error)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}
	if *collisionPath != "" {
		cfg.Assets.Collision = *collisionPath
	}
	if *showHitbox {
		cfg.Assets.ShowHitbox = true
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	lg, err := logger.New(logger.Config{Level: cfg.Logging.Level, File: cfg.Logging.File})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync(lg)

	if cfg.Debug.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Debug.SentryDSN}); err != nil {
			lg.Warnw("sentry disabled", "error", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	if cfg.Debug.StatsviewAddr != "" {
		// set configurations before calling `statsview.New()` method
		viewer.SetConfiguration(viewer.WithAddr(cfg.Debug.StatsviewAddr))
		mgr := statsview.New()
		go mgr.Start()
		defer mgr.Stop()
		lg.Infow("statsview listening", "addr", cfg.Debug.StatsviewAddr)
	}

	if err := run(cfg, lg); err != nil {
		lg.Errorw("viewer stopped", "error", err)
		logger.Sync(lg)
		os.Exit(1)
	}
}

func run(cfg *config.Config, lg *zap.SugaredLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bindings, err := cfg.Keys.Bindings()
	if err != nil {
		return err
	}
	input := movement.NewInput(bindings)
	lg.Debugw("key bindings", "keys", input.Describe())

	cell := collision.NewCell()
	controller := movement.NewController(cell, cfg.MovementSettings(), input, lg.Named("movement"))

	loader := asset.NewLoader(lg.Named("asset"))
	if err := loader.Start(ctx, cfg.Assets.Collision, cell); err != nil {
		return err
	}

	renderer, err := render.NewRenderer(render.Options{
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		Title:  cfg.Window.Title,
		VSync:  cfg.Window.VSync,
		Camera: render.CameraOptions{
			FOV:         cfg.Camera.FOV,
			Near:        cfg.Camera.Near,
			Far:         cfg.Camera.Far,
			Sensitivity: cfg.Camera.Sensitivity,
		},
		StartPosition: cfg.StartPosition(),
		ShowHitbox:    cfg.Assets.ShowHitbox,
	}, controller, cell, lg.Named("render"))
	if err != nil {
		return err
	}

	lg.Infow("viewer started", "collision", cfg.Assets.Collision, "hint", "click to look around, Escape to release")
	renderer.Run(ctx)
	return nil
}
