package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AbdulmuhsinB/EmotiSense/foundation/config"
	"github.com/AbdulmuhsinB/EmotiSense/foundation/external/deepface"
	"github.com/AbdulmuhsinB/EmotiSense/foundation/logger"
	"github.com/AbdulmuhsinB/EmotiSense/foundation/pubsub"
	"github.com/AbdulmuhsinB/EmotiSense/foundation/redis"
	"github.com/AbdulmuhsinB/EmotiSense/foundation/store"
	"github.com/ardanlabs/conf/v3"
)

var (
	version   string
	buildTime string
)

func main() {
	// =================================================================================================================
	// Configuration

	cfg := struct {
		conf.Version
		Web struct {
			Host            string        `conf:"default:0.0.0.0:5000"`
			ReadTimeout     time.Duration `conf:"default:30s"`
			WriteTimeout    time.Duration `conf:"default:5m"`
			IdleTimeout     time.Duration `conf:"default:120s"`
			ShutdownTimeout time.Duration `conf:"default:20s"`
			MaxUploadSize   int64         `conf:"default:104857600"`
		}
		Pipeline struct {
			WorkDirectory string        `conf:"default:/tmp/emotisense"`
			FrameStride   int           `conf:"default:5"`
			AllowedTypes  string        `conf:"default:.mp4"`
			SessionTTL    time.Duration `conf:"default:5m"`
		}
		Deepface struct {
			ApiEndpoint string `conf:"default:http://127.0.0.1:5005"`
		}
		Feedback struct {
			RulesPath string
		}
		Redis struct {
			Address  string
			Password string `conf:"noprint"`
			Channel  string `conf:"default:emotisense:analysis"`
		}
		Logger struct {
			LogDirectory string `conf:"default:/var/log/emotisense/,noprint"`
		}
	}{
		Version: conf.Version{
			Build: version,
			Desc:  buildTime,
		},
	}

	// Configuration Parsing
	_, err := conf.Parse("EMOTISENSE", &cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(1)
	}

	// =================================================================================================================
	// Version Checking Support

	displayVersion := flag.Bool("version", false, "Display version and exit")
	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		fmt.Printf("Build time:\t%s\n", buildTime)
		os.Exit(0)
	}

	// =================================================================================================================
	// Application Logger

	log, err := logger.New(cfg.Logger.LogDirectory, "emotisense")
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// =================================================================================================================
	// Feedback Rules

	rules, err := config.Load(cfg.Feedback.RulesPath)
	if err != nil {
		log.Errorw("startup", "ERROR", err)
		os.Exit(1)
	}

	// =================================================================================================================
	// Configuration Stringify

	out, err := conf.String(&cfg)
	if err != nil {
		log.Errorw("startup", "ERROR", err)
		os.Exit(1)
	}
	log.Infow("startup", "config", out)

	// =================================================================================================================
	// Work Directory

	if err := os.MkdirAll(cfg.Pipeline.WorkDirectory, 0o755); err != nil {
		log.Errorw("startup", "ERROR", err)
		os.Exit(1)
	}

	// =================================================================================================================
	// Redis

	var events *redis.Publisher
	if cfg.Redis.Address != "" {
		events, err = redis.New(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.Channel, log)
		if err != nil {
			log.Errorw("startup", "ERROR", err)
		}
	}

	// =================================================================================================================
	// Sessions

	sessions := store.New(cfg.Pipeline.SessionTTL)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case now := <-ticker.C:
				if n := sessions.Sweep(now); n > 0 {
					log.Infow("sessions", "swept", n)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	// =================================================================================================================
	// API Server

	h := newHandlers(handlersConfig{
		Logger:        log,
		Vision:        deepface.New(cfg.Deepface.ApiEndpoint),
		Broker:        pubsub.NewBroker(),
		Sessions:      sessions,
		Events:        events,
		Rules:         rules,
		WorkDirectory: cfg.Pipeline.WorkDirectory,
		FrameStride:   cfg.Pipeline.FrameStride,
		MaxUploadSize: cfg.Web.MaxUploadSize,
		AllowedTypes:  cfg.Pipeline.AllowedTypes,
	})

	server := http.Server{
		Addr:         cfg.Web.Host,
		Handler:      h.routes(),
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
	}

	serverErrors := make(chan error, 1)

	go func() {
		log.Infow("startup", "status", "api server started", "host", server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	// =================================================================================================================
	// Shutdown

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Errorw("shutdown", "ERROR", err)
			os.Exit(1)
		}

	case <-ctx.Done():
		log.Infow("shutdown", "status", "shutdown started")
		defer log.Infow("shutdown", "status", "shutdown complete")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			server.Close()
			log.Errorw("shutdown", "ERROR", err)
		}
	}
}
