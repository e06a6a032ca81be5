package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/aiplanner/backend/api/handler"
	"github.com/aiplanner/backend/internal/config"
	"github.com/aiplanner/backend/internal/infrastructure/aigateway"
	"github.com/aiplanner/backend/internal/infrastructure/monitor"
	"github.com/aiplanner/backend/internal/infrastructure/slotstore"
	"github.com/aiplanner/backend/internal/router"
	"github.com/aiplanner/backend/internal/services"
	"github.com/aiplanner/backend/internal/services/lifecycle"
	"github.com/aiplanner/backend/pkg/httpcontext"
	"github.com/aiplanner/backend/pkg/logger"
	"github.com/aiplanner/backend/usecase/assistant"
	"github.com/aiplanner/backend/usecase/planner"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	slots, err := slotstore.Open(cfg.Store.Path)
	if err != nil {
		zapLogger.Fatal("failed to open slot store", zap.Error(err))
	}
	manager.Register("slot_store", func(ctx context.Context) error {
		return slots.Close()
	})

	state := planner.NewStore(slots, zapLogger)
	state.Hydrate()

	gateway := aigateway.New(aigateway.Config{
		BaseURL:   cfg.AI.BaseURL,
		Model:     cfg.AI.Model,
		MaxTokens: cfg.AI.MaxTokens,
	}, state, zapLogger)

	mon := monitor.New(slots, gateway, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	if cfg.Checkpoint.Enabled {
		checkpoint := services.NewCheckpoint(state, zapLogger, services.CheckpointConfig{
			Interval: cfg.Checkpoint.Interval,
		})
		checkpoint.Start()
		manager.Register("checkpoint", func(ctx context.Context) error {
			checkpoint.Stop(ctx)
			return nil
		})
	}

	assistantUC := assistant.New(state, gateway, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Task:      apiHandler.NewTaskHandler(state, assistantUC, ctxAdapter, zapLogger),
		Goal:      apiHandler.NewGoalHandler(state, ctxAdapter, zapLogger),
		Assistant: apiHandler.NewAssistantHandler(state, assistantUC, ctxAdapter, zapLogger),
		Settings:  apiHandler.NewSettingsHandler(state, ctxAdapter, zapLogger),
		State:     apiHandler.NewStateHandler(state, gateway, ctxAdapter, zapLogger),
		Health:    apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	r := router.New(handlers)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
