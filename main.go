package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"apisagro-backend/internal/common"
	"apisagro-backend/internal/db"
	"apisagro-backend/internal/llm"
	"apisagro-backend/internal/logic"
)

func main() {
	cfg, err := common.LoadConfig(".env")
	if err != nil {
		common.Logger().WithError(err).Fatal("invalid configuration")
	}
	common.SetLogLevel(cfg.LogLevel)
	gin.SetMode(cfg.GinMode)
	cfg.Print()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	router, cleanup, err := newApp(ctx, cfg)
	if err != nil {
		common.Logger().WithError(err).Fatal("startup failed")
	}
	defer cleanup()

	srv := &http.Server{Addr: cfg.Addr(), Handler: router}
	go func() {
		common.WithFields("addr", cfg.Addr()).Info("ApisAgro backend listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			common.Logger().WithError(err).Fatal("server stopped")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		common.Logger().WithError(err).Error("graceful shutdown failed")
	}
}

// newApp builds the store and the reply client, then the router. The tables
// exist before the router is returned.
func newApp(ctx context.Context, cfg *common.Config) (*gin.Engine, func(), error) {
	store, closeStore, err := db.NewStore(cfg.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("init store: %w", err)
	}

	gen, err := llm.NewReplyClientFromConfig(ctx, cfg.LLM)
	if err != nil {
		_ = closeStore()
		return nil, nil, fmt.Errorf("init llm client: %w", err)
	}

	cleanup := func() {
		if err := closeStore(); err != nil {
			common.Logger().WithError(err).Warn("close store")
		}
	}
	return logic.SetupRouter(store, gen), cleanup, nil
}
