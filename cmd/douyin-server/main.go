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

	"github.com/rs/zerolog"

	douyin "github.com/RavensCloud/douyin-gofun"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	flag.Parse()

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	extractor := douyin.New().
		WithNavTimeout(cfg.Extractor.NavTimeout).
		WithInterceptTimeout(cfg.Extractor.InterceptTimeout).
		WithMaxEmptyPages(cfg.Extractor.MaxEmptyPages).
		WithMediaDelay(cfg.Extractor.MediaDelay).
		WithListDelay(cfg.Extractor.ListDelay)
	defer extractor.Close()

	if cfg.Extractor.Proxy != "" {
		if err := extractor.SetProxy(cfg.Extractor.Proxy); err != nil {
			logger.Fatal().Err(err).Msg("set proxy")
		}
	}

	srv := &server{resolver: extractor, log: logger}
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      newRouter(srv, cfg.Server.RequestTimeout),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
	logger.Info().Msg("server stopped")
}
