package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/parisxmas/examapi/internal/config"
	"github.com/parisxmas/examapi/internal/db"
	"github.com/parisxmas/examapi/internal/handler"
	"github.com/parisxmas/examapi/internal/repository"
	"github.com/parisxmas/examapi/internal/router"
	"github.com/parisxmas/examapi/internal/service"
)

func dbOptions(cfg *config.Config) db.Options {
	return db.Options{
		URI:            cfg.MongoURI,
		Database:       cfg.MongoDatabase,
		PoolSize:       cfg.PoolSize,
		ConnectTimeout: cfg.ConnectTimeout,
		PingInterval:   cfg.PingInterval,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, done, err := setup()
	if err != nil {
		return err
	}
	defer done()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handle, err := db.Connect(ctx, dbOptions(cfg), log)
	if err != nil {
		log.Error("failed to connect to MongoDB", zap.Error(err))
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := handle.Close(closeCtx); err != nil {
			log.Warn("database close failed", zap.Error(err))
		}
	}()
	log.Info("connected to MongoDB",
		zap.String("database", cfg.MongoDatabase),
		zap.Int("pool_size", cfg.PoolSize))

	// Repositories
	examRepo := repository.NewExamRepo(handle.Database())
	userRepo := repository.NewUserRepo(handle.Database())

	// Services
	examSvc := service.NewExamService(examRepo, cfg.RequestTimeout)
	userSvc := service.NewUserService(userRepo, cfg.RequestTimeout)

	// Handlers
	examH := handler.NewRecordHandler(examSvc, log, cfg.BodyLimit)
	userH := handler.NewRecordHandler(userSvc, log, cfg.BodyLimit)
	healthH := handler.NewHealthHandler(handle)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(log, examH, userH, healthH),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Index creation must not hold up serving.
	go func() {
		idxCtx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()
		if err := userRepo.EnsureUniqueIndex(idxCtx, "email"); err != nil {
			log.Warn("user email index creation failed", zap.Error(err))
			return
		}
		log.Info("user email index ready")
	}()

	errCh := make(chan error, 1)
	go func() {
		log.Info("examapi server starting", zap.String("addr", cfg.HTTPAddr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
		return err
	}
	return nil
}
