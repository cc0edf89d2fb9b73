package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/emzola/athenaeum/clients"
	"github.com/emzola/athenaeum/config"
	"github.com/emzola/athenaeum/handler"
	"github.com/emzola/athenaeum/internal/jsonlog"
	"github.com/emzola/athenaeum/repository"
	"github.com/emzola/athenaeum/repository/postgres"
	"github.com/emzola/athenaeum/service"
	"github.com/emzola/athenaeum/storage"
	"github.com/jellydator/ttlcache/v3"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

// app defines the application's layers and shared resources.
type app struct {
	config  config.Config
	logger  *jsonlog.Logger
	service service.Service
	handler *handler.Handler
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			err = runServer(cmd.Context(), cfg, logger)
			if err != nil {
				logger.PrintError(err, nil)
			}
			return err
		},
	}
}

func runServer(ctx context.Context, cfg config.Config, logger *jsonlog.Logger) error {
	// Initialize database connection
	db, err := postgres.OpenDBConn(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.PrintInfo("database connection pool established", nil)

	// Image storage
	s3Client, err := clients.NewS3Client(ctx, cfg, clients.NewHTTPClient())
	if err != nil {
		return err
	}
	objects := storage.NewS3Objects(s3Client, cfg.S3.Bucket, cfg.S3.Region, cfg.S3.Endpoint)
	assets := storage.NewAssetStore(objects, cfg.S3.Folder)

	// Other shared resources: waitgroup and per-client rate limiters
	var wg sync.WaitGroup
	limiters := ttlcache.New(ttlcache.WithTTL[string, *rate.Limiter](3 * time.Minute))
	go limiters.Start()
	defer limiters.Stop()

	// Application layers
	repo := repository.New(db)
	svc := service.New(cfg, &wg, logger, repo, assets)
	a := &app{
		config:  cfg,
		logger:  logger,
		service: svc,
		handler: handler.New(cfg, logger, limiters, svc),
	}
	return a.serve(&wg)
}

func (a *app) serve(wg *sync.WaitGroup) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", a.config.Server.Port),
		Handler:      a.handler.Routes(),
		ErrorLog:     log.New(a.logger, "", 0),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// Graceful shutdown
	shutdownError := make(chan error)
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit
		a.logger.PrintInfo("shutting down server", map[string]string{
			"signal": s.String(),
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := srv.Shutdown(ctx)
		if err != nil {
			shutdownError <- err
		}
		a.logger.PrintInfo("completing background tasks", map[string]string{
			"addr": srv.Addr,
		})
		wg.Wait()
		shutdownError <- nil
	}()

	// Start server and listen for incoming connections
	a.logger.PrintInfo("starting server", map[string]string{
		"addr": srv.Addr,
		"env":  a.config.Server.Env,
	})
	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	err = <-shutdownError
	if err != nil {
		return err
	}
	a.logger.PrintInfo("stopped server", map[string]string{
		"addr": srv.Addr,
	})
	return nil
}
