package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"horde/admin"
	"horde/config"
	"horde/logger"
	"horde/network"
	"horde/room"
	"horde/version"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// .env first so LOG_LEVEL and LOG_FORMAT from it reach the logger.
	config.InitConfig()
	logger.Init()
	cfg := config.Load()

	addr := flag.String("addr", cfg.Addr, "listen address")
	tuningPath := flag.String("tuning", cfg.TuningPath, "path to a YAML tuning file")
	flag.Parse()

	logger.Log.Info("Starting horde server...")
	logger.Log.Info(version.String())

	tuning, err := config.LoadTuning(*tuningPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load tuning")
	}
	logger.Log.WithField("tuning", tuning).Debug("tuning loaded")

	manager := room.NewManager(room.Options{
		Capacity:       tuning.RoomCapacity,
		StartThreshold: tuning.StartThreshold,
		Room: room.Settings{
			TickInterval: tuning.TickInterval,
			Rules:        tuning.Rules(),
		},
	})

	srv := network.NewServer(manager)
	srv.Handle(admin.NewHandler(admin.NewService(manager)))
	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           srv,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Log.Infof("Horde server listening on %s (ws endpoint: /ws)", *addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Log.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := httpServer.Shutdown(shutdownCtx)
		manager.Close()
		return err
	})

	if err := g.Wait(); err != nil {
		logger.Log.WithError(err).Fatal("Server error")
	}
	logger.Log.Info("Server stopped")
}
