package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/GregMSThompson/widget-dashboard/internal/bootstrap"
	"github.com/GregMSThompson/widget-dashboard/internal/config"
	"github.com/GregMSThompson/widget-dashboard/internal/handlers"
	"github.com/GregMSThompson/widget-dashboard/internal/response"
	"github.com/GregMSThompson/widget-dashboard/internal/router"
	"github.com/GregMSThompson/widget-dashboard/internal/services"
	"github.com/GregMSThompson/widget-dashboard/internal/state"
	"github.com/GregMSThompson/widget-dashboard/internal/store"
	"github.com/GregMSThompson/widget-dashboard/pkg/logger"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// bootstrap
	cfg, err := config.New()
	exitOnError("config failed", err, slog.Default())
	bs, err := bootstrap.Run(cfg, nil)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.ToContext(ctx, bs.Log)

	// state
	wstore := store.NewWidgetStore(bs.Slot, cfg.StorageKey)
	manager := state.NewManager(ctx, wstore)
	bs.Log.Info("widget state loaded", "key", wstore.Key(), "count", len(manager.All()))

	// services
	session := services.NewSession(ctx, manager, services.SessionOptions{
		SearchDebounce:    cfg.SearchDebounce,
		HighlightInterval: cfg.HighlightInterval,
	})
	defer session.Close()
	dserv := services.NewDashboardService(manager, session)

	// response handler
	rh := response.New(bs.Log)

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.SessionID = session.ID
	deps.ResponseHandler = rh
	deps.DashboardSvc = dserv

	// router
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		bs.Log.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		bs.Log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		session.Close()
		bs.Close()
		exitOnError("server failed", err, bs.Log)
	}
}
