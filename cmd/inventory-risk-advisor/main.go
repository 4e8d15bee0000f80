// Package main boots the Inventory Risk Advisor HTTP server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fairyhunter13/inventory-risk-advisor/internal/config"
	httpapi "github.com/fairyhunter13/inventory-risk-advisor/internal/http"
	"github.com/fairyhunter13/inventory-risk-advisor/internal/inventory"
	"github.com/fairyhunter13/inventory-risk-advisor/internal/obs"
	"github.com/fairyhunter13/inventory-risk-advisor/internal/storage"
	"github.com/fairyhunter13/inventory-risk-advisor/internal/store"
)

func main() {
	if err := run(); err != nil {
		obs.Logger.Error("service_failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		obs.InitLogger("info", "json")
		return err
	}
	obs.InitLogger(cfg.LogLevel, cfg.LogFormat)
	obs.Logger.Info("service_starting", "storage_driver", cfg.StorageDriver, "storage_path", cfg.StoragePath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := storage.Open(ctx, cfg.StorageDriver, cfg.StoragePath)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			obs.Logger.Warn("storage_close_error", "error", err)
		}
	}()

	s := store.New(st, store.WithKey(cfg.StorageKey))
	if err := s.Load(ctx); err != nil {
		// in-memory state is authoritative from here on
		obs.Logger.Warn("storage_load_failed", "error", err)
	}
	inv := inventory.NewService(s)

	app := httpapi.NewApp(cfg, inv)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(app),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		obs.Logger.Info("http_listen", "addr", cfg.HTTPAddr, "items", inv.Len())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		obs.Logger.Info("shutdown_begin")
		ctxSrv, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctxSrv); err != nil {
			obs.Logger.Error("http_shutdown_error", "error", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}
	obs.Logger.Info("service_stopped", "items", inv.Len())
	return nil
}
