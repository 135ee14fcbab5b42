package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"lafelle.com/app/internal/catalogapi"
	"lafelle.com/app/internal/config"
	apphttp "lafelle.com/app/internal/http"
	"lafelle.com/app/internal/http/middleware"
	"lafelle.com/app/internal/http/sessioncookie"
	"lafelle.com/app/internal/logging"
	"lafelle.com/app/internal/modules/productform"
	"lafelle.com/app/internal/modules/sessions"
	"lafelle.com/app/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log)
	slog.SetDefault(logger)
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := sessions.FromConfig(cfg.Session)
	if err != nil {
		log.Fatalf("sessions: %v", err)
	}
	defer closeStore()

	client := catalogapi.New(cfg.Catalog.BaseURL, cfg.Catalog.Timeout)

	// inline delivery keeps the data URL in the product record
	var images storage.Storage
	var mediaDir, mediaPrefix string
	if cfg.Images.Delivery == "storage" {
		res, err := storage.FromConfig(ctx, cfg.Storage)
		if err != nil {
			log.Fatalf("storage: %v", err)
		}
		images = res.Storage
		if res.Driver == "local" {
			mediaDir, mediaPrefix = cfg.Storage.LocalDir, cfg.Storage.LocalURLPrefix
		}
		logger.Info("image storage ready", "driver", res.Driver)
	}

	sessCfg := middleware.SessionCfg{
		Store:  store,
		Cookie: sessioncookie.New([]byte(cfg.Session.Secret), cfg.Session.CookieName, cfg.Session.Secure, cfg.Session.TTL),
		TTL:    cfg.Session.TTL,
		Logger: logger,
	}

	r := apphttp.NewRouter(apphttp.Deps{
		Logger:      logger,
		Catalog:     client,
		Session:     sessCfg,
		Forms:       productform.NewService(client, images, logger),
		WhatsApp:    cfg.WhatsApp,
		MediaDir:    mediaDir,
		MediaPrefix: mediaPrefix,
	})

	go sweepSessions(ctx, store, logger)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http server listening", "addr", cfg.HTTPAddr, "catalog", cfg.Catalog.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "err", err)
	}
	logger.Info("bye")
}

// sweepSessions drops expired sessions every hour.
func sweepSessions(ctx context.Context, store sessions.Store, logger *slog.Logger) {
	t := time.NewTicker(time.Hour)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := store.DeleteExpired(ctx)
			if err != nil {
				logger.Warn("session sweep failed", "err", err)
				continue
			}
			if n > 0 {
				logger.Info("expired sessions removed", "count", n)
			}
		}
	}
}
