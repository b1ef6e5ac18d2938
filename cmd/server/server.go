package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RootAnto/wayfinder/api"
	"github.com/RootAnto/wayfinder/config"
	"github.com/RootAnto/wayfinder/core/cart"
	"github.com/RootAnto/wayfinder/core/trip"
	"github.com/RootAnto/wayfinder/kvstore"
	"github.com/RootAnto/wayfinder/rate"
	"github.com/alexedwards/scs/v2"
	"github.com/ardanlabs/conf/v3"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	if err := Run(log); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func Run(logger *logrus.Logger) error {
	logger.Infof("starting server")
	defer logger.Info("shutdown complete")

	const prefix = "WAYFINDER"
	var cfg config.Config
	if _, err := conf.Parse(prefix, &cfg); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}

	lw := logger.Writer()
	defer lw.Close()
	errLog := log.New(lw, "", 0)

	kv, closeKV, err := openStore(cfg.Store)
	if err != nil {
		return fmt.Errorf("opening cart store backend: %w", err)
	}
	defer closeKV()

	sessionManager := scs.New()
	sessionManager.Lifetime = cfg.Session.Lifetime

	cartStore := cart.NewStore(kv, logger)
	trips := trip.NewClient(cfg.Trips.URL, cfg.Trips.Timeout)
	checkout := trip.NewOrchestrator(cartStore, trips, logger)

	var limiter *rate.Limiter
	if cfg.Rate.Enabled {
		limiter = rate.NewLimiter(cfg.Rate.Burst, cfg.Rate.ExpiryMinutes, cfg.Rate.RPS)
	}

	mux := api.APIMux(api.APIConfig{
		CorsOrigin: cfg.Cors.Origin,
		Log:        logger,
		Session:    sessionManager,
		Cart:       cartStore,
		Trips:      trips,
		Checkout:   checkout,
		Limiter:    limiter,
	})

	srv := http.Server{
		Handler:      mux,
		Addr:         cfg.Web.Address,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     errLog,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Infof("starting api router at %s", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Infof("shutting down: signal %s", sig)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			srv.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}
	return nil
}

// openStore builds the configured persistence backend. The returned close
// func is a no-op for the in-process store.
func openStore(cfg config.Store) (kvstore.Store, func() error, error) {
	switch cfg.Backend {
	case "memory":
		return kvstore.NewMemory(), func() error { return nil }, nil

	case "redis":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		r, err := kvstore.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return r, r.Close, nil

	case "postgres":
		p, err := kvstore.NewPostgres(cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return p, p.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
