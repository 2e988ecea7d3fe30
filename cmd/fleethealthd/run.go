package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/chatfleet/fleethealth/client"
	"github.com/chatfleet/fleethealth/config"
	"github.com/chatfleet/fleethealth/httpapi"
	"github.com/chatfleet/fleethealth/observe"
	"github.com/chatfleet/fleethealth/session"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the monitoring daemon and its HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return runDaemon(cmd.Context(), cfg)
		},
	}
}

func runDaemon(ctx context.Context, cfg *config.Config) error {
	logger := newLogger(cfg.Log)

	obs, err := observe.Init(ctx, observe.Config{
		ServiceName: "fleethealthd",
		Version:     version,
		Tracing: observe.TracingConfig{
			Enabled:     cfg.Telemetry.TracingExporter != "none",
			Exporter:    cfg.Telemetry.TracingExporter,
			SampleRatio: cfg.Telemetry.SampleRatio,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  cfg.Telemetry.MetricsExporter != "none",
			Exporter: cfg.Telemetry.MetricsExporter,
		},
	})
	if err != nil {
		return err
	}

	extraServices, serviceEndpoints, err := loadExtraServices(cfg)
	if err != nil {
		return err
	}

	probe, err := client.NewHTTPClient(client.Config{
		BaseURL:             cfg.Backend.BaseURL,
		Token:               cfg.Backend.Token,
		Timeout:             cfg.Backend.Timeout,
		RetryAttempts:       cfg.Backend.RetryAttempts,
		MaxConcurrentProbes: cfg.Backend.MaxConcurrent,
		ServiceEndpoints:    serviceEndpoints,
		Logger:              logger,
	})
	if err != nil {
		return err
	}

	engine, err := session.NewEngine(session.EngineConfig{
		Client:        probe,
		Logger:        logger,
		Notifier:      logNotifier{logger},
		Observer:      obs,
		ExtraServices: extraServices,
	})
	if err != nil {
		return err
	}
	if len(extraServices) > 0 {
		logger.Info("probing extra services", observe.Fields{"count": len(extraServices)})
	}

	srv := httpapi.NewServer(httpapi.Config{
		Addr:   cfg.ListenAddr,
		APIKey: cfg.APIKey,
		Logger: logger,
	}, engine)

	if cfg.Poll.Enabled {
		if err := engine.StartPolling(cfg.Poll.Interval); err != nil {
			return err
		}
		logger.Info("polling enabled", observe.Fields{"interval": cfg.Poll.Interval.String()})
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		logger.Info("shutting down", observe.Fields{"signal": sig.String()})
	case err := <-errCh:
		logger.Error("http server failed", observe.Fields{"error": err.Error()})
		engine.Close()
		_ = obs.Shutdown(context.Background())
		return err
	}

	engine.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown incomplete", observe.Fields{"error": err.Error()})
	}
	return obs.Shutdown(shutdownCtx)
}

// logNotifier forwards check summaries to the log at a level matching
// the notification tier.
type logNotifier struct {
	logger observe.Logger
}

func (n logNotifier) Notify(message string, tier session.NotifyTier) {
	fields := observe.Fields{"tier": tier.String()}
	switch tier {
	case session.NotifyError:
		n.logger.Error(message, fields)
	case session.NotifyWarning:
		n.logger.Warn(message, fields)
	default:
		n.logger.Info(message, fields)
	}
}
