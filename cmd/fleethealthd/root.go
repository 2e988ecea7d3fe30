package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/chatfleet/fleethealth/config"
	"github.com/chatfleet/fleethealth/observe"
)

var (
	version = "dev"
	commit  = "none"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "fleethealthd",
		Short:         "Fleet health monitor for a multi-tenant chatbot backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(), newCheckCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "fleethealthd %s (%s)\n", version, commit)
		},
	}
}

// loadExtraServices reads the optional services file and splits it into
// the probe name list and the per-service endpoint overrides.
func loadExtraServices(cfg *config.Config) ([]string, map[string]string, error) {
	if cfg.ServicesFile == "" {
		return nil, nil, nil
	}
	services, err := config.LoadServices(cfg.ServicesFile)
	if err != nil {
		return nil, nil, err
	}

	names := make([]string, 0, len(services))
	endpoints := make(map[string]string)
	for _, svc := range services {
		names = append(names, svc.Name)
		if svc.Endpoint != "" {
			endpoints[svc.Name] = svc.Endpoint
		}
	}
	return names, endpoints, nil
}

// newLogger builds a logrus logger from the log config and wraps it in
// the structured-logging interface the rest of the code uses.
func newLogger(cfg config.LogConfig) observe.Logger {
	log := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return observe.NewLogrusLogger(log)
}
