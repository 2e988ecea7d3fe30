package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/chatfleet/fleethealth/client"
	"github.com/chatfleet/fleethealth/config"
	"github.com/chatfleet/fleethealth/health"
	"github.com/chatfleet/fleethealth/session"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run a one-shot fleet check and print the result",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			logger := newLogger(cfg.Log)
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

			runner := session.NewSession(probe, health.NewStore(), logger)
			runner.AddExtraServices(extraServices...)
			snap, err := runner.RunFleet(cmd.Context())
			if err != nil {
				return err
			}

			printSnapshot(cmd, snap)
			if session.SummaryTier(snap.Counts) == session.NotifyError {
				return fmt.Errorf("no healthy entities")
			}
			return nil
		},
	}
}

func printSnapshot(cmd *cobra.Command, snap *health.FleetSnapshot) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, session.SummaryMessage(snap.Counts))
	fmt.Fprintf(out, "checked %d entities in %s\n", snap.Counts.Total, snap.CheckDuration.Round(time.Millisecond))

	ids := make([]string, 0, len(snap.Entities))
	for id := range snap.Entities {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		record := snap.Entities[id]
		tier := record.Tier().String()
		if record.Kind == health.KindService {
			tier = record.ServiceStatus().String()
		}
		fmt.Fprintf(out, "  %-24s %-9s %s\n", id, tier, record.Kind)
	}
}
