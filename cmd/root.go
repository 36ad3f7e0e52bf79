// Package cmd implements the pullout command line interface.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/spedops/pullout/app"
	"github.com/spedops/pullout/config"
	"github.com/spedops/pullout/infra/logger"
)

var (
	cfgPath    string
	rosterPath string
)

var rootCmd = &cobra.Command{
	Use:   "pullout",
	Short: "Pull-out service scheduling engine",
	RunE:  run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file")
	rootCmd.PersistentFlags().StringVarP(&rosterPath, "roster", "r", "", "roster file to seed students, staff and requirements")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// newService builds the service from the config and roster flags.
func newService() (*app.Service, error) {
	cfg := config.Default()
	if cfgPath != "" {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	svc, err := app.New(cfg)
	if err != nil {
		return nil, err
	}
	if rosterPath != "" {
		if err := svc.LoadRoster(rosterPath); err != nil {
			closeService(svc)
			return nil, fmt.Errorf("load roster: %w", err)
		}
	}
	return svc, nil
}

func closeService(svc *app.Service) {
	if err := svc.Close(); err != nil {
		logger.New("main").Errorf("service close: %v", err)
	}
}

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := newService()
	if err != nil {
		return err
	}
	defer closeService(svc)
	return svc.Run(ctx)
}
