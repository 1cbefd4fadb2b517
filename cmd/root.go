package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/mccall/app"
	"github.com/kilianp07/mccall/config"
	"github.com/kilianp07/mccall/infra/logger"
)

var (
	cfgPath string
	output  string
)

var rootCmd = &cobra.Command{
	Use:           "mccall",
	Short:         "McCall job search solver",
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE:          runSolve,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "yaml", "output format (yaml|json)")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// withService loads the configuration, builds the service and hands it to f
// with a context cancelled on SIGINT or SIGTERM.
func withService(f func(ctx context.Context, svc *app.Service) error) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logger.SetLevel(cfg.Logging.Level); err != nil {
		return err
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	return f(ctx, svc)
}
