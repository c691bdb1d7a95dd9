package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/garyjia/lic-claimdesk/internal/application/service"
	"github.com/garyjia/lic-claimdesk/internal/config"
	"github.com/garyjia/lic-claimdesk/internal/container"
	"github.com/garyjia/lic-claimdesk/pkg/utils"
)

type rootOptions struct {
	configFile string
	json       bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "claimdesk",
		Short:         "LIC death-claim and special-case desk",
		Long:          "Track death claims through their workflow, special cases, claim follow-ups and premium calculations.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "configs/config.yaml", "Config file path")
	cmd.PersistentFlags().BoolVar(&opts.json, "json", false, "Print results as JSON")

	cmd.AddCommand(
		newClaimCmd(opts),
		newSpecialCmd(opts),
		newFollowUpCmd(opts),
		newPremiumCmd(opts),
		newExportCmd(opts),
		newStatsCmd(opts),
	)
	return cmd
}

// withApp loads configuration, starts the container for the duration of
// run and closes it afterwards
func withApp(opts *rootOptions, run func(cmd *cobra.Command, args []string, app *container.Container) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(opts.configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		logger, err := utils.NewLogger(utils.LoggerConfig{
			Level:      cfg.Logger.Level,
			OutputPath: cfg.Logger.OutputPath,
			Format:     cfg.Logger.Format,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer logger.Sync()
		logger = logger.With(zap.String("command", cmd.CommandPath()))

		app, err := container.NewContainer(cfg.ToContainerConfig(), logger)
		if err != nil {
			return err
		}
		if err := app.Start(cmd.Context()); err != nil {
			logger.Error("Failed to start", zap.Error(err))
			return err
		}
		defer func() {
			if err := app.Close(); err != nil {
				logger.Error("Failed to close", zap.Error(err))
			}
		}()

		if err := run(cmd, args, app); err != nil {
			if _, isUser := service.UserMessage(err); !isUser {
				logger.Error("Command failed", zap.Error(err))
			}
			return err
		}
		return nil
	}
}
