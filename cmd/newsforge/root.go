package main

import (
	"github.com/spf13/cobra"

	"newsforge/internal/api"
	"newsforge/internal/config"
)

// commandContext carries the lazily loaded config and daemon client shared by
// all subcommands.
type commandContext struct {
	configFlag *string
	bindFlag   *string

	cfg *config.Config
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, _, _, err := config.Load(*c.configFlag)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

func (c *commandContext) client() (*api.Client, error) {
	if *c.bindFlag != "" {
		return api.NewClient(*c.bindFlag), nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return api.NewClient(cfg.Paths.APIBind), nil
}

func newRootCommand() *cobra.Command {
	var configFlag string
	var bindFlag string

	ctx := &commandContext{configFlag: &configFlag, bindFlag: &bindFlag}

	rootCmd := &cobra.Command{
		Use:           "newsforge",
		Short:         "Submit and inspect content derivation jobs",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&bindFlag, "daemon", "", "Daemon address (overrides config)")

	rootCmd.AddCommand(newSubmitCommand(ctx))
	rootCmd.AddCommand(newStatusCommand(ctx))
	rootCmd.AddCommand(newJobsCommand(ctx))
	rootCmd.AddCommand(newArtifactsCommand(ctx))
	rootCmd.AddCommand(newHealthCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
