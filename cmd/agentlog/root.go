package main

import (
	"github.com/spf13/cobra"
)

type rootConfig struct {
	configFile string
}

func newRootCmd() *cobra.Command {
	cfg := &rootConfig{}

	root := &cobra.Command{
		Use:   "agentlog",
		Short: "Structured JSON logging from the command line",
		Long: `agentlog reads text and writes one JSON log record per line.

Records carry the level, logger name, host name, process id and an
ISO-8601 timestamp, plus a run_id shared by every line of one run.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfg.configFile, "config", "", "YAML or TOML config file")

	root.AddCommand(newEmitCmd(cfg))
	root.AddCommand(newLevelsCmd())
	return root
}
