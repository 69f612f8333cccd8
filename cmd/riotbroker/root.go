package main

import (
	"context"

	"github.com/charmbracelet/fang/v2"
	"github.com/spf13/cobra"
)

// defaultConfigFile is the config file name searched for in the current
// directory and in ~/.config/riotbroker when --config is not given.
const defaultConfigFile = "config.yaml"

// cfgFile holds the --config flag value, shared across subcommands the
// way cc-relay's cmd package shares it.
var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "riotbroker",
	Short: "riotp300 message broker",
	Long: `riotbroker is a connection-oriented message broker implementing the
riotp300 wire protocol: subscribe/publish event routing, server-side filter
expressions, and policy-gated trigger execution.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file")
}

// Execute runs the root command, styling help/usage/error output through
// fang the same way the rest of the corpus's cobra-based CLIs do.
func Execute() error {
	return fang.Execute(context.Background(), rootCmd)
}
