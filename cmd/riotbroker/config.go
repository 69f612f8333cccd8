package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/canberks/riotbroker/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management commands",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate the configuration file without starting the broker.
Checks syntax and required fields, including that at least one listener
is enabled.`,
	RunE: runConfigValidate,
}

func init() {
	configCmd.AddCommand(configValidateCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigValidate(_ *cobra.Command, _ []string) error {
	configPath := cfgFile
	if configPath == "" {
		configPath = findConfigFileForValidate()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("config validation failed: %s\n", err)
		return err
	}

	if err := cfg.Validate(); err != nil {
		fmt.Printf("config validation failed: %s\n", err)
		return err
	}

	fmt.Printf("%s is valid\n", configPath)

	return nil
}

// findConfigFileForValidate searches for config file in default locations.
func findConfigFileForValidate() string {
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return defaultConfigFile
	}
	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		p := filepath.Join(home, ".config", "riotbroker", defaultConfigFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return defaultConfigFile
}
