package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"aashub/internal/config"
)

var (
	configPath string
	envFile    string
)

var rootCmd = &cobra.Command{
	Use:   "aashub",
	Short: "aashub – AAS Hub web application",
	Long:  "aashub serves the AAS Hub pages and account API. Without a subcommand it starts the server.",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default action: serve
		return runServe(cmd)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ~/.aashub/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the config")
	addServeFlags(rootCmd)
}

// loadConfig loads the env file and the config, and returns the config
// file path in use.
func loadConfig() (config.Config, string, error) {
	if err := config.LoadEnvFile(envFile); err != nil {
		return config.Config{}, "", err
	}
	path := configPath
	if path == "" {
		p, err := config.Path()
		if err != nil {
			return config.Config{}, "", err
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, path, err
	}
	return cfg, path, nil
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
