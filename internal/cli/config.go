package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"aashub/internal/config"
)

var configWizard bool

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().BoolVar(&configWizard, "wizard", false, "edit the main settings interactively")
	configCmd.AddCommand(configSchemaCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Initialize and show the config location",
	Long:  "Write the default config file when it does not exist yet, then print where it lives.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig()
		if err != nil {
			return err
		}
		if configWizard {
			return runConfigWizard(path, cfg)
		}
		if fileExists(path) {
			fmt.Println(mutedStyle.Render("• keeping existing config: ") + path)
			return nil
		}
		if err := config.Save(path, config.Default()); err != nil {
			return err
		}
		fmt.Println(okStyle.Render("✓ created config: ") + path)
		return nil
	},
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of config.yaml",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := config.MarshalSchema(config.Schema())
		if err != nil {
			return err
		}
		fmt.Println(string(b))
		return nil
	},
}
