package cli

import (
	"github.com/barnwall/hbmon/internal/config"
	"github.com/spf13/cobra"
)

// configCmd prints the effective configuration
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration hbmon would run with, after merging defaults,
the config file, HBMON_* environment variables, and flags.

The output is valid YAML and can be saved as a starting config file:
  hbmon config > hbmon.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		out, err := config.Marshal(cfg)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if path != "" {
			cmd.PrintErrf("# loaded from %s\n", path)
		}
		_, err = w.Write(out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
