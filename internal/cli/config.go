package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the resolved configuration",
	Long: `Config shows the configuration after merging flags, CITESCOPE_*
environment variables, the config file, and built-in defaults. API keys
are masked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		for name, pc := range cfg.Probe.Platforms {
			if pc.APIKey != "" {
				pc.APIKey = "****"
				cfg.Probe.Platforms[name] = pc
			}
		}
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Fprint(os.Stdout, string(out))
		return nil
	},
}
