package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/cliengo/internal/config"
)

// AddConfigCommand adds the config command group.
func AddConfigCommand(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect cliengo configuration",
	}

	var jsonFlag bool
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the configuration after merging defaults, ~/.cliengo/config.yaml,
.cliengo/config.yaml and CLIENGO_* environment variables. Secrets are redacted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format := getOutputFormat(cmd, jsonFlag)
			w := cmd.OutOrStdout()

			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return outputError(w, format, "config show", err)
			}
			redacted := cfg.Redacted()

			if format == OutputJSON {
				return outputResult(w, "config show", redacted)
			}
			data, err := yaml.Marshal(&redacted)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			_, err = w.Write(data)
			return err
		},
	}
	show.Flags().BoolVar(&jsonFlag, "json", false, "output as JSON")

	cmd.AddCommand(show)
	root.AddCommand(cmd)
}
