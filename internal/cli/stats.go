package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrz1836/cliengo/internal/tui"
)

// AddStatsCommand adds the stats command.
func AddStatsCommand(root *cobra.Command) {
	var jsonFlag bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show client counts",
		Long:  "Show how many clients you have and how many are in progress, awaiting feedback or completed.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			format := getOutputFormat(cmd, jsonFlag)
			w := cmd.OutOrStdout()

			err := withApp(ctx, func(a *app) error {
				m, err := a.manager(ctx)
				if err != nil {
					return err
				}
				stats := m.Stats()
				if format == OutputJSON {
					return outputResult(w, "stats", stats)
				}
				tui.NewOutput(w, format).Info(tui.StatsLine(stats))
				return nil
			})
			if err != nil {
				return outputError(w, format, "stats", err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "output as JSON")
	root.AddCommand(cmd)
}
