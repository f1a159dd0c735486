package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/mrz1836/cliengo/internal/client"
	"github.com/mrz1836/cliengo/internal/tui"
)

type clientListOptions struct {
	filterFlags
	json bool
}

func addClientListCmd(parent *cobra.Command) {
	opts := &clientListOptions{}
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List clients in display order",
		Example: `  cliengo client list
  cliengo client list --status in-progress
  cliengo client list --search acme --priority high`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runClientList(cmd, opts)
		},
	}
	opts.register(cmd)
	cmd.Flags().BoolVar(&opts.json, "json", false, "output as JSON")
	parent.AddCommand(cmd)
}

func runClientList(cmd *cobra.Command, opts *clientListOptions) error {
	ctx := cmd.Context()
	format := getOutputFormat(cmd, opts.json)
	w := cmd.OutOrStdout()

	err := withApp(ctx, func(a *app) error {
		f, err := opts.filter()
		if err != nil {
			return err
		}
		m, err := a.manager(ctx)
		if err != nil {
			return err
		}
		records := m.ApplyFilter(f)

		if format == OutputJSON {
			return outputResult(w, "client list", map[string]any{
				"clients": records,
				"stats":   m.Stats(),
			})
		}
		renderClientList(w, records, m.Stats(), f)
		return nil
	})
	if err != nil {
		return outputError(w, format, "client list", err)
	}
	return nil
}

func renderClientList(w io.Writer, records []client.Record, stats client.Stats, f client.Filter) {
	out := tui.NewTTYOutput(w)
	out.Heading(tui.StatsLine(stats))
	if len(records) == 0 {
		if f.IsZero() {
			out.Info("No clients yet. Add one with: cliengo client add")
		} else {
			out.Info("No clients match the current filter.")
		}
		return
	}
	out.Table(tui.ClientHeaders, tui.ClientRows(records, tui.HasColorSupport()))
}
