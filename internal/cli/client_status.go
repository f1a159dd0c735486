package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mrz1836/cliengo/internal/client"
	"github.com/mrz1836/cliengo/internal/tui"
)

func addClientStatusCmd(parent *cobra.Command) {
	var jsonFlag bool
	cmd := &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Set a client's status",
		Long:  "Set a client's status. One of: " + statusChoices() + ".",
		Example: `  cliengo client status 3f2a in-progress
  cliengo client status 3f2a "Awaiting feedback"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuickChange(cmd, jsonFlag, "client status", args[0],
				func(ctx context.Context, m *client.Manager, id string) (client.Record, error) {
					s, err := client.ParseStatus(args[1])
					if err != nil {
						return client.Record{}, err
					}
					return m.SetStatus(ctx, id, s)
				},
				func(r client.Record) string {
					return r.Name + " is now " + tui.StatusBadge(r.Status)
				})
		},
	}
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "output as JSON")
	parent.AddCommand(cmd)
}

func addClientPriorityCmd(parent *cobra.Command) {
	var jsonFlag bool
	cmd := &cobra.Command{
		Use:     "priority <id> <priority>",
		Short:   "Set a client's priority",
		Long:    "Set a client's priority. One of: " + priorityChoices() + ".",
		Example: `  cliengo client priority 3f2a high`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuickChange(cmd, jsonFlag, "client priority", args[0],
				func(ctx context.Context, m *client.Manager, id string) (client.Record, error) {
					p, err := client.ParsePriority(args[1])
					if err != nil {
						return client.Record{}, err
					}
					return m.SetPriority(ctx, id, p)
				},
				func(r client.Record) string {
					return r.Name + " is now " + tui.PriorityBadge(r.Priority) + " priority"
				})
		},
	}
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "output as JSON")
	parent.AddCommand(cmd)
}

// runQuickChange resolves ref, applies change, and reports the result.
// The local list only changes after the store confirms.
func runQuickChange(
	cmd *cobra.Command,
	jsonFlag bool,
	command, ref string,
	change func(context.Context, *client.Manager, string) (client.Record, error),
	describe func(client.Record) string,
) error {
	ctx := cmd.Context()
	format := getOutputFormat(cmd, jsonFlag)
	w := cmd.OutOrStdout()

	err := withApp(ctx, func(a *app) error {
		m, err := a.manager(ctx)
		if err != nil {
			return err
		}
		r, err := resolveRecord(m, ref)
		if err != nil {
			return err
		}
		updated, err := change(ctx, m, r.ID)
		if err != nil {
			return err
		}
		if format == OutputJSON {
			return outputResult(w, command, updated)
		}
		tui.NewOutput(w, format).Success(describe(updated))
		return nil
	})
	if err != nil {
		return outputError(w, format, command, err)
	}
	return nil
}
