package cli

import (
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mrz1836/cliengo/internal/errors"
	"github.com/mrz1836/cliengo/internal/tui"
)

type clientMoveOptions struct {
	filterFlags
	json bool
}

func addClientMoveCmd(parent *cobra.Command) {
	opts := &clientMoveOptions{}
	cmd := &cobra.Command{
		Use:   "move <from> <to>",
		Short: "Move a client to another place in the list",
		Long: `Move the client shown at row <from> to row <to>. Rows are the numbers
in the first column of 'cliengo client list'. Pass the same filter flags to
move within a filtered list; clients hidden by the filter keep their slots.

If the new order cannot be saved completely the previous order is restored.`,
		Example: `  cliengo client move 5 1
  cliengo client move 2 1 --status in-progress`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClientMove(cmd, opts, args)
		},
	}
	opts.register(cmd)
	cmd.Flags().BoolVar(&opts.json, "json", false, "output as JSON")
	parent.AddCommand(cmd)
}

// parseRow converts a one-based row argument to a zero-based index.
func parseRow(name, arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, errors.NewValidationError(name, errors.ErrIndexOutOfRange,
			fmt.Sprintf("%s must be a row number starting at 1, got %q", name, arg))
	}
	return n - 1, nil
}

func runClientMove(cmd *cobra.Command, opts *clientMoveOptions, args []string) error {
	ctx := cmd.Context()
	format := getOutputFormat(cmd, opts.json)
	w := cmd.OutOrStdout()

	err := withApp(ctx, func(a *app) error {
		from, err := parseRow("from", args[0])
		if err != nil {
			return err
		}
		to, err := parseRow("to", args[1])
		if err != nil {
			return err
		}
		f, err := opts.filter()
		if err != nil {
			return err
		}

		m, err := a.manager(ctx)
		if err != nil {
			return err
		}
		if err := m.SetFilter(f); err != nil {
			return err
		}
		if err := m.ApplyReorder(ctx, from, to); err != nil {
			return err
		}

		view := m.View()
		zerolog.Ctx(ctx).Info().Int("from", from+1).Int("to", to+1).Msg("client moved")

		if format == OutputJSON {
			return outputResult(w, "client move", map[string]any{"clients": view})
		}
		out := tui.NewTTYOutput(w)
		out.Success(fmt.Sprintf("Moved %s to row %d", view[to].Name, to+1))
		out.Table(tui.ClientHeaders, tui.ClientRows(view, tui.HasColorSupport()))
		return nil
	})
	if err != nil {
		return outputError(w, format, "client move", err)
	}
	return nil
}
