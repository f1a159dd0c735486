package cli

import (
	stderrors "errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mrz1836/cliengo/internal/errors"
	"github.com/mrz1836/cliengo/internal/tui"
)

// confirmFunc asks a yes/no question. Tests replace it.
//
//nolint:gochecknoglobals // replaced in tests
var confirmFunc = tui.Confirm

type clientRemoveOptions struct {
	force bool
	json  bool
}

func addClientRemoveCmd(parent *cobra.Command) {
	opts := &clientRemoveOptions{}
	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a client",
		Long: `Delete a client. You are asked to confirm unless --force is given.
Without a terminal --force is required.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClientRemove(cmd, opts, args[0])
		},
	}
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "delete without asking")
	cmd.Flags().BoolVar(&opts.json, "json", false, "output as JSON")
	parent.AddCommand(cmd)
}

func runClientRemove(cmd *cobra.Command, opts *clientRemoveOptions, ref string) error {
	ctx := cmd.Context()
	format := getOutputFormat(cmd, opts.json)
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

		if !opts.force {
			if format == OutputJSON || !terminalCheck() {
				return errors.NewExitCode2Error(
					errors.Wrap(errors.ErrNonInteractiveMode, "use --force to delete without a prompt"))
			}
			ok, err := confirmFunc(fmt.Sprintf("Delete %s (%s)?", r.Name, r.Task), false)
			if err != nil {
				return err
			}
			if !ok {
				return errors.ErrOperationCanceled
			}
		}

		if err := m.Delete(ctx, r.ID); err != nil {
			return err
		}
		zerolog.Ctx(ctx).Info().Str("client_id", r.ID).Msg("client deleted")

		if format == OutputJSON {
			return outputResult(w, "client rm", map[string]string{"id": r.ID})
		}
		tui.NewOutput(w, format).Success("Deleted " + r.Name)
		return nil
	})
	if err != nil {
		if stderrors.Is(err, errors.ErrOperationCanceled) || stderrors.Is(err, errors.ErrMenuCanceled) {
			tui.NewOutput(w, format).Info("Canceled")
			return nil
		}
		return outputError(w, format, "client rm", err)
	}
	return nil
}
