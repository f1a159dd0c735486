package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrz1836/cliengo/internal/client"
	"github.com/mrz1836/cliengo/internal/errors"
	"github.com/mrz1836/cliengo/internal/tui"
)

type clientEditOptions struct {
	fieldFlags
	clearEnd bool
	json     bool
}

func addClientEditCmd(parent *cobra.Command) {
	opts := &clientEditOptions{}
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a client's fields",
		Long: `Change one or more fields of a client. Only the flags you pass are
changed. The client keeps its place in the list.`,
		Example: `  cliengo client edit 3f2a --task "Redesign" --end 2025-06-30
  cliengo client edit 3f2a --clear-end`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClientEdit(cmd, opts, args[0])
		},
	}
	opts.register(cmd, true)
	cmd.Flags().BoolVar(&opts.clearEnd, "clear-end", false, "remove the end date")
	cmd.Flags().BoolVar(&opts.json, "json", false, "output as JSON")
	cmd.MarkFlagsMutuallyExclusive("end", "clear-end")
	parent.AddCommand(cmd)
}

// buildPatch turns the flags that were set on cmd into a patch.
func buildPatch(cmd *cobra.Command, opts *clientEditOptions) (client.Patch, error) {
	var p client.Patch
	changed := cmd.Flags().Changed

	if changed("name") {
		p.Name = &opts.name
	}
	if changed("task") {
		p.Task = &opts.task
	}
	if changed("description") {
		p.Description = &opts.description
	}
	if changed("status") {
		s, err := client.ParseStatus(opts.status)
		if err != nil {
			return client.Patch{}, err
		}
		p.Status = &s
	}
	if changed("priority") {
		pr, err := client.ParsePriority(opts.priority)
		if err != nil {
			return client.Patch{}, err
		}
		p.Priority = &pr
	}
	if changed("start") {
		t, err := parseDate("start_date", opts.start)
		if err != nil {
			return client.Patch{}, err
		}
		p.StartDate = &t
	}
	if changed("end") {
		t, err := parseDate("end_date", opts.end)
		if err != nil {
			return client.Patch{}, err
		}
		p.EndDate = &t
	}
	p.ClearEndDate = opts.clearEnd

	if p.IsEmpty() {
		return client.Patch{}, errors.NewExitCode2Error(
			errors.Wrap(errors.ErrInvalidArgument, "nothing to change, pass at least one field flag"))
	}
	return p, nil
}

func runClientEdit(cmd *cobra.Command, opts *clientEditOptions, ref string) error {
	ctx := cmd.Context()
	format := getOutputFormat(cmd, opts.json)
	w := cmd.OutOrStdout()

	err := withApp(ctx, func(a *app) error {
		patch, err := buildPatch(cmd, opts)
		if err != nil {
			return err
		}
		m, err := a.manager(ctx)
		if err != nil {
			return err
		}
		r, err := resolveRecord(m, ref)
		if err != nil {
			return err
		}
		updated, err := m.Update(ctx, r.ID, patch)
		if err != nil {
			return err
		}

		if format == OutputJSON {
			return outputResult(w, "client edit", updated)
		}
		tui.NewOutput(w, format).Success("Updated " + updated.Name)
		return nil
	})
	if err != nil {
		return outputError(w, format, "client edit", err)
	}
	return nil
}
