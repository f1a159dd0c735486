package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrz1836/cliengo/internal/tui"
)

func addClientViewCmd(parent *cobra.Command) {
	var jsonFlag bool
	cmd := &cobra.Command{
		Use:     "view <id>",
		Aliases: []string{"show"},
		Short:   "Show one client with its description",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			format := getOutputFormat(cmd, jsonFlag)
			w := cmd.OutOrStdout()

			err := withApp(ctx, func(a *app) error {
				m, err := a.manager(ctx)
				if err != nil {
					return err
				}
				r, err := resolveRecord(m, args[0])
				if err != nil {
					return err
				}
				if format == OutputJSON {
					return outputResult(w, "client view", r)
				}
				tui.CheckNoColor()
				tui.RenderClientDetail(w, r)
				return nil
			})
			if err != nil {
				return outputError(w, format, "client view", err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "output as JSON")
	parent.AddCommand(cmd)
}
