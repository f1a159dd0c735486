package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mrz1836/cliengo/internal/profile"
	"github.com/mrz1836/cliengo/internal/session"
	"github.com/mrz1836/cliengo/internal/tui"
)

type loginOptions struct {
	email string
	id    string
	json  bool
}

// AddLoginCommand adds the login command.
func AddLoginCommand(root *cobra.Command) {
	opts := &loginOptions{}
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in on this machine",
		Long: `Sign in with an email address. Every client you add is owned by the
signed-in user. The owner id is derived from the email unless --id is given.`,
		Example: `  cliengo login --email ana@example.com`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLogin(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.email, "email", "", "email address to sign in with")
	cmd.Flags().StringVar(&opts.id, "id", "", "explicit owner id (uuid)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "output as JSON")
	_ = cmd.MarkFlagRequired("email")
	root.AddCommand(cmd)
}

func runLogin(cmd *cobra.Command, opts *loginOptions) error {
	ctx := cmd.Context()
	format := getOutputFormat(cmd, opts.json)
	w := cmd.OutOrStdout()

	err := withApp(ctx, func(a *app) error {
		p, err := session.NewPrincipal(opts.email, opts.id, a.clock.Now())
		if err != nil {
			return err
		}
		if err := a.sessions.Save(p); err != nil {
			return err
		}

		state := profile.State{OwnerID: p.ID, Email: p.Email, Name: p.Email}
		if pc, err := a.profileContext(ctx); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("signed in without profile")
		} else {
			state = pc.Snapshot()
		}
		zerolog.Ctx(ctx).Info().Str("owner_id", p.ID).Str("email", p.Email).Msg("signed in")

		if format == OutputJSON {
			return outputResult(w, "login", state)
		}
		tui.NewOutput(w, format).Success(fmt.Sprintf("Signed in as %s (%s)", state.Name, p.Email))
		return nil
	})
	if err != nil {
		return outputError(w, format, "login", err)
	}
	return nil
}

// AddLogoutCommand adds the logout command.
func AddLogoutCommand(root *cobra.Command) {
	var jsonFlag bool
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Sign out on this machine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format := getOutputFormat(cmd, jsonFlag)
			w := cmd.OutOrStdout()
			err := withApp(cmd.Context(), func(a *app) error {
				if err := a.sessions.Clear(); err != nil {
					return err
				}
				if format == OutputJSON {
					return outputResult(w, "logout", nil)
				}
				tui.NewOutput(w, format).Success("Signed out")
				return nil
			})
			if err != nil {
				return outputError(w, format, "logout", err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "output as JSON")
	root.AddCommand(cmd)
}
