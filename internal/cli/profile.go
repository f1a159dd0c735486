package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mrz1836/cliengo/internal/avatar"
	"github.com/mrz1836/cliengo/internal/errors"
	"github.com/mrz1836/cliengo/internal/profile"
	"github.com/mrz1836/cliengo/internal/tui"
)

// AddProfileCommand adds the profile command group.
func AddProfileCommand(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or change your name and avatar",
	}

	var showJSON bool
	show := &cobra.Command{
		Use:   "show",
		Short: "Show the signed-in profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProfile(cmd, showJSON, "profile show", func(*profile.Context) (profile.State, error) {
				return profile.State{}, nil
			})
		},
	}
	show.Flags().BoolVar(&showJSON, "json", false, "output as JSON")

	var nameJSON bool
	name := &cobra.Command{
		Use:     "name <name>",
		Short:   "Change your display name",
		Example: `  cliengo profile name "Ana Souza"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfile(cmd, nameJSON, "profile name", func(pc *profile.Context) (profile.State, error) {
				return pc.SetName(cmd.Context(), args[0])
			})
		},
	}
	name.Flags().BoolVar(&nameJSON, "json", false, "output as JSON")

	var avatarJSON bool
	avatarCmd := &cobra.Command{
		Use:   "avatar <file>",
		Short: "Upload a new avatar image",
		Long: `Upload a JPG, PNG or WEBP image as your avatar. Images over the
configured size limit (5MB by default) are rejected.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfile(cmd, avatarJSON, "profile avatar", func(pc *profile.Context) (profile.State, error) {
				u, err := readAvatar(args[0])
				if err != nil {
					return profile.State{}, err
				}
				return pc.UploadAvatar(cmd.Context(), u)
			})
		},
	}
	avatarCmd.Flags().BoolVar(&avatarJSON, "json", false, "output as JSON")

	cmd.AddCommand(show, name, avatarCmd)
	root.AddCommand(cmd)
}

func readAvatar(path string) (avatar.Upload, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is supplied by the user on purpose
	if err != nil {
		return avatar.Upload{}, errors.NewExitCode2Error(errors.Wrapf(err, "failed to read %s", path))
	}
	return avatar.Upload{Filename: filepath.Base(path), Data: data}, nil
}

// runProfile loads the profile, applies change, and prints the result.
// A change returning the zero State prints the loaded profile.
func runProfile(cmd *cobra.Command, jsonFlag bool, command string, change func(*profile.Context) (profile.State, error)) error {
	ctx := cmd.Context()
	format := getOutputFormat(cmd, jsonFlag)
	w := cmd.OutOrStdout()

	err := withApp(ctx, func(a *app) error {
		pc, err := a.profileContext(ctx)
		if err != nil {
			return err
		}
		state, err := change(pc)
		if err != nil {
			return err
		}
		if !state.SignedIn() {
			state = pc.Snapshot()
		}

		if format == OutputJSON {
			return outputResult(w, command, state)
		}
		out := tui.NewTTYOutput(w)
		if command != "profile show" {
			out.Success("Profile updated")
		}
		out.Heading(fmt.Sprintf("[%s] %s", state.Initials(), state.Name))
		out.Info("Email:  " + state.Email)
		if state.AvatarURL != "" {
			out.Info("Avatar: " + state.AvatarURL)
		}
		return nil
	})
	if err != nil {
		return outputError(w, format, command, err)
	}
	return nil
}
