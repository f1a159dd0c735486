package cli

import (
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mrz1836/cliengo/internal/client"
	"github.com/mrz1836/cliengo/internal/errors"
	"github.com/mrz1836/cliengo/internal/tui"
)

// terminalCheck reports whether prompts can be shown. Tests replace it.
//
//nolint:gochecknoglobals // replaced in tests
var terminalCheck = tui.IsInteractive

// fieldFlags are the editable record fields shared by add and edit.
type fieldFlags struct {
	name        string
	task        string
	description string
	status      string
	priority    string
	start       string
	end         string
}

func (f *fieldFlags) register(cmd *cobra.Command, withName bool) {
	if withName {
		cmd.Flags().StringVar(&f.name, "name", "", "client name")
	}
	cmd.Flags().StringVarP(&f.task, "task", "t", "", "task or project for the client")
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "longer description (markdown)")
	cmd.Flags().StringVar(&f.status, "status", "", "status ("+statusChoices()+")")
	cmd.Flags().StringVarP(&f.priority, "priority", "p", "", "priority ("+priorityChoices()+")")
	cmd.Flags().StringVar(&f.start, "start", "", "start date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&f.end, "end", "", "end date (YYYY-MM-DD)")
}

// fields converts the flags into creation input. Defaults are left to the manager.
func (f *fieldFlags) fields() (client.Fields, error) {
	out := client.Fields{
		Name:        f.name,
		Task:        f.task,
		Description: f.description,
	}
	if f.status != "" {
		s, err := client.ParseStatus(f.status)
		if err != nil {
			return client.Fields{}, err
		}
		out.Status = s
	}
	if f.priority != "" {
		p, err := client.ParsePriority(f.priority)
		if err != nil {
			return client.Fields{}, err
		}
		out.Priority = p
	}
	if f.start != "" {
		t, err := parseDate("start_date", f.start)
		if err != nil {
			return client.Fields{}, err
		}
		out.StartDate = t
	}
	if f.end != "" {
		t, err := parseDate("end_date", f.end)
		if err != nil {
			return client.Fields{}, err
		}
		out.EndDate = &t
	}
	return out, nil
}

type clientAddOptions struct {
	fieldFlags
	json bool
}

func addClientAddCmd(parent *cobra.Command) {
	opts := &clientAddOptions{}
	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add a client",
		Long: `Add a client to your list.

Without arguments an interactive form is shown. Status defaults to
not-started, priority to normal and the start date to today.`,
		Example: `  cliengo client add "Acme Corp" --task "Landing page" --priority high
  cliengo client add`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClientAdd(cmd, opts, args)
		},
	}
	opts.register(cmd, true)
	cmd.Flags().BoolVar(&opts.json, "json", false, "output as JSON")
	parent.AddCommand(cmd)
}

func runClientAdd(cmd *cobra.Command, opts *clientAddOptions, args []string) error {
	ctx := cmd.Context()
	format := getOutputFormat(cmd, opts.json)
	w := cmd.OutOrStdout()

	if len(args) == 1 {
		opts.name = args[0]
	}

	err := withApp(ctx, func(a *app) error {
		m, err := a.manager(ctx)
		if err != nil {
			return err
		}

		if opts.name == "" && opts.task == "" && format != OutputJSON {
			if !terminalCheck() {
				return errors.NewValidationError("name", errors.ErrEmptyValue,
					"name is required (pass it as an argument or run in a terminal)")
			}
			if err := runClientForm(&opts.fieldFlags); err != nil {
				return err
			}
		}

		f, err := opts.fields()
		if err != nil {
			return err
		}
		created, err := m.Create(ctx, f)
		if err != nil {
			return err
		}
		zerolog.Ctx(ctx).Info().Str("client_id", created.ID).Msg("client added")

		if format == OutputJSON {
			return outputResult(w, "client add", created)
		}
		tui.NewOutput(w, format).Success("Added " + created.Name + " (" + shortID(created.ID) + ")")
		return nil
	})
	if err != nil {
		return outputError(w, format, "client add", err)
	}
	return nil
}

// runClientForm asks for the fields interactively.
func runClientForm(f *fieldFlags) error {
	if f.status == "" {
		f.status = string(client.StatusNotStarted)
	}
	if f.priority == "" {
		f.priority = string(client.PriorityNormal)
	}

	required := func(label string) func(string) error {
		return func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.NewValidationError(strings.ToLower(label), errors.ErrEmptyValue, label+" is required")
			}
			return nil
		}
	}
	optionalDate := func(field string) func(string) error {
		return func(s string) error {
			if strings.TrimSpace(s) == "" {
				return nil
			}
			_, err := parseDate(field, s)
			return err
		}
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(&f.name).Validate(required("Name")),
			huh.NewInput().Title("Task").Value(&f.task).Validate(required("Task")),
			huh.NewText().Title("Description").Description("Markdown is supported").Value(&f.description),
		),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Status").Options(statusOptions()...).Value(&f.status),
			huh.NewSelect[string]().Title("Priority").Options(priorityOptions()...).Value(&f.priority),
			huh.NewInput().Title("Start date").Placeholder("YYYY-MM-DD, empty for today").
				Value(&f.start).Validate(optionalDate("start_date")),
			huh.NewInput().Title("End date").Placeholder("YYYY-MM-DD, optional").
				Value(&f.end).Validate(optionalDate("end_date")),
		),
	)
	return tui.RunForm(form, nil)
}

func statusOptions() []huh.Option[string] {
	opts := make([]tui.Option, 0, len(client.ValidStatuses()))
	for _, s := range client.ValidStatuses() {
		opts = append(opts, tui.Option{Label: tui.StatusIcon(s) + " " + s.Label(), Value: string(s)})
	}
	return tui.BuildSelectOptions(opts)
}

func priorityOptions() []huh.Option[string] {
	opts := make([]tui.Option, 0, len(client.ValidPriorities()))
	for _, p := range client.ValidPriorities() {
		opts = append(opts, tui.Option{Label: tui.PriorityIcon(p) + " " + p.Label(), Value: string(p)})
	}
	return tui.BuildSelectOptions(opts)
}

// shortID returns the first block of a uuid for display.
func shortID(id string) string {
	if head, _, ok := strings.Cut(id, "-"); ok {
		return head
	}
	return id
}
