package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/cliengo/internal/client"
	"github.com/mrz1836/cliengo/internal/constants"
	"github.com/mrz1836/cliengo/internal/errors"
)

// AddClientCommand adds the client command group.
func AddClientCommand(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "client",
		Aliases: []string{"clients", "c"},
		Short:   "Manage your client list",
		Long: `Add, edit, filter and reorder the clients you work for.

Records are listed in your saved order. Clients you have never moved are
listed after the ordered ones, newest first.`,
	}

	addClientListCmd(cmd)
	addClientAddCmd(cmd)
	addClientEditCmd(cmd)
	addClientViewCmd(cmd)
	addClientRemoveCmd(cmd)
	addClientStatusCmd(cmd)
	addClientPriorityCmd(cmd)
	addClientMoveCmd(cmd)

	root.AddCommand(cmd)
}

// filterFlags are shared by list and move so both see the same view.
type filterFlags struct {
	search   string
	status   string
	priority string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.search, "search", "s", "", "match name or task (case-insensitive)")
	cmd.Flags().StringVar(&f.status, "status", client.All, "filter by status ("+statusChoices()+"|all)")
	cmd.Flags().StringVar(&f.priority, "priority", client.All, "filter by priority ("+priorityChoices()+"|all)")
}

func (f *filterFlags) filter() (client.Filter, error) {
	return client.NewFilter(f.search, f.status, f.priority)
}

func statusChoices() string {
	values := client.ValidStatuses()
	out := make([]string, len(values))
	for i, s := range values {
		out[i] = string(s)
	}
	return strings.Join(out, "|")
}

func priorityChoices() string {
	values := client.ValidPriorities()
	out := make([]string, len(values))
	for i, p := range values {
		out[i] = string(p)
	}
	return strings.Join(out, "|")
}

// parseDate parses a YYYY-MM-DD flag value.
func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(constants.DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, errors.NewValidationError(field, errors.ErrInvalidDate,
			fmt.Sprintf("%q is not a date, use YYYY-MM-DD", value))
	}
	return t, nil
}

// resolveRecord finds a record by id or by a unique id prefix.
func resolveRecord(m *client.Manager, ref string) (client.Record, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return client.Record{}, errors.NewValidationError("id", errors.ErrEmptyValue, "client id is required")
	}
	if r, ok := m.Get(ref); ok {
		return r, nil
	}

	var matches []client.Record
	for _, r := range m.Records() {
		if strings.HasPrefix(r.ID, ref) {
			matches = append(matches, r)
		}
	}
	switch len(matches) {
	case 0:
		return client.Record{}, errors.Wrapf(errors.ErrClientNotFound, "no client matches %q", ref)
	case 1:
		return matches[0], nil
	default:
		return client.Record{}, errors.NewValidationError("id", errors.ErrInvalidArgument,
			fmt.Sprintf("%q matches %d clients, use more characters", ref, len(matches)))
	}
}
