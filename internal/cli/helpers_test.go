package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mrz1836/cliengo/internal/client"
	"github.com/mrz1836/cliengo/internal/constants"
)

// setupHome points cliengo at a fresh home directory and working directory.
func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(constants.HomeEnvVar, home)
	t.Setenv("NO_COLOR", "1")
	t.Chdir(t.TempDir())
	t.Cleanup(CloseLogFile)
	return home
}

// runCLI executes the root command with args and returns what was written.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := newRootCmd(&GlobalFlags{}, BuildInfo{Version: "test"})
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

type envelope struct {
	Success bool            `json:"success"`
	Command string          `json:"command"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Action  string          `json:"action"`
}

func decodeEnvelope(t *testing.T, out string) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal([]byte(out), &env), out)
	return env
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCLI(t, args...)
	require.NoError(t, err, out)
	return out
}

func addClient(t *testing.T, name, task string, extra ...string) client.Record {
	t.Helper()
	args := append([]string{"client", "add", name, "--task", task, "--json"}, extra...)
	env := decodeEnvelope(t, mustRun(t, args...))
	require.True(t, env.Success)
	var r client.Record
	require.NoError(t, json.Unmarshal(env.Data, &r))
	return r
}

func listClients(t *testing.T, args ...string) []client.Record {
	t.Helper()
	env := decodeEnvelope(t, mustRun(t, append([]string{"client", "list", "--json"}, args...)...))
	var data struct {
		Clients []client.Record `json:"clients"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data.Clients
}

func names(records []client.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Name
	}
	return out
}
