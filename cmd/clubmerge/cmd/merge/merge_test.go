package merge

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/clubmerge"
	"github.com/agentstation/clubmerge/internal/cmd/application"
	"github.com/agentstation/clubmerge/internal/cmd/table"
	"github.com/agentstation/clubmerge/pkg/constants"
	"github.com/agentstation/clubmerge/pkg/errors"
	"github.com/agentstation/clubmerge/pkg/provenance"
)

const records = `[
  {"UID": "a-1", "profile": {"email": "jane@example.com"}, "data": {"clubId": "DE APTA", "regSource": "Web"},
   "isRegistered": true, "hasLiteAccount": false, "lastUpdated": "2021-01-01T00:00:00Z"},
  {"UID": "b-1", "profile": {"email": "Jane@Example.com"}, "data": {"clubId": "DE MILUPA", "regSource": "App"},
   "isRegistered": false, "hasLiteAccount": true, "lastUpdated": "2021-02-01T00:00:00Z"}
]`

func setup(t *testing.T) (in, out string, app *application.Mock) {
	t.Helper()
	in, out = t.TempDir(), t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(in, "users.json"), []byte(records), 0o600))
	app = &application.Mock{
		OutputFormatFunc: func() string { return "json" },
		PipelineOptionsFunc: func(context.Context) ([]clubmerge.Option, error) {
			return []clubmerge.Option{clubmerge.WithOutputDir(out)}, nil
		},
	}
	return in, out, app
}

func TestMergeCommand(t *testing.T) {
	in, out, app := setup(t)

	var buf bytes.Buffer
	cmd := NewCommand(app)
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{in, "--explain", "JANE@example.com", "--fields", "reg*"})
	require.NoError(t, cmd.Execute())

	dec := json.NewDecoder(&buf)
	var summary table.Summary
	require.NoError(t, dec.Decode(&summary))
	assert.Equal(t, 2, summary.Records)
	assert.Equal(t, 1, summary.Merged)
	require.Len(t, summary.OutputFiles, 1)

	var explained provenance.Map
	require.NoError(t, dec.Decode(&explained))
	assert.Contains(t, explained, "regSource")
	assert.NotContains(t, explained, "clubId")

	assert.FileExists(t, filepath.Join(out, constants.TraceFileName))
}

func TestMergeCommandExplainUnknown(t *testing.T) {
	in, _, app := setup(t)

	cmd := NewCommand(app)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{in, "--explain", "nobody@example.com"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestMergeCommandFlagsOverrideConfig(t *testing.T) {
	in, _, app := setup(t)
	flagOut := t.TempDir()

	var buf bytes.Buffer
	cmd := NewCommand(app)
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"-i", in, "-d", flagOut, "--batch-size", "1"})
	require.NoError(t, cmd.Execute())

	assert.FileExists(t, filepath.Join(flagOut, constants.MergedFilePrefix+"1.json"))
}

func TestMergeCommandRequiresInput(t *testing.T) {
	_, _, app := setup(t)

	cmd := NewCommand(app)
	cmd.SetArgs([]string{})
	err := cmd.Execute()
	assert.True(t, errors.IsValidationError(err))
}
