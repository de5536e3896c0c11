package clubs

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/clubmerge/internal/cmd/application"
	"github.com/agentstation/clubmerge/pkg/clubs"
)

func TestClubsCommandYAMLRoundTrip(t *testing.T) {
	app := &application.Mock{OutputFormatFunc: func() string { return "yaml" }}

	var buf bytes.Buffer
	cmd := NewCommand(app)
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	parsed, err := clubs.Parse(buf.Bytes(), "stdout")
	require.NoError(t, err, "yaml output is a valid club table")
	assert.Equal(t, clubs.MustDefault().All(), parsed.All())
}

func TestClubsCommandTable(t *testing.T) {
	app := &application.Mock{}

	var buf bytes.Buffer
	cmd := NewCommand(app)
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "optinAptamil")
}
