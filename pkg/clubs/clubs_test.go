package clubs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/clubmerge/pkg/errors"
)

func TestDefaultRegistry(t *testing.T) {
	r, err := Default()
	require.NoError(t, err)
	assert.Equal(t, 9, r.Len())

	tests := []struct {
		clubID string
		want   string
	}{
		{"DE APTA", "optinAptamil"},
		{"DE MILUPA", "optinMilupa"},
		{"DE NUTRICIA", "optinNutricia"},
		{"DE LOPROFIN", "optinLoprofin"},
		{"DE ACTIVIA", "optinActivia"},
		{"DE VOLVIC", "optinVolvic"},
		{"DE YOPRO", "optinYoPro"},
		{"DE ACTIMEL", "optinActimel"},
		{"DE DANONINO", "optinDanonino"},
	}
	for _, tt := range tests {
		t.Run(tt.clubID, func(t *testing.T) {
			got, ok := r.ConsentKey(tt.clubID)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := r.ConsentKey("DE UNKNOWN")
	assert.False(t, ok)
}

func TestRankedOrder(t *testing.T) {
	ranked := MustDefault().Ranked()
	ids := make([]string, 0, len(ranked))
	for _, c := range ranked {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"DE NUTRICIA", "DE LOPROFIN", "DE APTA", "DE MILUPA"}, ids)
}

func TestLookupIsAliasTolerant(t *testing.T) {
	r := MustDefault()
	for _, id := range []string{"DE LOPROFIN", "DELOPROFIN", "de loprofin", " DE  LOPROFIN "} {
		c, ok := r.Lookup(id)
		require.True(t, ok, id)
		assert.Equal(t, "DE LOPROFIN", c.ID)
		assert.Equal(t, "Patient", c.TypeOfMember.Default)
	}

	apta, _ := r.Lookup("DEAPTA")
	assert.Equal(t, []string{"C"}, apta.TypeOfMember.Placeholders)
}

func TestNewRegistryValidation(t *testing.T) {
	tests := []struct {
		name  string
		clubs []Club
		msg   string
	}{
		{name: "missing id", clubs: []Club{{Name: "x"}}, msg: "club id is required"},
		{name: "duplicate id", clubs: []Club{{ID: "DE APTA"}, {ID: "DEAPTA"}}, msg: "duplicate club id"},
		{name: "negative precedence", clubs: []Club{{ID: "DE APTA", Precedence: -1}}, msg: "precedence"},
		{name: "shared consent key", clubs: []Club{{ID: "A", ConsentKey: "k"}, {ID: "B", ConsentKey: "k"}}, msg: "already used by A"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(tt.clubs)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
			assert.True(t, errors.IsValidationError(err))
		})
	}
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clubs.yaml")
	data, err := Marshal(MustDefault().All())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	r, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, MustDefault().All(), r.All())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	var ioErr *errors.IOError
	require.ErrorAs(t, err, &ioErr)

	_, err = Parse([]byte("- id: [unclosed"), "bad.yaml")
	var parseErr *errors.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "bad.yaml", parseErr.File)
}
