package provenance

import (
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker(t *testing.T) {
	tr := NewTracker(true)
	tr.Track(Provenance{Field: "clubId", Source: "DEAPTA", Value: "DE APTA", Policy: "oldest_created", Step: 0})
	tr.Track(Provenance{Field: "clubId", Source: "DENUTRICIA", Value: "DE NUTRICIA", Policy: "oldest_created", Step: 1, Reason: "created earlier"})
	tr.Track(Provenance{Field: "brand", Source: "DEAPTA", Value: "Aptamil", Policy: "concat"})

	assert.Len(t, tr.FindByField("clubId"), 2)

	m := tr.Map()
	assert.Equal(t, []string{"brand", "clubId"}, m.Fields())
	current, ok := m.Current("clubId")
	require.True(t, ok)
	assert.Equal(t, "DE NUTRICIA", current.Value)
	assert.Equal(t, []string{"DEAPTA", "DENUTRICIA"}, m.Sources("clubId"))

	_, ok = m.Current("region")
	assert.False(t, ok)

	// Map returns a copy.
	m["clubId"][0].Value = "changed"
	assert.Equal(t, "DE APTA", tr.FindByField("clubId")[0].Value)

	tr.Clear()
	assert.Empty(t, tr.Map())
}

func TestDisabledTracker(t *testing.T) {
	tr := NewTracker(false)
	tr.Track(Provenance{Field: "clubId", Value: "DE APTA"})
	assert.Nil(t, tr.FindByField("clubId"))
	assert.Nil(t, tr.Map())
}

func TestReport(t *testing.T) {
	m := Map{
		"typeOfMember": {
			{Field: "typeOfMember", Source: "DEAPTA", Value: "Consumer", Policy: "club_precedence"},
			{Field: "typeOfMember", Source: "DENUTRICIA", Value: "Patient", Policy: "club_precedence", Reason: "DE NUTRICIA ranks first", Step: 1},
		},
	}
	report := m.String()
	assert.Contains(t, report, "typeOfMember: Patient (from DENUTRICIA, club_precedence)")
	assert.Contains(t, report, "Reason: DE NUTRICIA ranks first")
	assert.Contains(t, report, "step 1: Patient from DENUTRICIA")
}

func TestMarshal(t *testing.T) {
	m := Map{"brand": {{Field: "brand", Source: "DEAPTA", Value: "Aptamil", Policy: "concat"}}}
	data, err := Marshal("jane@example.com", "uid-1", m)
	require.NoError(t, err)

	var f File
	require.NoError(t, yaml.Unmarshal(data, &f))
	assert.Equal(t, "jane@example.com", f.Identity)
	assert.Equal(t, "uid-1", f.UID)
	require.Len(t, f.Provenance["brand"], 1)
	assert.Equal(t, "DEAPTA", f.Provenance["brand"][0].Source)
}
