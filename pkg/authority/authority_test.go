package authority

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFind(t *testing.T) {
	a := New()

	tests := []struct {
		field  string
		policy Policy
		value  string
	}{
		{"regSource", PolicyConcat, ""},
		{"cMarketingCode", PolicyConcat, ""},
		{"brand", PolicyConcat, ""},
		{"typeOfMember", PolicyClubPrecedence, ""},
		{"clubId", PolicyOldestCreated, ""},
		{"division", PolicyFixed, "SN"},
		{"region", PolicyFixed, "EMEA"},
		{"countryDivision", PolicyFixed, "DE"},
		{"lastSystemUpdatedProfile", PolicyWinner, ""},
		{"preferredLanguage", PolicyWinner, ""},
		{"newsletterFrequency", PolicyDeepMerge, ""},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			f := a.Find(tt.field)
			require.NotNil(t, f)
			assert.Equal(t, tt.policy, f.Policy)
			assert.Equal(t, tt.value, f.Value)
		})
	}
}

func TestWithFixedValue(t *testing.T) {
	a := New(WithFixedValue("region", "DACH"), WithFixedValue("segment", "retail"))

	assert.Equal(t, "DACH", a.Find("region").Value)
	assert.Equal(t, "SN", a.Find("division").Value)

	segment := a.Find("segment")
	require.NotNil(t, segment)
	assert.Equal(t, PolicyFixed, segment.Policy)
	assert.Equal(t, "retail", segment.Value)

	assert.Equal(t, "EMEA", New().Find("region").Value, "options do not leak between tables")
}

func TestTechnical(t *testing.T) {
	fields := Technical(New())
	assert.Len(t, fields, 10)
	for _, f := range fields {
		assert.NotEqual(t, PolicyDeepMerge, f.Policy)
	}
}

func TestMatchesPattern(t *testing.T) {
	tests := []struct {
		field   string
		pattern string
		want    bool
	}{
		{"clubId", "clubId", true},
		{"clubId", "club*", true},
		{"clubId", "*", true},
		{"clubId", "c?ubId", true},
		{"clubId", "brand", false},
		{"clubId", "[", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MatchesPattern(tt.field, tt.pattern), "%s ~ %s", tt.field, tt.pattern)
	}
}

func TestByFieldPrefersSpecificPattern(t *testing.T) {
	fields := []Field{
		{Path: "reg*", Policy: PolicyWinner, Priority: 10},
		{Path: "regSource", Policy: PolicyConcat, Priority: 10},
		{Path: "*", Policy: PolicyDeepMerge, Priority: 1},
	}
	assert.Equal(t, PolicyConcat, ByField("regSource", fields).Policy)
	assert.Equal(t, PolicyWinner, ByField("region", fields).Policy)
	assert.Equal(t, PolicyDeepMerge, ByField("brand", fields).Policy)
	assert.Nil(t, ByField("brand", nil))
}
