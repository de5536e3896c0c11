package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/clubmerge/pkg/clubs"
	"github.com/agentstation/clubmerge/pkg/profiles"
)

func TestValue(t *testing.T) {
	tests := []struct {
		name        string
		field       string
		value       string
		present     bool
		clubID      string
		want        string
		wantPresent bool
	}{
		{name: "HCCarer", field: "typeOfMember", value: "HCCarer", present: true, clubID: "DE APTA", want: "Carer", wantPresent: true},
		{name: "HCPatient", field: "typeOfMember", value: "HCPatient", present: true, clubID: "DE NUTRICIA", want: "Patient", wantPresent: true},
		{name: "absent nutricia", field: "typeOfMember", clubID: "DE NUTRICIA", want: "Patient", wantPresent: true},
		{name: "absent loprofin", field: "typeOfMember", clubID: "DE LOPROFIN", want: "Patient", wantPresent: true},
		{name: "absent apta", field: "typeOfMember", clubID: "DE APTA", want: "Consumer", wantPresent: true},
		{name: "C milupa", field: "typeOfMember", value: "C", present: true, clubID: "DE MILUPA", want: "Consumer", wantPresent: true},
		{name: "C nutricia untouched", field: "typeOfMember", value: "C", present: true, clubID: "DE NUTRICIA", want: "C", wantPresent: true},
		{name: "absent unranked club stays absent", field: "typeOfMember", clubID: "DE VOLVIC"},
		{name: "club alias", field: "typeOfMember", clubID: "DEAPTA", want: "Consumer", wantPresent: true},
		{name: "HCP kept", field: "typeOfMember", value: "HCP", present: true, clubID: "DE APTA", want: "HCP", wantPresent: true},
		{name: "OFFLINES", field: "regSource", value: "OFFLINES", present: true, want: "Offline", wantPresent: true},
		{name: "Offlines", field: "regSource", value: "Offlines", present: true, want: "Offline", wantPresent: true},
		{name: "OFFLINE", field: "cMarketingCode", value: "OFFLINE", present: true, want: "Offline", wantPresent: true},
		{name: "offline mixed case", field: "regSource", value: "oFFline", present: true, want: "Offline", wantPresent: true},
		{name: "mailchinp", field: "regSource", value: "Hebnews Mailchinp", present: true, want: "Hebnews Mailchimp", wantPresent: true},
		{name: "mailchinp no space", field: "regSource", value: "HebnewsMailchinp", present: true, want: "Hebnews Mailchimp", wantPresent: true},
		{name: "mailchimp upper", field: "cMarketingCode", value: "HEBNEWS  MAILCHIMP", present: true, want: "Hebnews Mailchimp", wantPresent: true},
		{name: "migrated dropped", field: "regSource", value: "Migrated", present: true},
		{name: "empty string kept", field: "regSource", value: "", present: true, want: "", wantPresent: true},
		{name: "absent regSource stays absent", field: "regSource"},
		{name: "other field untouched", field: "brand", value: "OFFLINE", present: true, want: "OFFLINE", wantPresent: true},
		{name: "plain value", field: "regSource", value: "Website", present: true, want: "Website", wantPresent: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Value(tt.field, tt.value, tt.present, tt.clubID)
			assert.Equal(t, tt.wantPresent, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAttributes(t *testing.T) {
	n := New(clubs.MustDefault())
	attrs := profiles.Attributes{
		"regSource":      "OFFLINES",
		"cMarketingCode": "Migrated",
		"brand":          "Aptamil",
	}

	n.Attributes(attrs, "DE APTA")

	assert.Equal(t, profiles.Attributes{
		"regSource":    "Offline",
		"typeOfMember": "Consumer",
		"brand":        "Aptamil",
	}, attrs)
}

func TestNilRegistry(t *testing.T) {
	n := New(nil)
	got, ok := n.Value("typeOfMember", "", false, "DE APTA")
	assert.False(t, ok)
	assert.Empty(t, got)
}
