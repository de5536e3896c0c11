package profiles

import (
	"time"

	"github.com/agentstation/utc"
)

// Consent is one consent record of a profile.
type Consent struct {
	IsConsentGranted    bool
	LastConsentModified *utc.Time
	ActionTimestamp     *utc.Time
	DocDate             *utc.Time
	Entitlements        []string
	CustomData          []any
	Tags                []any

	// Extra holds consent fields without a dedicated field.
	Extra map[string]any
}

// ModifiedAt returns lastConsentModified, ok is false when it is unset.
func (c Consent) ModifiedAt() (time.Time, bool) {
	if c.LastConsentModified == nil {
		return time.Time{}, false
	}
	return c.LastConsentModified.Time, true
}

// Clone returns a deep copy of the consent.
func (c Consent) Clone() Consent {
	out := c
	out.LastConsentModified = cloneTime(c.LastConsentModified)
	out.ActionTimestamp = cloneTime(c.ActionTimestamp)
	out.DocDate = cloneTime(c.DocDate)
	if c.Entitlements != nil {
		out.Entitlements = append(make([]string, 0, len(c.Entitlements)), c.Entitlements...)
	}
	if c.CustomData != nil {
		out.CustomData = cloneValue(c.CustomData).([]any)
	}
	if c.Tags != nil {
		out.Tags = cloneValue(c.Tags).([]any)
	}
	out.Extra = cloneMap(c.Extra)
	return out
}

func cloneTime(t *utc.Time) *utc.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// TermsKey is the preferences key of the terms group.
const TermsKey = "terms"

// Preferences holds the consent records of a profile. On the wire the terms
// group and the individual consents sit side by side in one object.
type Preferences struct {
	Terms    map[string]Consent
	Consents map[string]Consent
}

// Clone returns a deep copy of the preferences.
func (p Preferences) Clone() Preferences {
	return Preferences{
		Terms:    cloneConsents(p.Terms),
		Consents: cloneConsents(p.Consents),
	}
}

// Empty reports whether no consent is recorded.
func (p Preferences) Empty() bool {
	return p.Terms == nil && len(p.Consents) == 0
}

func cloneConsents(m map[string]Consent) map[string]Consent {
	if m == nil {
		return nil
	}
	out := make(map[string]Consent, len(m))
	for k, v := range m {
		out[k] = v.Clone()
	}
	return out
}
