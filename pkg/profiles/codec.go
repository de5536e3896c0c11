package profiles

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/agentstation/clubmerge/pkg/errors"
	"github.com/agentstation/utc"
)

// Top-level record keys.
const (
	keyUID            = "UID"
	keyDomain         = "domain"
	keyProfile        = "profile"
	keyEmail          = "email"
	keyData           = "data"
	keyPreferences    = "preferences"
	keyIsRegistered   = "isRegistered"
	keyHasLiteAccount = "hasLiteAccount"
	keyLastUpdated    = "lastUpdated"
	keyCreated        = "created"
)

// Consent record keys.
const (
	keyIsConsentGranted    = "isConsentGranted"
	keyLastConsentModified = "lastConsentModified"
	keyActionTimestamp     = "actionTimestamp"
	keyDocDate             = "docDate"
	keyEntitlements        = "entitlements"
	keyCustomData          = "customData"
	keyTags                = "tags"
)

// UnmarshalJSON decodes a raw club record.
func (p *Profile) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*p = Profile{}
	var registered, lite bool
	for key, msg := range raw {
		var err error
		switch key {
		case keyUID:
			p.UID, err = decodeString(msg)
		case keyDomain:
			p.Domain, err = decodeString(msg)
		case keyProfile:
			err = p.decodeAccount(msg)
		case keyData:
			err = p.decodeData(msg)
		case keyPreferences:
			p.Preferences, err = decodePreferences(msg)
		case keyIsRegistered:
			registered, err = decodeBool(msg)
		case keyHasLiteAccount:
			lite, err = decodeBool(msg)
		case keyLastUpdated:
			p.LastUpdated, err = decodeTime(msg)
		case keyCreated:
			p.Created, err = decodeTime(msg)
		default:
			var v any
			if v, err = decodeAny(msg); err == nil {
				if p.Extra == nil {
					p.Extra = make(map[string]any)
				}
				p.Extra[key] = v
			}
		}
		if err != nil {
			return &errors.ValidationError{Field: key, Message: err.Error()}
		}
	}

	switch {
	case registered && !lite:
		p.Tier = TierFull
	case lite && !registered:
		p.Tier = TierLite
	}

	// Some extracts carry the creation date inside data only.
	if p.Created.IsZero() {
		if t, ok := p.Data.Time(AttrCreated); ok {
			p.Created = utc.New(t)
		}
	}
	return nil
}

func (p *Profile) decodeAccount(msg json.RawMessage) error {
	v, err := decodeAny(msg)
	if err != nil || v == nil {
		return err
	}
	account, ok := v.(map[string]any)
	if !ok {
		return fmt.Errorf("expected object, got %T", v)
	}
	if email, isString := account[keyEmail].(string); isString {
		p.Email = email
	}
	delete(account, keyEmail)
	if len(account) > 0 {
		p.Account = account
	}
	return nil
}

func (p *Profile) decodeData(msg json.RawMessage) error {
	v, err := decodeAny(msg)
	if err != nil || v == nil {
		return err
	}
	data, ok := v.(map[string]any)
	if !ok {
		return fmt.Errorf("expected object, got %T", v)
	}
	for name, list := range p.Lists() {
		value, present := data[name]
		if !present {
			continue
		}
		delete(data, name)
		if value == nil {
			continue
		}
		items, err := toItems(value)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		*list = items
	}
	p.Data = Attributes(data)
	return nil
}

func toItems(v any) ([]Item, error) {
	entries, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected array, got %T", v)
	}
	items := make([]Item, 0, len(entries))
	for i, e := range entries {
		m, isMap := e.(map[string]any)
		if !isMap {
			return nil, fmt.Errorf("entry %d: expected object, got %T", i, e)
		}
		items = append(items, Item(m))
	}
	return items, nil
}

func decodePreferences(msg json.RawMessage) (Preferences, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(msg, &raw); err != nil {
		return Preferences{}, err
	}
	var prefs Preferences
	for key, entry := range raw {
		if key == TermsKey {
			var terms map[string]json.RawMessage
			if err := json.Unmarshal(entry, &terms); err != nil {
				return Preferences{}, fmt.Errorf("terms: %w", err)
			}
			prefs.Terms = make(map[string]Consent, len(terms))
			for name, t := range terms {
				c, err := decodeConsent(t)
				if err != nil {
					return Preferences{}, fmt.Errorf("terms.%s: %w", name, err)
				}
				prefs.Terms[name] = c
			}
			continue
		}
		c, err := decodeConsent(entry)
		if err != nil {
			return Preferences{}, fmt.Errorf("%s: %w", key, err)
		}
		if prefs.Consents == nil {
			prefs.Consents = make(map[string]Consent)
		}
		prefs.Consents[key] = c
	}
	return prefs, nil
}

func decodeConsent(msg json.RawMessage) (Consent, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(msg, &raw); err != nil {
		return Consent{}, err
	}
	var c Consent
	for key, v := range raw {
		var err error
		switch key {
		case keyIsConsentGranted:
			c.IsConsentGranted, err = decodeBool(v)
		case keyLastConsentModified:
			c.LastConsentModified, err = decodeTimePtr(v)
		case keyActionTimestamp:
			c.ActionTimestamp, err = decodeTimePtr(v)
		case keyDocDate:
			c.DocDate, err = decodeTimePtr(v)
		case keyEntitlements:
			err = json.Unmarshal(v, &c.Entitlements)
		case keyCustomData:
			c.CustomData, err = decodeList(v)
		case keyTags:
			c.Tags, err = decodeList(v)
		default:
			var value any
			if value, err = decodeAny(v); err == nil {
				if c.Extra == nil {
					c.Extra = make(map[string]any)
				}
				c.Extra[key] = value
			}
		}
		if err != nil {
			return Consent{}, fmt.Errorf("%s: %w", key, err)
		}
	}
	return c, nil
}

// MarshalJSON encodes the profile in the club record layout.
func (p Profile) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.record())
}

func (p Profile) record() map[string]any {
	out := make(map[string]any, len(p.Extra)+9)
	for k, v := range p.Extra {
		out[k] = v
	}

	account := make(map[string]any, len(p.Account)+1)
	for k, v := range p.Account {
		account[k] = v
	}
	account[keyEmail] = p.Email

	data := make(map[string]any, len(p.Data)+5)
	for k, v := range p.Data {
		data[k] = v
	}
	for name, list := range p.Lists() {
		if *list != nil {
			data[name] = *list
		}
	}

	out[keyUID] = p.UID
	out[keyProfile] = account
	out[keyData] = data
	out[keyPreferences] = p.Preferences.record()
	out[keyIsRegistered] = p.Tier == TierFull
	out[keyHasLiteAccount] = p.Tier == TierLite
	if p.Domain != "" {
		out[keyDomain] = p.Domain
	}
	if !p.LastUpdated.IsZero() {
		out[keyLastUpdated] = FormatTime(p.LastUpdated)
	}
	if !p.Created.IsZero() {
		out[keyCreated] = FormatTime(p.Created)
	}
	return out
}

func (p Preferences) record() map[string]any {
	out := make(map[string]any, len(p.Consents)+1)
	for k, c := range p.Consents {
		out[k] = c.record()
	}
	if p.Terms != nil {
		terms := make(map[string]any, len(p.Terms))
		for k, c := range p.Terms {
			terms[k] = c.record()
		}
		out[TermsKey] = terms
	}
	return out
}

func (c Consent) record() map[string]any {
	out := make(map[string]any, len(c.Extra)+7)
	for k, v := range c.Extra {
		out[k] = v
	}
	out[keyIsConsentGranted] = c.IsConsentGranted
	if c.LastConsentModified != nil {
		out[keyLastConsentModified] = FormatTime(*c.LastConsentModified)
	}
	if c.ActionTimestamp != nil {
		out[keyActionTimestamp] = FormatTime(*c.ActionTimestamp)
	}
	if c.DocDate != nil {
		out[keyDocDate] = FormatTime(*c.DocDate)
	}
	if c.Entitlements != nil {
		out[keyEntitlements] = c.Entitlements
	}
	if c.CustomData != nil {
		out[keyCustomData] = c.CustomData
	}
	if c.Tags != nil {
		out[keyTags] = c.Tags
	}
	return out
}

// decodeAny decodes a JSON value keeping numbers as json.Number so that
// passthrough fields are written back unchanged.
func decodeAny(msg json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(msg))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func decodeList(msg json.RawMessage) ([]any, error) {
	v, err := decodeAny(msg)
	if err != nil || v == nil {
		return nil, err
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected array, got %T", v)
	}
	return list, nil
}

func decodeString(msg json.RawMessage) (string, error) {
	var s *string
	if err := json.Unmarshal(msg, &s); err != nil {
		return "", err
	}
	if s == nil {
		return "", nil
	}
	return *s, nil
}

func decodeBool(msg json.RawMessage) (bool, error) {
	var b *bool
	if err := json.Unmarshal(msg, &b); err != nil {
		return false, err
	}
	return b != nil && *b, nil
}

func decodeTime(msg json.RawMessage) (utc.Time, error) {
	s, err := decodeString(msg)
	if err != nil || s == "" {
		return utc.Time{}, err
	}
	return ParseTime(s)
}

func decodeTimePtr(msg json.RawMessage) (*utc.Time, error) {
	t, err := decodeTime(msg)
	if err != nil || t.IsZero() {
		return nil, err
	}
	return &t, nil
}
