// Package profiles defines the customer profile records exchanged by the club
// membership systems and the merged profiles produced from them.
//
// A Profile is decoded from one raw club record. The decoded form keeps every
// field of the record: fields with merge rules get typed accessors, everything
// else rides along in Account, Data and Extra so that a merged record carries
// all the data its sources had.
package profiles

import (
	"strings"

	"github.com/agentstation/utc"
)

// Tier is the account tier of a profile.
type Tier string

// Account tiers.
const (
	TierUnknown Tier = ""
	TierLite    Tier = "lite"
	TierFull    Tier = "full"
)

// String returns the tier name.
func (t Tier) String() string {
	if t == TierUnknown {
		return "unknown"
	}
	return string(t)
}

// Rank orders tiers for winner selection. Full outranks Lite.
func (t Tier) Rank() int {
	switch t {
	case TierFull:
		return 2
	case TierLite:
		return 1
	default:
		return 0
	}
}

// Well-known attribute keys inside the data object.
const (
	AttrClubID                   = "clubId"
	AttrRegSource                = "regSource"
	AttrCMarketingCode           = "cMarketingCode"
	AttrTypeOfMember             = "typeOfMember"
	AttrBrand                    = "brand"
	AttrDivision                 = "division"
	AttrRegion                   = "region"
	AttrCountryDivision          = "countryDivision"
	AttrLastSystemUpdatedProfile = "lastSystemUpdatedProfile"
	AttrPreferredLanguage        = "preferredLanguage"
	AttrCreated                  = "created"
)

// Wire keys of the list-valued data fields.
const (
	ListChildren       = "children"
	ListAddresses      = "addresses"
	ListOrders         = "orders"
	ListAbandonedCarts = "abbandonatedCart"
	ListEvents         = "events"
)

// Profile is one customer record, raw or merged.
type Profile struct {
	UID    string `validate:"required"`
	Domain string
	Email  string `validate:"required,email"`

	// Account holds the fields of the "profile" object other than email.
	Account map[string]any

	Tier        Tier `validate:"oneof=full lite"`
	LastUpdated utc.Time
	Created     utc.Time

	// Data holds the scalar and passthrough fields of the "data" object.
	Data Attributes `validate:"required"`

	// List-valued data. A nil slice means the record did not carry the list.
	Children       []Item
	Addresses      []Item
	Orders         []Item
	AbandonedCarts []Item
	Events         []Item

	Preferences Preferences

	// Extra holds top-level record fields without a dedicated field.
	Extra map[string]any
}

// ClubID returns the data.clubId value.
func (p *Profile) ClubID() string {
	s, _ := p.Data.String(AttrClubID)
	return s
}

// Source returns the tag stamped on list items that come from this profile:
// the record's domain, or the club id without spaces when the domain is missing.
func (p *Profile) Source() string {
	if p.Domain != "" {
		return p.Domain
	}
	return strings.ReplaceAll(p.ClubID(), " ", "")
}

// IdentityKey returns the lower-cased email used to group records of one person.
func (p *Profile) IdentityKey() string {
	return strings.ToLower(strings.TrimSpace(p.Email))
}

// Lists returns pointers to every list-valued field keyed by wire name.
func (p *Profile) Lists() map[string]*[]Item {
	return map[string]*[]Item{
		ListChildren:       &p.Children,
		ListAddresses:      &p.Addresses,
		ListOrders:         &p.Orders,
		ListAbandonedCarts: &p.AbandonedCarts,
		ListEvents:         &p.Events,
	}
}

// Clone returns a deep copy of the profile.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	c := *p
	c.Account = cloneMap(p.Account)
	c.Data = Attributes(cloneMap(p.Data))
	c.Children = cloneItems(p.Children)
	c.Addresses = cloneItems(p.Addresses)
	c.Orders = cloneItems(p.Orders)
	c.AbandonedCarts = cloneItems(p.AbandonedCarts)
	c.Events = cloneItems(p.Events)
	c.Preferences = p.Preferences.Clone()
	c.Extra = cloneMap(p.Extra)
	return &c
}
