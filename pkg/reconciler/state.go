package reconciler

import (
	"time"

	"github.com/agentstation/clubmerge/pkg/clubs"
	"github.com/agentstation/clubmerge/pkg/profiles"
)

// Candidate is one club's typeOfMember value seen during a fold.
type Candidate struct {
	ClubID string
	Value  string
	Source string
	UID    string
}

// FoldState is the accumulator threaded through the fold of one identity
// besides the merged profile itself. It is created per merge and never
// shared between merges.
type FoldState struct {
	// typeOfMember holds the latest value per club in first-seen club order.
	typeOfMember []Candidate

	// clubOwner is the record whose clubId the accumulator currently carries.
	clubOwner owner

	stats Statistics
}

// owner identifies the record a held value came from.
type owner struct {
	source  string
	uid     string
	created time.Time
	set     bool
}

func ownerOf(p *profiles.Profile) owner {
	return owner{
		source:  p.Source(),
		uid:     p.UID,
		created: p.Created.Time,
		set:     true,
	}
}

// NewFoldState seeds the fold state with the first record of the fold.
func NewFoldState(seed *profiles.Profile) *FoldState {
	s := &FoldState{}
	s.observe(seed)
	if seed.Data.Has(profiles.AttrClubID) {
		s.clubOwner = ownerOf(seed)
	}
	return s
}

// observe registers the typeOfMember value of a record under its club.
func (s *FoldState) observe(p *profiles.Profile) {
	value, ok := p.Data.String(profiles.AttrTypeOfMember)
	if !ok {
		return
	}
	c := Candidate{ClubID: p.ClubID(), Value: value, Source: p.Source(), UID: p.UID}
	key := clubs.Key(c.ClubID)
	for i := range s.typeOfMember {
		if clubs.Key(s.typeOfMember[i].ClubID) == key {
			s.typeOfMember[i] = c
			return
		}
	}
	s.typeOfMember = append(s.typeOfMember, c)
}

// Candidates returns the typeOfMember values registered so far.
func (s *FoldState) Candidates() []Candidate {
	return append([]Candidate(nil), s.typeOfMember...)
}

// Stats returns the counters collected by the fold.
func (s *FoldState) Stats() Statistics {
	return s.stats
}
