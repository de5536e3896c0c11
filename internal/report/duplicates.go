// Package report builds the duplicate-email report: identities registered in
// more than one club, with what each club knows about them.
package report

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/agentstation/clubmerge/internal/collate"
	"github.com/agentstation/clubmerge/pkg/clubs"
	"github.com/agentstation/clubmerge/pkg/profiles"
)

// NotPresent is the typeOfMember shown for a club without a value.
const NotPresent = "Not present"

// Membership is what one club holds about an identity.
type Membership struct {
	Present      bool   `json:"present" yaml:"present"`
	TypeOfMember string `json:"type_of_member" yaml:"type_of_member"`
	Children     string `json:"children,omitempty" yaml:"children,omitempty"`
}

// Entry is one identity of the report.
type Entry struct {
	Email string                `json:"email" yaml:"email"`
	Clubs map[string]Membership `json:"clubs" yaml:"clubs"`
}

// Duplicates is the duplicate-email report.
type Duplicates struct {
	// Clubs holds the club keys that have a column, in club table order.
	Clubs   []string `json:"clubs" yaml:"clubs"`
	Entries []Entry  `json:"entries" yaml:"entries"`
}

// Build collects the identities present in more than one club. Columns are
// the clubs of registry followed by any unmapped club seen, sorted.
func Build(groups []collate.Group, registry *clubs.Registry) *Duplicates {
	report := &Duplicates{Entries: []Entry{}}
	seen := make(map[string]bool)

	for _, g := range groups {
		entry := Entry{Email: g.Identity, Clubs: make(map[string]Membership)}
		for _, p := range g.Profiles {
			key := clubs.Key(p.ClubID())
			tom, ok := p.Data.String(profiles.AttrTypeOfMember)
			if !ok || tom == "" {
				tom = NotPresent
			}
			entry.Clubs[key] = Membership{
				Present:      true,
				TypeOfMember: tom,
				Children:     formatChildren(p.Children),
			}
		}
		if len(entry.Clubs) < 2 {
			continue
		}
		for key := range entry.Clubs {
			seen[key] = true
		}
		report.Entries = append(report.Entries, entry)
	}

	for _, c := range registry.All() {
		key := clubs.Key(c.ID)
		report.Clubs = append(report.Clubs, key)
		delete(seen, key)
	}
	extra := make([]string, 0, len(seen))
	for key := range seen {
		extra = append(extra, key)
	}
	slices.Sort(extra)
	report.Clubs = append(report.Clubs, extra...)
	return report
}

// Header returns the column names of the flat report.
func (d *Duplicates) Header() []string {
	header := []string{"email"}
	for _, key := range d.Clubs {
		header = append(header, "isPresentIn"+key, "typeOfMember"+key, "children"+key)
	}
	return header
}

// Rows returns the flat report rows.
func (d *Duplicates) Rows() [][]string {
	rows := make([][]string, 0, len(d.Entries))
	for _, e := range d.Entries {
		row := []string{e.Email}
		for _, key := range d.Clubs {
			m, ok := e.Clubs[key]
			if !ok {
				m = Membership{TypeOfMember: NotPresent}
			}
			row = append(row, strconv.FormatBool(m.Present), m.TypeOfMember, m.Children)
		}
		rows = append(rows, row)
	}
	return rows
}

// CountByClub returns how many reported identities each club holds.
func (d *Duplicates) CountByClub() map[string]int {
	counts := make(map[string]int, len(d.Clubs))
	for _, e := range d.Entries {
		for key := range e.Clubs {
			counts[key]++
		}
	}
	return counts
}

func formatChildren(children []profiles.Item) string {
	parts := make([]string, 0, len(children))
	for _, child := range children {
		var fields []string
		for _, key := range []string{profiles.ItemDateOfBirth, profiles.ItemDueDate, "firstName", "gender"} {
			if v, ok := child[key]; ok && v != nil {
				fields = append(fields, key+": "+toString(v))
			}
		}
		parts = append(parts, strings.Join(fields, ", "))
	}
	return strings.Join(parts, " | ")
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
