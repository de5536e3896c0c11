// Package table provides common table formatting utilities for CLI commands.
package table

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agentstation/clubmerge/internal/report"
	"github.com/agentstation/clubmerge/pkg/clubs"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// ClubsToTableData converts the club table to table format.
func ClubsToTableData(list []clubs.Club) Data {
	rows := make([][]string, 0, len(list))
	for _, c := range list {
		precedence := "-"
		if c.Ranked() {
			precedence = strconv.Itoa(c.Precedence)
		}
		rows = append(rows, []string{
			c.ID,
			c.Name,
			c.ConsentKey,
			precedence,
			dash(c.TypeOfMember.Default),
			dash(strings.Join(c.TypeOfMember.Placeholders, ", ")),
		})
	}
	return Data{
		Headers: []string{"ID", "Name", "Consent Key", "Precedence", "Default Type", "Placeholders"},
		Rows:    rows,
		ColumnAlignment: []Align{
			AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignLeft, AlignLeft,
		},
	}
}

// Summary is the outcome of a merge run.
type Summary struct {
	Files           int
	Records         int
	Rejected        int
	Identities      int
	Merged          int
	Failed          int
	ChildCollisions int
	SharedItems     int
	OutputFiles     []string
}

// SummaryToTableData converts a run summary to a key-value table.
func SummaryToTableData(s Summary) Data {
	rows := [][]string{
		{"Input files", strconv.Itoa(s.Files)},
		{"Records read", strconv.Itoa(s.Records)},
		{"Records rejected", strconv.Itoa(s.Rejected)},
		{"Identities", strconv.Itoa(s.Identities)},
		{"Profiles merged", strconv.Itoa(s.Merged)},
		{"Merges failed", strconv.Itoa(s.Failed)},
		{"Child collisions", strconv.Itoa(s.ChildCollisions)},
		{"Shared list items", strconv.Itoa(s.SharedItems)},
	}
	for i, f := range s.OutputFiles {
		rows = append(rows, []string{fmt.Sprintf("Output %d", i+1), f})
	}
	return Data{
		Headers:         []string{"Metric", "Value"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight},
	}
}

// DuplicatesToTableData converts the duplicate-email report to table format.
func DuplicatesToTableData(d *report.Duplicates) Data {
	return Data{
		Headers: d.Header(),
		Rows:    d.Rows(),
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
