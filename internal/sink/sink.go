// Package sink writes merged profiles and the trace linking them to the
// records they replace.
package sink

import (
	"context"
	"strings"

	"github.com/agentstation/clubmerge/pkg/profiles"
	"github.com/agentstation/clubmerge/pkg/reconciler"
)

// Kind names a trace sink.
type Kind string

// Trace sink kinds.
const (
	KindCSV   Kind = "csv"
	KindNeo4j Kind = "neo4j"
)

// ParseKind parses a trace sink name, empty means csv.
func ParseKind(s string) (Kind, bool) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case "", KindCSV:
		return KindCSV, true
	case KindNeo4j:
		return KindNeo4j, true
	default:
		return "", false
	}
}

// TraceRow links one record to the merged profile that replaces it.
type TraceRow struct {
	OldUID    string `json:"old_UID"`
	OldClubID string `json:"old_clubId"`
	NewUID    string `json:"new_UID"`
	NewClubID string `json:"new_clubId"`
	Email     string `json:"email"`
}

// TraceSink receives trace rows.
type TraceSink interface {
	Write(ctx context.Context, rows []TraceRow) error
	Close(ctx context.Context) error
}

// TraceRows returns the rows of one merge: the merged profile itself first,
// then one row per original record.
func TraceRows(result *reconciler.Result) []TraceRow {
	merged := result.Profile
	rows := make([]TraceRow, 0, len(result.Originals)+1)
	rows = append(rows, row(merged, merged))
	for _, p := range result.Originals {
		rows = append(rows, row(p, merged))
	}
	return rows
}

func row(old, merged *profiles.Profile) TraceRow {
	return TraceRow{
		OldUID:    old.UID,
		OldClubID: old.ClubID(),
		NewUID:    merged.UID,
		NewClubID: merged.ClubID(),
		Email:     old.IdentityKey(),
	}
}
