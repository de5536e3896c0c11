package output

import (
	"io"

	"github.com/agentstation/clubmerge/internal/cmd/table"
	"github.com/agentstation/clubmerge/internal/report"
	"github.com/agentstation/clubmerge/pkg/clubs"
	"github.com/agentstation/clubmerge/pkg/provenance"
)

// isTable reports whether format renders as a table.
func isTable(format Format) bool {
	return format == FormatTable || format == FormatWide || format == ""
}

// FormatClubs writes the club table.
func FormatClubs(w io.Writer, list []clubs.Club, format Format) error {
	var data any = list
	if isTable(format) {
		data = table.ClubsToTableData(list)
	}
	return NewFormatter(format).Format(w, data)
}

// FormatProvenance writes the provenance of one merge, optionally limited to
// fields matching patterns.
func FormatProvenance(w io.Writer, m provenance.Map, patterns []string, format Format) error {
	if isTable(format) {
		return NewFormatter(format).Format(w, table.ProvenanceToTableData(m, patterns))
	}
	filtered := make(provenance.Map, len(m))
	for field, history := range m {
		if table.MatchField(field, patterns) {
			filtered[field] = history
		}
	}
	return NewFormatter(format).Format(w, filtered)
}

// FormatSummary writes the summary of a merge run.
func FormatSummary(w io.Writer, s table.Summary, format Format) error {
	var data any = s
	if isTable(format) {
		data = table.SummaryToTableData(s)
	}
	return NewFormatter(format).Format(w, data)
}

// FormatDuplicates writes the duplicate-email report.
func FormatDuplicates(w io.Writer, d *report.Duplicates, format Format) error {
	var data any = d
	if isTable(format) {
		data = table.DuplicatesToTableData(d)
	}
	return NewFormatter(format).Format(w, data)
}
