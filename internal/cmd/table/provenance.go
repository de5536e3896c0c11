package table

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/clubmerge/pkg/provenance"
)

// ProvenanceToTableData converts provenance history to table format.
// Shows all fields and their history in a single unified table, latest
// fold step first.
func ProvenanceToTableData(m provenance.Map, patterns []string) Data {
	var rows [][]string

	for _, field := range m.Fields() {
		if !MatchField(field, patterns) {
			continue
		}
		history := m[field]

		// Add each history entry for this field, newest first
		for i := len(history) - 1; i >= 0; i-- {
			entry := history[i]
			first := i == len(history)-1

			// Field name only on first row, blank for subsequent entries
			fieldName, currentIndicator := "", ""
			if first {
				fieldName, currentIndicator = field, "→"
			}

			source := entry.Source
			if source == "" {
				source = "-"
			}

			rows = append(rows, []string{
				fieldName,
				currentIndicator,
				formatValueAsYAML(entry.Value),
				source,
				entry.Policy,
				strconv.Itoa(entry.Step),
				entry.Reason,
			})
		}
	}

	return Data{
		Headers: []string{"Field", "Curr", "Value", "Source", "Policy", "Step", "Reason"},
		Rows:    rows,
		ColumnAlignment: []Align{
			AlignLeft,   // Field
			AlignCenter, // Curr
			AlignLeft,   // Value
			AlignLeft,   // Source
			AlignLeft,   // Policy
			AlignRight,  // Step
			AlignLeft,   // Reason
		},
	}
}

// MatchField checks if a field matches any of the provided patterns.
// Supports wildcard matching (e.g., "reg*" matches "regSource").
// Matching is case-insensitive for better user experience.
func MatchField(field string, patterns []string) bool {
	if len(patterns) == 0 {
		return true // No patterns means match all
	}

	fieldLower := strings.ToLower(field)
	for _, pattern := range patterns {
		patternLower := strings.ToLower(pattern)

		matched, err := filepath.Match(patternLower, fieldLower)
		if err == nil && matched {
			return true
		}
	}

	return false
}

// formatValueAsYAML formats a provenance value for display.
// Complex values (maps, slices) are formatted as YAML.
// Simple values (strings, numbers, bools) are kept as-is.
func formatValueAsYAML(val any) string {
	if val == nil {
		return "<nil>"
	}

	switch v := val.(type) {
	case string:
		if v == "" {
			return "<empty>"
		}
		return v
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%.2f", v)
	case int, int64, bool:
		return fmt.Sprintf("%v", v)
	}

	yamlBytes, err := yaml.Marshal(val)
	if err != nil {
		return fmt.Sprintf("%v", val)
	}
	return strings.TrimSuffix(string(yamlBytes), "\n")
}
