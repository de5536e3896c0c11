// Package provenance records, for one merge, which source record supplied
// each resolved field and which rule picked it.
package provenance

import (
	"fmt"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
)

// Provenance tracks the origin of one field value at one fold step.
type Provenance struct {
	Source        string `json:"source" yaml:"source"`                                     // source tag of the record that supplied the value
	UID           string `json:"uid,omitempty" yaml:"uid,omitempty"`                       // UID of that record
	Field         string `json:"field" yaml:"field"`                                       // attribute name
	Value         any    `json:"value,omitempty" yaml:"value,omitempty"`                   // resolved value
	PreviousValue any    `json:"previous_value,omitempty" yaml:"previous_value,omitempty"` // accumulated value before this step
	Policy        string `json:"policy" yaml:"policy"`                                     // rule that resolved the field
	Reason        string `json:"reason,omitempty" yaml:"reason,omitempty"`                 // why this value was selected
	Step          int    `json:"step" yaml:"step"`                                         // fold step, 0 for the seed record
}

// Map tracks provenance per field.
type Map map[string][]Provenance

// Tracker manages provenance tracking during a merge.
type Tracker interface {
	// Track records provenance for a field
	Track(p Provenance)

	// FindByField retrieves the history of a field
	FindByField(field string) []Provenance

	// Map returns the complete provenance map
	Map() Map

	// Clear removes all provenance data
	Clear()
}

// tracker is the default implementation.
type tracker struct {
	provenance Map
	enabled    bool
}

// NewTracker creates a new provenance tracker. A disabled tracker drops everything.
func NewTracker(enabled bool) Tracker {
	return &tracker{
		provenance: make(Map),
		enabled:    enabled,
	}
}

// Track records provenance for a field.
func (t *tracker) Track(p Provenance) {
	if !t.enabled {
		return
	}
	t.provenance[p.Field] = append(t.provenance[p.Field], p)
}

// FindByField retrieves the history of a field.
func (t *tracker) FindByField(field string) []Provenance {
	if !t.enabled {
		return nil
	}
	return t.provenance[field]
}

// Map returns a copy of the complete provenance map.
func (t *tracker) Map() Map {
	if !t.enabled {
		return nil
	}
	result := make(Map, len(t.provenance))
	for k, v := range t.provenance {
		result[k] = append([]Provenance{}, v...)
	}
	return result
}

// Clear removes all provenance data.
func (t *tracker) Clear() {
	t.provenance = make(Map)
}

// Fields returns the tracked field names in sorted order.
func (m Map) Fields() []string {
	fields := make([]string, 0, len(m))
	for f := range m {
		fields = append(fields, f)
	}
	slices.Sort(fields)
	return fields
}

// Current returns the last recorded provenance of a field.
func (m Map) Current(field string) (Provenance, bool) {
	history := m[field]
	if len(history) == 0 {
		return Provenance{}, false
	}
	return history[len(history)-1], true
}

// Sources returns the distinct sources that contributed to a field, in order.
func (m Map) Sources(field string) []string {
	var sources []string
	for _, p := range m[field] {
		if p.Source != "" && !slices.Contains(sources, p.Source) {
			sources = append(sources, p.Source)
		}
	}
	return sources
}

// File is the YAML document written by --explain.
type File struct {
	Identity   string `yaml:"identity"`
	UID        string `yaml:"uid"`
	Provenance Map    `yaml:"provenance"`
}

// Marshal encodes the provenance of one merged identity as YAML.
func Marshal(identity, uid string, m Map) ([]byte, error) {
	return yaml.MarshalWithOptions(File{Identity: identity, UID: uid, Provenance: m},
		yaml.Indent(2), yaml.IndentSequence(false))
}

// String generates a human-readable provenance report.
func (m Map) String() string {
	var sb strings.Builder
	sb.WriteString("Provenance Report\n")
	sb.WriteString("=================\n")

	for _, field := range m.Fields() {
		current, _ := m.Current(field)
		fmt.Fprintf(&sb, "  %s: %v (from %s, %s)\n", field, current.Value, current.Source, current.Policy)
		if current.Reason != "" {
			fmt.Fprintf(&sb, "    Reason: %s\n", current.Reason)
		}
		history := m[field]
		if len(history) > 1 {
			sb.WriteString("    History:\n")
			for i, p := range history {
				if i > 3 {
					fmt.Fprintf(&sb, "      ... and %d more\n", len(history)-i)
					break
				}
				fmt.Fprintf(&sb, "      - step %d: %v from %s\n", p.Step, p.Value, p.Source)
			}
		}
	}
	return sb.String()
}
