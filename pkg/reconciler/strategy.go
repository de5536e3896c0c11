package reconciler

import (
	"fmt"
	"slices"
	"strings"

	"github.com/agentstation/clubmerge/pkg/clubs"
)

// StrategyType represents the type of typeOfMember resolution strategy.
type StrategyType string

// String returns the string representation of a strategy type.
func (s StrategyType) String() string {
	return string(s)
}

// Name returns the name of the strategy type.
func (s StrategyType) Name() string {
	words := strings.Split(s.String(), "-")
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + word[1:]
		}
	}
	return strings.Join(words, " ")
}

const (
	// StrategyTypeClubRegistry picks the value of the highest ranked club.
	StrategyTypeClubRegistry StrategyType = "club-registry"
	// StrategyTypePriorityList picks the value ranked first in a fixed list.
	StrategyTypePriorityList StrategyType = "priority-list"
)

// ParseStrategyType parses a strategy name.
func ParseStrategyType(s string) (StrategyType, error) {
	switch t := StrategyType(strings.ToLower(strings.TrimSpace(s))); t {
	case StrategyTypeClubRegistry, StrategyTypePriorityList:
		return t, nil
	case "":
		return StrategyTypeClubRegistry, nil
	default:
		return "", fmt.Errorf("unknown typeOfMember strategy %q (want %s or %s)", s, StrategyTypeClubRegistry, StrategyTypePriorityList)
	}
}

// DefaultTypeOfMemberPriority ranks member types, most specific first.
var DefaultTypeOfMemberPriority = []string{"HCP", "Carer", "Patient", "Consumer"}

// Strategy decides the typeOfMember of a merged profile.
type Strategy interface {
	// Type returns the strategy type
	Type() StrategyType

	// Description returns a human-readable description
	Description() string

	// Resolve picks one candidate and explains why. ok is false when no
	// candidate qualifies, in which case the field is merged by presence.
	Resolve(candidates []Candidate) (winner Candidate, reason string, ok bool)
}

// baseStrategy provides common strategy functionality.
type baseStrategy struct {
	typ         StrategyType
	description string
}

// Type returns the strategy type.
func (s *baseStrategy) Type() StrategyType {
	return s.typ
}

// Description returns a human-readable description.
func (s *baseStrategy) Description() string {
	return s.description
}

// PriorityListStrategy ranks values by their index in a fixed list.
type PriorityListStrategy struct {
	baseStrategy
	priority []string
}

// NewPriorityListStrategy creates a strategy over priority, first element wins.
// A nil priority uses DefaultTypeOfMemberPriority.
func NewPriorityListStrategy(priority []string) *PriorityListStrategy {
	if priority == nil {
		priority = DefaultTypeOfMemberPriority
	}
	return &PriorityListStrategy{
		baseStrategy: baseStrategy{
			typ:         StrategyTypePriorityList,
			description: fmt.Sprintf("Resolves typeOfMember by value priority: %s", strings.Join(priority, " > ")),
		},
		priority: slices.Clone(priority),
	}
}

// Resolve returns the candidate whose value ranks first.
func (s *PriorityListStrategy) Resolve(candidates []Candidate) (Candidate, string, bool) {
	best, bestRank := Candidate{}, -1
	for _, c := range candidates {
		rank := slices.Index(s.priority, c.Value)
		if rank < 0 {
			continue
		}
		if bestRank < 0 || rank < bestRank {
			best, bestRank = c, rank
		}
	}
	if bestRank < 0 {
		return Candidate{}, "", false
	}
	return best, fmt.Sprintf("%s ranks %d in value priority", best.Value, bestRank+1), true
}

// ClubRegistryStrategy takes the value of the highest ranked club that
// contributed one and falls back to a priority list otherwise.
type ClubRegistryStrategy struct {
	baseStrategy
	registry *clubs.Registry
	fallback *PriorityListStrategy
}

// NewClubRegistryStrategy creates the club precedence strategy.
func NewClubRegistryStrategy(registry *clubs.Registry) *ClubRegistryStrategy {
	ranked := registry.Ranked()
	ids := make([]string, 0, len(ranked))
	for _, c := range ranked {
		ids = append(ids, c.ID)
	}
	return &ClubRegistryStrategy{
		baseStrategy: baseStrategy{
			typ:         StrategyTypeClubRegistry,
			description: fmt.Sprintf("Resolves typeOfMember by club precedence: %s", strings.Join(ids, " > ")),
		},
		registry: registry,
		fallback: NewPriorityListStrategy(nil),
	}
}

// Resolve returns the candidate of the highest ranked club.
func (s *ClubRegistryStrategy) Resolve(candidates []Candidate) (Candidate, string, bool) {
	for _, club := range s.registry.Ranked() {
		key := clubs.Key(club.ID)
		for _, c := range candidates {
			if clubs.Key(c.ClubID) == key {
				return c, fmt.Sprintf("club %s ranks %d in club precedence", club.ID, club.Precedence), true
			}
		}
	}
	return s.fallback.Resolve(candidates)
}
