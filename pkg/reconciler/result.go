package reconciler

import (
	"fmt"
	"time"

	"github.com/agentstation/clubmerge/pkg/profiles"
	"github.com/agentstation/clubmerge/pkg/provenance"
)

// Result represents the outcome of merging one identity.
type Result struct {
	// Core data
	Profile   *profiles.Profile
	Originals []*profiles.Profile
	Identity  string

	// Winner is the UID of the highest priority original
	Winner string

	// Metadata
	Metadata ResultMetadata

	// Provenance tracking
	Provenance provenance.Map

	// Issues
	Warnings []string
}

// ResultMetadata contains metadata about the merge.
type ResultMetadata struct {
	// StartTime when the merge started
	StartTime time.Time

	// EndTime when the merge completed
	EndTime time.Time

	// Duration of the merge
	Duration time.Duration

	// Strategy used for typeOfMember
	Strategy StrategyType

	// Statistics about the merge
	Stats Statistics
}

// Statistics counts what the fold did.
type Statistics struct {
	Records         int
	ChildCollisions int
	SharedItems     int
	Entitlements    int
}

// Add accumulates other into s.
func (s *Statistics) Add(other Statistics) {
	s.Records += other.Records
	s.ChildCollisions += other.ChildCollisions
	s.SharedItems += other.SharedItems
	s.Entitlements += other.Entitlements
}

// UIDs returns the UIDs of the original records in merge order.
func (r *Result) UIDs() []string {
	uids := make([]string, 0, len(r.Originals))
	for _, p := range r.Originals {
		uids = append(uids, p.UID)
	}
	return uids
}

// Summary returns a human-readable summary of the result.
func (r *Result) Summary() string {
	if r.Profile == nil {
		return fmt.Sprintf("Merge of %s produced no profile", r.Identity)
	}
	s := r.Metadata.Stats
	return fmt.Sprintf("Merged %d records of %s into %s (%d child collisions, %d shared items)",
		s.Records, r.Identity, r.Profile.UID, s.ChildCollisions, s.SharedItems)
}

// NewResult creates a new result with defaults.
func NewResult(identity string, start time.Time) *Result {
	return &Result{
		Identity:   identity,
		Provenance: make(provenance.Map),
		Warnings:   []string{},
		Metadata: ResultMetadata{
			StartTime: start,
		},
	}
}

// Finalize records the end time and duration.
func (r *Result) Finalize(end time.Time) {
	r.Metadata.EndTime = end
	r.Metadata.Duration = end.Sub(r.Metadata.StartTime)
}
