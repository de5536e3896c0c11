package clubmerge

import (
	"sync"

	"github.com/agentstation/clubmerge/pkg/reconciler"
)

// Hook function types for merge events
type (
	// ProfileMergedHook is called after an identity was merged and written
	ProfileMergedHook func(result *reconciler.Result)

	// MergeFailedHook is called when an identity could not be merged
	MergeFailedHook func(identity string, err error)
)

// hooks manages event callbacks for a run
type hooks struct {
	mu            sync.RWMutex
	onMerged      []ProfileMergedHook
	onMergeFailed []MergeFailedHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnProfileMerged registers a callback for merged identities
func (h *hooks) OnProfileMerged(fn ProfileMergedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onMerged = append(h.onMerged, fn)
}

// OnMergeFailed registers a callback for failed identities
func (h *hooks) OnMergeFailed(fn MergeFailedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onMergeFailed = append(h.onMergeFailed, fn)
}

func (h *hooks) merged(result *reconciler.Result) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.onMerged {
		hook(result)
	}
}

func (h *hooks) failed(identity string, err error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.onMergeFailed {
		hook(identity, err)
	}
}
