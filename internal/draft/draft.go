// Package draft defines the persisted shape of an in-progress application
// and the store interface the orchestration layer saves through. The
// snapshot is deliberately plain JSON so drafts written by older builds
// hydrate cleanly: unknown keys are ignored, missing keys default to empty.
package draft

import "pestle/internal/roster"

// Snapshot is everything needed to restore a half-completed application.
type Snapshot struct {
	BusinessType string            `json:"businessType"`
	Business     map[string]string `json:"business"`
	Contact      map[string]string `json:"contact"`
	ODS          []string          `json:"ods"`
	Pharmacists  []roster.Record   `json:"pharmacists"`
}

// Empty reports whether the snapshot carries no user input at all.
// Saving an empty snapshot is pointless and clearing beats persisting it.
func (s Snapshot) Empty() bool {
	if s.BusinessType != "" || len(s.ODS) > 0 || len(s.Pharmacists) > 0 {
		return false
	}
	for _, v := range s.Business {
		if v != "" {
			return false
		}
	}
	for _, v := range s.Contact {
		if v != "" {
			return false
		}
	}
	return true
}

// Store persists at most one snapshot. Implementations must tolerate
// concurrent Save calls from the debounced autosave loop.
type Store interface {
	// Save replaces the stored snapshot.
	Save(s Snapshot) error
	// Load returns the stored snapshot. ok is false when nothing has been
	// saved yet; that is not an error.
	Load() (s Snapshot, ok bool, err error)
	// Clear removes the stored snapshot. Clearing an empty store is a no-op.
	Clear() error
}
