package sqlite

import (
	"encoding/json"
	"fmt"
	"time"

	"pestle/internal/draft"
)

// draftModel is the database representation of a saved draft. The snapshot
// itself is stored as a JSON payload so schema migrations are only needed
// when the storage shape changes, not when the form grows a field.
type draftModel struct {
	ID        int64
	Payload   string
	UpdatedAt int64
}

// toDraftModel converts a snapshot to its database representation.
func toDraftModel(s draft.Snapshot, now time.Time) (*draftModel, error) {
	payload, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode draft: %w", err)
	}
	return &draftModel{
		ID:        draftRowID,
		Payload:   string(payload),
		UpdatedAt: now.Unix(),
	}, nil
}

// toSnapshot converts a database row back to the domain snapshot.
func (m *draftModel) toSnapshot() (draft.Snapshot, error) {
	var s draft.Snapshot
	if err := json.Unmarshal([]byte(m.Payload), &s); err != nil {
		return draft.Snapshot{}, fmt.Errorf("failed to decode draft: %w", err)
	}
	return s, nil
}
