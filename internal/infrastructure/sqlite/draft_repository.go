package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"pestle/internal/draft"
	"pestle/internal/log"
)

// draftRowID is the fixed primary key: the store holds at most one draft.
const draftRowID = 1

// draftRepository implements draft.Store using SQLite.
type draftRepository struct {
	db     *sql.DB
	tracer trace.Tracer
}

func newDraftRepository(db *sql.DB) *draftRepository {
	return &draftRepository{
		db:     db,
		tracer: otel.Tracer("pestle/draft"),
	}
}

var _ draft.Store = (*draftRepository)(nil)

// Save replaces the stored snapshot.
func (r *draftRepository) Save(s draft.Snapshot) error {
	_, span := r.tracer.Start(context.Background(), "draft.save")
	defer span.End()

	model, err := toDraftModel(s, time.Now())
	if err != nil {
		return err
	}
	span.SetAttributes(attribute.Int("draft.payload_bytes", len(model.Payload)))

	_, err = r.db.Exec(
		`INSERT INTO drafts (id, payload, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		model.ID, model.Payload, model.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}

	log.Debug(log.CatDraft, "draft saved", "bytes", len(model.Payload))
	return nil
}

// Load returns the stored snapshot. ok is false when no draft has been
// saved yet.
func (r *draftRepository) Load() (draft.Snapshot, bool, error) {
	var model draftModel
	err := r.db.QueryRow(
		`SELECT id, payload, updated_at FROM drafts WHERE id = ?`, draftRowID,
	).Scan(&model.ID, &model.Payload, &model.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return draft.Snapshot{}, false, nil
	}
	if err != nil {
		return draft.Snapshot{}, false, fmt.Errorf("failed to load draft: %w", err)
	}

	s, err := model.toSnapshot()
	if err != nil {
		return draft.Snapshot{}, false, err
	}
	return s, true, nil
}

// Clear removes the stored snapshot. Clearing an empty store is a no-op.
func (r *draftRepository) Clear() error {
	_, err := r.db.Exec(`DELETE FROM drafts WHERE id = ?`, draftRowID)
	if err != nil {
		return fmt.Errorf("failed to clear draft: %w", err)
	}

	log.Debug(log.CatDraft, "draft cleared")
	return nil
}
