// Package roster maintains the ordered, deduplicated list of pharmacists
// attached to a registration application. It owns the list-editing state
// machine: validated appends, per-cell inline edits, removal, and
// pointer-driven reordering. Rendering is left to the UI layer; the roster
// tracks which cell of which row is mid-edit as explicit model state.
package roster

import (
	"errors"
	"strings"

	"pestle/internal/schema"
)

// Record is a single pharmacist entry.
type Record struct {
	GPHC string `json:"gphc"`
	Name string `json:"name"`
}

// Cell identifies an editable cell within a roster row.
type Cell int

const (
	// CellNone means the row is not being edited.
	CellNone Cell = iota
	// CellGPHC is the registration-number cell.
	CellGPHC
	// CellName is the full-name cell.
	CellName
)

// Errors surfaced by roster mutations. The messages are user-facing and
// rendered verbatim next to the offending input.
var (
	ErrGPHCRequired  = errors.New("GPHC number is required")
	ErrNameRequired  = errors.New("Name is required")
	ErrGPHCFormat    = errors.New(schema.MsgGPHCExact)
	ErrDuplicateGPHC = errors.New("This GPHC number is already added")
	ErrNameEmpty     = errors.New("Name cannot be empty")
	ErrEmpty         = errors.New("No pharmacists to export")
)

type row struct {
	rec     Record
	editing Cell
}

// Roster is the ordered collection of pharmacist records. The zero value is
// an empty roster ready for use.
type Roster struct {
	rows []row
}

// New returns an empty roster.
func New() *Roster {
	return &Roster{}
}

// Len returns the number of records.
func (r *Roster) Len() int {
	return len(r.rows)
}

// Records returns a copy of the records in list order.
func (r *Roster) Records() []Record {
	recs := make([]Record, len(r.rows))
	for i, rw := range r.rows {
		recs[i] = rw.rec
	}
	return recs
}

// SetRecords replaces the roster contents, used when hydrating from a saved
// draft. Any in-flight edits are discarded.
func (r *Roster) SetRecords(recs []Record) {
	r.rows = make([]row, len(recs))
	for i, rec := range recs {
		r.rows[i] = row{rec: rec}
	}
}

// At returns the record at index i.
func (r *Roster) At(i int) Record {
	return r.rows[i].rec
}

// Contains reports whether a record with the given GPHC number exists.
func (r *Roster) Contains(gphc string) bool {
	return r.indexOf(gphc) >= 0
}

// Clear removes all records and edit state.
func (r *Roster) Clear() {
	r.rows = nil
}

// Add validates and appends a new record. Both values are trimmed first.
// It fails when either is empty, when the registration number is not exactly
// seven digits, or when the number is already in the roster. The roster is
// unchanged on failure.
func (r *Roster) Add(gphc, name string) error {
	gphc = strings.TrimSpace(gphc)
	name = strings.TrimSpace(name)

	if gphc == "" {
		return ErrGPHCRequired
	}
	if name == "" {
		return ErrNameRequired
	}
	if !schema.ValidGPHC(gphc) {
		return ErrGPHCFormat
	}
	if r.Contains(gphc) {
		return ErrDuplicateGPHC
	}

	r.rows = append(r.rows, row{rec: Record{GPHC: gphc, Name: name}})
	return nil
}

// Remove deletes the record with the given GPHC number. Removing an absent
// number is a silent no-op.
func (r *Roster) Remove(gphc string) {
	i := r.indexOf(gphc)
	if i < 0 {
		return
	}
	r.rows = append(r.rows[:i], r.rows[i+1:]...)
}

// RemoveAt deletes the record at index i.
func (r *Roster) RemoveAt(i int) {
	if i < 0 || i >= len(r.rows) {
		return
	}
	r.rows = append(r.rows[:i], r.rows[i+1:]...)
}

// Editing returns which cell of row i is currently in edit mode.
func (r *Roster) Editing(i int) Cell {
	if i < 0 || i >= len(r.rows) {
		return CellNone
	}
	return r.rows[i].editing
}

// BeginEdit puts one cell of row i into edit mode. A row edits at most one
// cell at a time; entering an edit replaces any edit on the same row, while
// edits on other rows are left alone.
func (r *Roster) BeginEdit(i int, cell Cell) bool {
	if i < 0 || i >= len(r.rows) || cell == CellNone {
		return false
	}
	r.rows[i].editing = cell
	return true
}

// CommitEdit applies the pending value to the cell being edited on row i and
// leaves edit mode. A registration number must still be exactly seven digits
// and a name must be non-empty; on failure the edit is reverted (edit mode
// exits, the record keeps its previous value) and the error describes why.
func (r *Roster) CommitEdit(i int, cell Cell, value string) error {
	if i < 0 || i >= len(r.rows) || r.rows[i].editing != cell {
		return nil
	}
	r.rows[i].editing = CellNone

	value = strings.TrimSpace(value)
	switch cell {
	case CellGPHC:
		if !schema.ValidGPHC(value) {
			return ErrGPHCFormat
		}
		r.rows[i].rec.GPHC = value
	case CellName:
		if value == "" {
			return ErrNameEmpty
		}
		r.rows[i].rec.Name = value
	}
	return nil
}

// CancelEdit leaves edit mode on row i without mutating the record.
func (r *Roster) CancelEdit(i int) {
	if i < 0 || i >= len(r.rows) {
		return
	}
	r.rows[i].editing = CellNone
}

// MoveBefore repositions the record with GPHC movedID immediately before the
// record with GPHC beforeID. Returns false when either is absent or they are
// the same record.
func (r *Roster) MoveBefore(movedID, beforeID string) bool {
	if movedID == beforeID {
		return false
	}
	from := r.indexOf(movedID)
	if from < 0 {
		return false
	}
	moved := r.rows[from]
	rest := append(append([]row{}, r.rows[:from]...), r.rows[from+1:]...)

	to := -1
	for i, rw := range rest {
		if rw.rec.GPHC == beforeID {
			to = i
			break
		}
	}
	if to < 0 {
		return false
	}

	r.rows = append(rest[:to], append([]row{moved}, rest[to:]...)...)
	return true
}

// MoveToEnd repositions the record with GPHC movedID to the end of the list.
func (r *Roster) MoveToEnd(movedID string) bool {
	from := r.indexOf(movedID)
	if from < 0 {
		return false
	}
	moved := r.rows[from]
	r.rows = append(r.rows[:from], r.rows[from+1:]...)
	r.rows = append(r.rows, moved)
	return true
}

// MoveToIndex repositions the record at index from so it lands at index to
// within the list as it stands without the moved record. This is the
// primitive both keyboard reordering and pointer drops reduce to.
func (r *Roster) MoveToIndex(from, to int) bool {
	if from < 0 || from >= len(r.rows) {
		return false
	}
	rest := append(append([]row{}, r.rows[:from]...), r.rows[from+1:]...)
	if to < 0 {
		to = 0
	}
	if to > len(rest) {
		to = len(rest)
	}
	moved := r.rows[from]
	r.rows = append(rest[:to], append([]row{moved}, rest[to:]...)...)
	return true
}

func (r *Roster) indexOf(gphc string) int {
	for i, rw := range r.rows {
		if rw.rec.GPHC == gphc {
			return i
		}
	}
	return -1
}

// RowBounds describes the vertical geometry of one rendered roster row,
// excluding the row being dragged.
type RowBounds struct {
	Top    int
	Height int
}

// InsertionIndex computes where a dragged record lands for a pointer at
// pointerY: the index of the first row whose vertical midpoint sits below
// the pointer, or len(rows) to append when the pointer is past every
// midpoint. rows must be in display order. The result is deterministic for
// a given pointer position and geometry.
func InsertionIndex(pointerY int, rows []RowBounds) int {
	for i, b := range rows {
		mid := b.Top + b.Height/2
		if pointerY < mid {
			return i
		}
	}
	return len(rows)
}
