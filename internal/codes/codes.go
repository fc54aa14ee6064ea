// Package codes maintains the list of pharmacy ODS codes attached to a
// registration application. Codes are normalized to upper case on entry and
// validated against the ODS shape (two or three letters then two or three
// digits). Unlike the pharmacist roster, duplicates are allowed; rows that
// fail validation after hydration are kept and flagged so the UI can mark
// them.
package codes

import (
	"errors"

	"pestle/internal/schema"
)

// Errors surfaced by list mutations. Messages are user-facing.
var (
	ErrEmpty  = errors.New(schema.MsgODSEmpty)
	ErrFormat = errors.New(schema.MsgODSFormat)
)

// List is an ordered collection of ODS codes. The zero value is an empty
// list ready for use.
type List struct {
	codes []string
}

// New returns an empty list.
func New() *List {
	return &List{}
}

// Len returns the number of codes.
func (l *List) Len() int {
	return len(l.codes)
}

// Codes returns a copy of the codes in list order.
func (l *List) Codes() []string {
	out := make([]string, len(l.codes))
	copy(out, l.codes)
	return out
}

// SetCodes replaces the list contents, used when hydrating from a saved
// draft. Codes are normalized but not validated: a draft written by an
// older build may carry shapes the current rules reject, and dropping them
// silently would lose data. Valid reports per-row state instead.
func (l *List) SetCodes(codes []string) {
	l.codes = make([]string, len(codes))
	for i, c := range codes {
		l.codes[i] = schema.NormalizeODS(c)
	}
}

// At returns the code at index i.
func (l *List) At(i int) string {
	return l.codes[i]
}

// Valid reports whether the code at index i matches the ODS shape.
func (l *List) Valid(i int) bool {
	return schema.ValidODS(l.codes[i])
}

// Add normalizes and appends a code. It fails when the trimmed input is
// empty or does not match the ODS shape. Duplicates are accepted.
func (l *List) Add(raw string) error {
	code := schema.NormalizeODS(raw)
	if code == "" {
		return ErrEmpty
	}
	if !schema.ValidODS(code) {
		return ErrFormat
	}
	l.codes = append(l.codes, code)
	return nil
}

// RemoveAt deletes the code at index i. Out-of-range indexes are a no-op.
func (l *List) RemoveAt(i int) {
	if i < 0 || i >= len(l.codes) {
		return
	}
	l.codes = append(l.codes[:i], l.codes[i+1:]...)
}

// Clear removes all codes.
func (l *List) Clear() {
	l.codes = nil
}
