package roster

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// csvHeader matches the export format consumed by downstream spreadsheets.
const csvHeader = "GPHC Number,Full Name"

// ExportCSV writes the roster in list order as CSV: an unquoted header row
// followed by one quoted row per record. Exporting an empty roster is an
// error so callers can warn instead of producing an empty file.
func (r *Roster) ExportCSV(w io.Writer) error {
	if len(r.rows) == 0 {
		return ErrEmpty
	}

	var b strings.Builder
	b.WriteString(csvHeader)
	for _, rw := range r.rows {
		b.WriteByte('\n')
		b.WriteString(quoteCSV(rw.rec.GPHC))
		b.WriteByte(',')
		b.WriteString(quoteCSV(rw.rec.Name))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func quoteCSV(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

// ExportFilename returns the download name for an export taken at the given
// time, e.g. pharmacists_2026-08-28.csv.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("pharmacists_%s.csv", now.Format("2006-01-02"))
}
