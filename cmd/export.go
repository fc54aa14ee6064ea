package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"pestle/internal/infrastructure/sqlite"
	"pestle/internal/paths"
	"pestle/internal/roster"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the drafted pharmacist roster to CSV",
	Long: `Reads the pharmacist roster from the saved draft and writes it as a
CSV file, without starting the interactive form.`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("output", "o", "",
		"output directory (default: export.dir from config, or current directory)")
}

func runExport(cmd *cobra.Command, args []string) error {
	db, err := sqlite.NewDB(paths.DraftDBPath(cfg.DataDir))
	if err != nil {
		return fmt.Errorf("opening draft database: %w", err)
	}
	defer func() { _ = db.Close() }()

	snap, ok, err := db.Drafts().Load()
	if err != nil {
		return fmt.Errorf("loading draft: %w", err)
	}
	if !ok || len(snap.Pharmacists) == 0 {
		return fmt.Errorf("the saved draft has no pharmacists to export")
	}

	dir, _ := cmd.Flags().GetString("output")
	if dir == "" {
		dir = cfg.Export.Dir
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	r := roster.New()
	r.SetRecords(snap.Pharmacists)

	path := filepath.Join(dir, roster.ExportFilename(time.Now()))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	if err := r.ExportCSV(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing export file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing export file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d pharmacists to %s\n", len(snap.Pharmacists), path)
	return nil
}
