package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lectern-app/lectern/internal/config"
	"github.com/lectern-app/lectern/internal/database"
	"github.com/lectern-app/lectern/internal/entities"
)

// InspectDBCommand prints an overview of the annotation database: recent
// highlights and analyses, per-type counts, and rows whose book folder no
// longer exists. Book deletion keeps database rows around, so the orphan
// listing is how an operator sees the drift.
type InspectDBCommand struct {
	DatabasePath string
	BooksDir     string
	Limit        int
}

// NewInspectDBCommand creates a new InspectDBCommand
func NewInspectDBCommand() *InspectDBCommand {
	return &InspectDBCommand{}
}

// ParseFlags parses command line flags
func (cmd *InspectDBCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("inspect-db", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the reader database file")
	fs.StringVar(&cmd.BooksDir, "books-dir", config.DefaultBooksDir, "Books directory used to spot orphaned rows")
	fs.IntVar(&cmd.Limit, "limit", 5, "How many recent rows to print per table")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s inspect-db [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Print an overview of stored highlights, analyses and reading progress.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

// Run executes the inspection
func (cmd *InspectDBCommand) Run() error {
	if _, err := os.Stat(cmd.DatabasePath); os.IsNotExist(err) {
		return fmt.Errorf("database file %s does not exist", cmd.DatabasePath)
	}

	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	fmt.Printf("Database: %s\n", cmd.DatabasePath)

	if err := cmd.printHighlights(db); err != nil {
		return err
	}
	if err := cmd.printAnalyses(db); err != nil {
		return err
	}
	if err := cmd.printTypeStats(db); err != nil {
		return err
	}
	return cmd.printOrphans(db)
}

func (cmd *InspectDBCommand) printHighlights(db *database.Database) error {
	var count int64
	if err := db.DB.Model(&entities.Highlight{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count highlights: %w", err)
	}

	fmt.Printf("\nHighlights: %d\n", count)
	if count == 0 {
		return nil
	}

	var highlights []entities.Highlight
	err := db.DB.
		Order("created_at DESC, id DESC").
		Limit(cmd.Limit).
		Find(&highlights).Error
	if err != nil {
		return fmt.Errorf("load recent highlights: %w", err)
	}

	for _, h := range highlights {
		fmt.Printf("  [%d] %s ch.%d at %s\n      %q\n",
			h.ID, h.BookID, h.ChapterIndex,
			h.CreatedAt.Format("2006-01-02 15:04"),
			truncate(h.SelectedText, 50))
	}
	return nil
}

func (cmd *InspectDBCommand) printAnalyses(db *database.Database) error {
	var count int64
	if err := db.DB.Model(&entities.Analysis{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count analyses: %w", err)
	}

	fmt.Printf("\nAnalyses: %d\n", count)
	if count == 0 {
		return nil
	}

	var analyses []entities.Analysis
	err := db.DB.
		Order("created_at DESC, id DESC").
		Limit(cmd.Limit).
		Find(&analyses).Error
	if err != nil {
		return fmt.Errorf("load recent analyses: %w", err)
	}

	for _, a := range analyses {
		fmt.Printf("  [%d] %s on highlight %d at %s\n      %q\n",
			a.ID, a.AnalysisType, a.HighlightID,
			a.CreatedAt.Format("2006-01-02 15:04"),
			truncate(a.Response, 100))
	}
	return nil
}

func (cmd *InspectDBCommand) printTypeStats(db *database.Database) error {
	type typeCount struct {
		AnalysisType string
		Count        int64
	}
	var stats []typeCount
	err := db.DB.Model(&entities.Analysis{}).
		Select("analysis_type, COUNT(*) as count").
		Group("analysis_type").
		Order("count DESC").
		Scan(&stats).Error
	if err != nil {
		return fmt.Errorf("aggregate analysis types: %w", err)
	}

	fmt.Printf("\nAnalyses by type:\n")
	if len(stats) == 0 {
		fmt.Println("  none")
		return nil
	}
	for _, s := range stats {
		fmt.Printf("  %s: %d\n", s.AnalysisType, s.Count)
	}
	return nil
}

func (cmd *InspectDBCommand) printOrphans(db *database.Database) error {
	var bookIDs []string
	err := db.DB.Model(&entities.Highlight{}).
		Distinct("book_id").
		Pluck("book_id", &bookIDs).Error
	if err != nil {
		return fmt.Errorf("list annotated books: %w", err)
	}

	var orphans []string
	for _, id := range bookIDs {
		if _, err := os.Stat(filepath.Join(cmd.BooksDir, id)); os.IsNotExist(err) {
			orphans = append(orphans, id)
		}
	}

	if len(orphans) == 0 {
		return nil
	}

	fmt.Printf("\nBooks with annotations but no folder under %s:\n", cmd.BooksDir)
	for _, id := range orphans {
		var highlightCount int64
		db.DB.Model(&entities.Highlight{}).Where("book_id = ?", id).Count(&highlightCount)
		fmt.Printf("  %s (%d highlights)\n", id, highlightCount)
	}
	return nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
