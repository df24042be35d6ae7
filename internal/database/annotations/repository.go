// Package annotations provides database operations for highlights and their
// attached AI analyses.
//
// Lifecycle rule: an analysis always references an existing highlight, and a
// highlight with no remaining analyses is considered orphaned. DeleteAnalysis
// removes such orphans inside the same transaction as the analysis delete, so
// callers never observe a half-applied cascade.
package annotations

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/lectern-app/lectern/internal/entities"
)

var (
	// ErrHighlightNotFound is returned when an operation references a
	// highlight id with no matching row.
	ErrHighlightNotFound = errors.New("highlight not found")

	// ErrAnalysisNotFound is returned when an operation references an
	// analysis id with no matching row.
	ErrAnalysisNotFound = errors.New("analysis not found")
)

// Repository handles all highlight and analysis database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new annotations repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// SaveHighlight inserts a new highlight and returns its generated id.
// CreatedAt is assigned server-side when the caller leaves it zero.
func (r *Repository) SaveHighlight(highlight *entities.Highlight) (uint, error) {
	if highlight.CreatedAt.IsZero() {
		highlight.CreatedAt = time.Now()
	}
	if err := r.db.Create(highlight).Error; err != nil {
		return 0, err
	}
	return highlight.ID, nil
}

// GetHighlightByID retrieves a single highlight without its analyses.
func (r *Repository) GetHighlightByID(id uint) (*entities.Highlight, error) {
	var highlight entities.Highlight
	err := r.db.First(&highlight, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrHighlightNotFound
	}
	if err != nil {
		return nil, err
	}
	return &highlight, nil
}

// GetHighlightsForChapter returns all highlights for an exact (book, chapter)
// pair, newest first.
func (r *Repository) GetHighlightsForChapter(bookID string, chapterIndex int) ([]entities.Highlight, error) {
	var highlights []entities.Highlight
	err := r.db.Where("book_id = ? AND chapter_index = ?", bookID, chapterIndex).
		Order("created_at DESC, id DESC").
		Find(&highlights).Error
	return highlights, err
}

// GetAllHighlightsForBook returns all highlights across every chapter of a
// book, newest first.
func (r *Repository) GetAllHighlightsForBook(bookID string) ([]entities.Highlight, error) {
	var highlights []entities.Highlight
	err := r.db.Where("book_id = ?", bookID).
		Order("created_at DESC, id DESC").
		Find(&highlights).Error
	return highlights, err
}

// SaveAnalysis inserts a new analysis referencing an existing highlight and
// returns its generated id. Returns ErrHighlightNotFound when the referenced
// highlight does not exist.
func (r *Repository) SaveAnalysis(analysis *entities.Analysis) (uint, error) {
	var count int64
	if err := r.db.Model(&entities.Highlight{}).Where("id = ?", analysis.HighlightID).Count(&count).Error; err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, ErrHighlightNotFound
	}

	if analysis.CreatedAt.IsZero() {
		analysis.CreatedAt = time.Now()
	}
	if err := r.db.Create(analysis).Error; err != nil {
		return 0, err
	}
	return analysis.ID, nil
}

// GetAnalysesForHighlight returns all analyses for a highlight, newest first.
func (r *Repository) GetAnalysesForHighlight(highlightID uint) ([]entities.Analysis, error) {
	var analyses []entities.Analysis
	err := r.db.Where("highlight_id = ?", highlightID).
		Order("created_at DESC, id DESC").
		Find(&analyses).Error
	return analyses, err
}

// UpdateAnalysisResponse replaces the response text of an existing analysis.
// Used for editing comments; other analysis fields are immutable.
func (r *Repository) UpdateAnalysisResponse(id uint, response string) error {
	result := r.db.Model(&entities.Analysis{}).
		Where("id = ?", id).
		Update("response", response)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAnalysisNotFound
	}
	return nil
}

// DeleteAnalysis deletes an analysis and, when it was the last one attached
// to its highlight, the highlight as well. Both deletes commit together or
// not at all.
func (r *Repository) DeleteAnalysis(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var analysis entities.Analysis
		err := tx.First(&analysis, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAnalysisNotFound
		}
		if err != nil {
			return err
		}

		if err := tx.Delete(&entities.Analysis{}, id).Error; err != nil {
			return err
		}

		var remaining int64
		if err := tx.Model(&entities.Analysis{}).
			Where("highlight_id = ?", analysis.HighlightID).
			Count(&remaining).Error; err != nil {
			return err
		}

		if remaining == 0 {
			if err := tx.Delete(&entities.Highlight{}, analysis.HighlightID).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetBookAnnotations returns every highlight of a book with its analyses
// attached, highlights newest first and analyses newest first within each.
func (r *Repository) GetBookAnnotations(bookID string) ([]entities.Highlight, error) {
	var highlights []entities.Highlight
	err := r.db.Preload("Analyses", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at DESC, id DESC")
	}).
		Where("book_id = ?", bookID).
		Order("created_at DESC, id DESC").
		Find(&highlights).Error
	return highlights, err
}
