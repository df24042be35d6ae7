package http

import (
	"github.com/lectern-app/lectern/internal/database/annotations"
	"github.com/lectern-app/lectern/internal/entities"
)

// This file consolidates the store interfaces consumed by HTTP controllers.
// Controllers depend on these rather than on concrete repositories so tests
// can substitute fakes and the database layer stays swappable.

// AnnotationStore defines highlight and analysis operations.
// Implemented by annotations.Repository.
type AnnotationStore interface {
	SaveHighlight(highlight *entities.Highlight) (uint, error)
	GetHighlightByID(id uint) (*entities.Highlight, error)
	GetHighlightsForChapter(bookID string, chapterIndex int) ([]entities.Highlight, error)
	GetAllHighlightsForBook(bookID string) ([]entities.Highlight, error)
	SaveAnalysis(analysis *entities.Analysis) (uint, error)
	GetAnalysesForHighlight(highlightID uint) ([]entities.Analysis, error)
	UpdateAnalysisResponse(id uint, response string) error
	DeleteAnalysis(id uint) error
	GetBookAnnotations(bookID string) ([]entities.Highlight, error)
	FlattenForBook(bookID string) ([]annotations.AnnotationRow, error)
	GetStatsForBook(bookID string) (annotations.Stats, error)
}

// ProgressStore defines reading progress operations.
// Implemented by progress.Repository.
type ProgressStore interface {
	Save(bookID string, chapterIndex, scrollPosition int) error
	Get(bookID string) (*entities.Progress, error)
}
