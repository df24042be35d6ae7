// Package progress provides database operations for per-book reading
// position tracking.
package progress

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/lectern-app/lectern/internal/entities"
)

// Repository handles reading progress database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new progress repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Save upserts the single progress row for a book. Chapter index and scroll
// position are stored verbatim; the repository has no book context to
// validate them against.
func (r *Repository) Save(bookID string, chapterIndex, scrollPosition int) error {
	var existing entities.Progress
	result := r.db.Where("book_id = ?", bookID).First(&existing)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return r.db.Create(&entities.Progress{
			BookID:         bookID,
			ChapterIndex:   chapterIndex,
			ScrollPosition: scrollPosition,
			UpdatedAt:      time.Now(),
		}).Error
	}
	if result.Error != nil {
		return result.Error
	}

	existing.ChapterIndex = chapterIndex
	existing.ScrollPosition = scrollPosition
	existing.UpdatedAt = time.Now()
	return r.db.Save(&existing).Error
}

// Get returns the stored progress for a book, or nil when the book has never
// been visited.
func (r *Repository) Get(bookID string) (*entities.Progress, error) {
	var p entities.Progress
	err := r.db.Where("book_id = ?", bookID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
