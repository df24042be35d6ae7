// Package library manages compiled book artifacts: loading them from disk,
// caching parsed books in memory, and resolving chapter references.
//
// A book artifact is the serialized output of the external EPUB compiler,
// stored as <booksDir>/<bookID>/book.json next to the book's images. The
// artifact is the source of truth; parsed books are a pure cache.
package library

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ArtifactName is the artifact filename inside each book folder.
const ArtifactName = "book.json"

// ErrBookNotFound is returned when a book id has no artifact or its artifact
// cannot be decoded. Both are reported as a missing resource, never as a
// fatal condition.
var ErrBookNotFound = errors.New("book not found")

// ErrInvalidBookID rejects book ids that could escape the books directory.
var ErrInvalidBookID = errors.New("invalid book id")

// Book is a parsed EPUB as produced by the external compiler.
type Book struct {
	Metadata   BookMetadata `json:"metadata"`
	Spine      []SpineItem  `json:"spine"`
	CoverImage string       `json:"cover_image,omitempty"`
}

// BookMetadata carries the descriptive fields of a book.
type BookMetadata struct {
	Title   string   `json:"title"`
	Authors []string `json:"authors"`
}

// SpineItem is one chapter in canonical reading order. The index into the
// spine is the canonical chapter reference.
type SpineItem struct {
	Href    string `json:"href"`
	Title   string `json:"title,omitempty"`
	Content string `json:"content"`
}

// ArtifactLoader loads a book artifact by id. Implemented by DiskLoader in
// production; tests substitute a counting loader.
type ArtifactLoader interface {
	Load(bookID string) (*Book, error)
}

// DiskLoader reads book artifacts from a books directory.
type DiskLoader struct {
	booksDir string
}

// NewDiskLoader creates a loader rooted at booksDir.
func NewDiskLoader(booksDir string) *DiskLoader {
	return &DiskLoader{booksDir: booksDir}
}

// Load reads and decodes the artifact for a book. A missing file, an
// undecodable artifact or an empty spine all surface as ErrBookNotFound.
func (l *DiskLoader) Load(bookID string) (*Book, error) {
	if err := ValidateBookID(bookID); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(l.booksDir, bookID, ArtifactName))
	if os.IsNotExist(err) {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read artifact for %s: %w", bookID, err)
	}

	var book Book
	if err := json.Unmarshal(data, &book); err != nil {
		return nil, fmt.Errorf("%w: corrupt artifact for %s: %v", ErrBookNotFound, bookID, err)
	}
	if len(book.Spine) == 0 {
		return nil, fmt.Errorf("%w: artifact for %s has an empty spine", ErrBookNotFound, bookID)
	}

	return &book, nil
}

// ValidateBookID rejects ids containing path separators or parent
// references. Book ids double as folder names under the books directory.
func ValidateBookID(bookID string) error {
	if bookID == "" ||
		strings.Contains(bookID, "..") ||
		strings.ContainsAny(bookID, `/\`) {
		return ErrInvalidBookID
	}
	return nil
}
