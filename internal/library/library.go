package library

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// BookEntry is one book discovered in the books directory.
type BookEntry struct {
	ID         string
	Book       *Book
	CopySuffix string // "Copy 2" for duplicate folders named <name>_2
}

// Library scans the books directory and owns book deletion. Reads go through
// the Store so listing warms the cache.
type Library struct {
	booksDir string
	store    *Store
}

// NewLibrary creates a library over booksDir backed by the given store.
func NewLibrary(booksDir string, store *Store) *Library {
	return &Library{booksDir: booksDir, store: store}
}

// Store returns the underlying book store.
func (l *Library) Store() *Store {
	return l.store
}

// BooksDir returns the root directory holding book folders.
func (l *Library) BooksDir() string {
	return l.booksDir
}

// ImagePath returns the on-disk path for a book image after validating both
// path components against traversal.
func (l *Library) ImagePath(bookID, imageName string) (string, error) {
	if err := ValidateBookID(bookID); err != nil {
		return "", err
	}
	if imageName == "" ||
		strings.Contains(imageName, "..") ||
		strings.ContainsAny(imageName, `/\`) {
		return "", ErrInvalidBookID
	}
	return filepath.Join(l.booksDir, bookID, "images", imageName), nil
}

// ListBooks returns every folder under the books directory that holds a
// loadable artifact. Folders with broken artifacts are skipped with a log
// line rather than failing the whole listing.
func (l *Library) ListBooks() ([]BookEntry, error) {
	if err := os.MkdirAll(l.booksDir, 0755); err != nil {
		return nil, fmt.Errorf("ensure books dir: %w", err)
	}

	dirEntries, err := os.ReadDir(l.booksDir)
	if err != nil {
		return nil, fmt.Errorf("scan books dir: %w", err)
	}

	var entries []BookEntry
	for _, dirEntry := range dirEntries {
		if !dirEntry.IsDir() {
			continue
		}
		id := dirEntry.Name()
		if _, err := os.Stat(filepath.Join(l.booksDir, id, ArtifactName)); err != nil {
			continue
		}

		book, err := l.store.Get(id)
		if err != nil {
			log.Printf("Skipping unloadable book %s: %v", id, err)
			continue
		}

		entries = append(entries, BookEntry{
			ID:         id,
			Book:       book,
			CopySuffix: copySuffix(id),
		})
	}
	return entries, nil
}

// DeleteBook removes a book folder from disk and evicts its cache entry.
// Highlights, analyses and progress rows for the id are left untouched.
func (l *Library) DeleteBook(bookID string) error {
	if err := ValidateBookID(bookID); err != nil {
		return err
	}

	bookPath := filepath.Join(l.booksDir, bookID)
	if _, err := os.Stat(bookPath); os.IsNotExist(err) {
		return ErrBookNotFound
	}

	if err := os.RemoveAll(bookPath); err != nil {
		return fmt.Errorf("delete book folder: %w", err)
	}

	l.store.Invalidate(bookID)
	return nil
}

// copySuffix turns a trailing _N folder suffix into a "Copy N" label, the
// convention the compiler uses when the same book is uploaded twice.
func copySuffix(bookID string) string {
	idx := strings.LastIndex(bookID, "_")
	if idx < 0 || idx == len(bookID)-1 {
		return ""
	}
	n, err := strconv.Atoi(bookID[idx+1:])
	if err != nil || n < 1 || n > 99 {
		return ""
	}
	return fmt.Sprintf("Copy %d", n)
}
