package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lectern-app/lectern/internal/library"
)

// BookListing is one book in the library listing, for both the HTML view
// and the JSON API.
type BookListing struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	Chapters        int    `json:"chapters"`
	FolderSuffix    string `json:"folder_suffix,omitempty"`
	Cover           string `json:"cover,omitempty"`
	Progress        *int   `json:"progress,omitempty"`
	ProgressPercent int    `json:"progress_percent"`
}

// LibraryController serves the book listing.
type LibraryController struct {
	library  *library.Library
	progress ProgressStore
}

func NewLibraryController(lib *library.Library, progress ProgressStore) *LibraryController {
	return &LibraryController{library: lib, progress: progress}
}

func (lc *LibraryController) listBooks() ([]BookListing, error) {
	entries, err := lc.library.ListBooks()
	if err != nil {
		return nil, err
	}

	listings := make([]BookListing, 0, len(entries))
	for _, entry := range entries {
		listing := BookListing{
			ID:           entry.ID,
			Title:        entry.Book.Metadata.Title,
			Author:       strings.Join(entry.Book.Metadata.Authors, ", "),
			Chapters:     len(entry.Book.Spine),
			FolderSuffix: entry.CopySuffix,
			Cover:        entry.Book.CoverImage,
		}

		progress, err := lc.progress.Get(entry.ID)
		if err != nil {
			return nil, err
		}
		if progress != nil && listing.Chapters > 0 {
			chapter := progress.ChapterIndex
			listing.Progress = &chapter
			listing.ProgressPercent = (chapter + 1) * 100 / listing.Chapters
		}

		listings = append(listings, listing)
	}
	return listings, nil
}

// LibraryPage renders the HTML listing of all processed books.
func (lc *LibraryController) LibraryPage(c *gin.Context) {
	books, err := lc.listBooks()
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}

	c.HTML(http.StatusOK, "library.html", gin.H{
		"books": books,
	})
}

// GetAllBooks returns the library listing as JSON.
func (lc *LibraryController) GetAllBooks(c *gin.Context) {
	books, err := lc.listBooks()
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}

	c.JSON(http.StatusOK, gin.H{"books": books})
}
