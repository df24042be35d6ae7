package http

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lectern-app/lectern/internal/library"
)

// ReaderController serves the reading interface: chapter pages, the
// last-position redirect and per-book images. All three live under
// /read/:book_id and are dispatched from a single catch-all route because
// chapter references can themselves contain slashes (e.g. OEBPS/part8.html).
type ReaderController struct {
	library  *library.Library
	progress ProgressStore
}

func NewReaderController(lib *library.Library, progress ProgressStore) *ReaderController {
	return &ReaderController{library: lib, progress: progress}
}

// Read handles GET /read/:book_id/*ref.
func (rc *ReaderController) Read(c *gin.Context) {
	bookID := c.Param("book_id")
	ref := strings.TrimPrefix(c.Param("ref"), "/")

	switch {
	case ref == "":
		rc.redirectToLastPosition(c, bookID)
	case strings.HasPrefix(ref, "images/"):
		rc.serveImage(c, bookID, strings.TrimPrefix(ref, "images/"))
	default:
		rc.readChapter(c, bookID, ref)
	}
}

// redirectToLastPosition sends the reader to the last read chapter, or
// chapter 0 for a book opened for the first time.
func (rc *ReaderController) redirectToLastPosition(c *gin.Context, bookID string) {
	chapterIndex := 0
	progress, err := rc.progress.Get(bookID)
	if err != nil {
		respondInternalError(c, err, "load progress")
		return
	}
	if progress != nil {
		chapterIndex = progress.ChapterIndex
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/read/%s/%d", bookID, chapterIndex))
}

// serveImage serves one image belonging to a book. Chapter HTML references
// images relatively, so the browser resolves <img src="images/pic.jpg"> to
// /read/:book_id/images/pic.jpg.
func (rc *ReaderController) serveImage(c *gin.Context, bookID, imageName string) {
	imagePath, err := rc.library.ImagePath(bookID, imageName)
	if err != nil {
		respondBadRequest(c, "invalid image path")
		return
	}

	if _, err := os.Stat(imagePath); err != nil {
		respondNotFound(c, "image")
		return
	}

	c.File(imagePath)
}

// readChapter renders the reader page for one chapter, referenced either by
// spine index or by filename.
func (rc *ReaderController) readChapter(c *gin.Context, bookID, ref string) {
	book, err := rc.library.Store().Get(bookID)
	if errors.Is(err, library.ErrBookNotFound) || errors.Is(err, library.ErrInvalidBookID) {
		respondNotFound(c, "book")
		return
	}
	if err != nil {
		respondInternalError(c, err, "load book")
		return
	}

	chapterIndex, err := library.ResolveChapter(book, library.ParseChapterRef(ref))
	if err != nil {
		respondNotFound(c, "chapter")
		return
	}

	chapter := book.Spine[chapterIndex]

	prevIdx := -1
	if chapterIndex > 0 {
		prevIdx = chapterIndex - 1
	}
	nextIdx := -1
	if chapterIndex < len(book.Spine)-1 {
		nextIdx = chapterIndex + 1
	}

	// Restore the scroll offset only when re-entering the recorded chapter
	savedScroll := 0
	progress, err := rc.progress.Get(bookID)
	if err != nil {
		respondInternalError(c, err, "load progress")
		return
	}
	if progress != nil && progress.ChapterIndex == chapterIndex {
		savedScroll = progress.ScrollPosition
	}

	c.HTML(http.StatusOK, "reader.html", gin.H{
		"book":          book,
		"bookID":        bookID,
		"chapter":       chapter,
		"chapterIndex":  chapterIndex,
		"totalChapters": len(book.Spine),
		"prevIdx":       prevIdx,
		"nextIdx":       nextIdx,
		"savedScroll":   savedScroll,
	})
}
