package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lectern-app/lectern/internal/audit"
	"github.com/lectern-app/lectern/internal/entities"
)

// HighlightRequest is the payload for creating a highlight.
type HighlightRequest struct {
	BookID        string `json:"book_id" binding:"required"`
	ChapterIndex  *int   `json:"chapter_index" binding:"required"`
	SelectedText  string `json:"selected_text" binding:"required"`
	ContextBefore string `json:"context_before"`
	ContextAfter  string `json:"context_after"`
}

// HighlightsController handles highlight creation and retrieval.
type HighlightsController struct {
	store   AnnotationStore
	auditor *audit.Auditor
}

func NewHighlightsController(store AnnotationStore, auditor *audit.Auditor) *HighlightsController {
	return &HighlightsController{store: store, auditor: auditor}
}

// CreateHighlight handles POST /api/highlight.
func (hc *HighlightsController) CreateHighlight(c *gin.Context) {
	var req HighlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid highlight payload: "+err.Error())
		return
	}

	if hc.auditor != nil {
		if _, err := hc.auditor.SaveJSON(req); err != nil {
			// Auditing is best effort; the highlight is still saved
			logAuditFailure("highlight", err)
		}
	}

	highlight := &entities.Highlight{
		BookID:        req.BookID,
		ChapterIndex:  *req.ChapterIndex,
		SelectedText:  req.SelectedText,
		ContextBefore: req.ContextBefore,
		ContextAfter:  req.ContextAfter,
	}

	id, err := hc.store.SaveHighlight(highlight)
	if err != nil {
		respondInternalError(c, err, "save highlight")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"highlight_id": id,
		"status":       "success",
	})
}

// GetChapterHighlights handles GET /api/highlights/:book_id/:chapter_index.
// Each returned highlight carries its analyses.
func (hc *HighlightsController) GetChapterHighlights(c *gin.Context) {
	bookID := c.Param("book_id")
	chapterIndex, err := strconv.Atoi(c.Param("chapter_index"))
	if err != nil {
		respondBadRequest(c, "invalid chapter_index")
		return
	}

	highlights, err := hc.store.GetHighlightsForChapter(bookID, chapterIndex)
	if err != nil {
		respondInternalError(c, err, "get chapter highlights")
		return
	}

	for i := range highlights {
		analyses, err := hc.store.GetAnalysesForHighlight(highlights[i].ID)
		if err != nil {
			respondInternalError(c, err, "get highlight analyses")
			return
		}
		highlights[i].Analyses = analyses
	}

	c.JSON(http.StatusOK, gin.H{"highlights": highlights})
}

// HighlightsPage handles GET /highlights/:book_id, the book-wide review
// view with one row per highlight+analysis pair and per-type stats.
func (hc *HighlightsController) HighlightsPage(c *gin.Context) {
	bookID := c.Param("book_id")

	rows, err := hc.store.FlattenForBook(bookID)
	if err != nil {
		respondInternalError(c, err, "flatten highlights")
		return
	}

	stats, err := hc.store.GetStatsForBook(bookID)
	if err != nil {
		respondInternalError(c, err, "highlight stats")
		return
	}

	c.HTML(http.StatusOK, "highlights.html", gin.H{
		"bookID":     bookID,
		"bookTitle":  titleFromBookID(bookID),
		"highlights": rows,
		"stats":      stats,
	})
}

// titleFromBookID derives a display title from a folder name for books whose
// artifact is gone but whose annotations remain.
func titleFromBookID(bookID string) string {
	title := strings.TrimSuffix(bookID, "_data")
	return strings.ReplaceAll(title, "_", " ")
}
