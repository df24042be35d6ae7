package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ProgressRequest is the payload for saving reading progress. Positions are
// stored verbatim; a stale chapter index is the reader page's problem, not
// the tracker's.
type ProgressRequest struct {
	BookID         string `json:"book_id" binding:"required"`
	ChapterIndex   *int   `json:"chapter_index" binding:"required"`
	ScrollPosition int    `json:"scroll_position"`
}

// ProgressController handles reading progress persistence.
type ProgressController struct {
	store ProgressStore
}

func NewProgressController(store ProgressStore) *ProgressController {
	return &ProgressController{store: store}
}

// SaveProgress handles POST /api/progress.
func (pc *ProgressController) SaveProgress(c *gin.Context) {
	var req ProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid progress payload: "+err.Error())
		return
	}

	if err := pc.store.Save(req.BookID, *req.ChapterIndex, req.ScrollPosition); err != nil {
		respondInternalError(c, err, "save progress")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// GetProgress handles GET /api/progress/:book_id.
func (pc *ProgressController) GetProgress(c *gin.Context) {
	bookID := c.Param("book_id")

	progress, err := pc.store.Get(bookID)
	if err != nil {
		respondInternalError(c, err, "get progress")
		return
	}
	if progress == nil {
		respondNotFound(c, "progress")
		return
	}

	c.JSON(http.StatusOK, progress)
}
