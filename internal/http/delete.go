package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lectern-app/lectern/internal/library"
)

// DeleteController handles book removal. Only the on-disk folder goes;
// highlights, analyses and progress rows stay behind so re-uploading the
// same book restores the reader's annotations.
type DeleteController struct {
	library *library.Library
}

func NewDeleteController(lib *library.Library) *DeleteController {
	return &DeleteController{library: lib}
}

// DeleteBook handles DELETE /delete/:book_id.
func (dc *DeleteController) DeleteBook(c *gin.Context) {
	bookID := c.Param("book_id")

	err := dc.library.DeleteBook(bookID)
	if errors.Is(err, library.ErrInvalidBookID) {
		respondBadRequest(c, "invalid book id")
		return
	}
	if errors.Is(err, library.ErrBookNotFound) {
		respondNotFound(c, "book")
		return
	}
	if err != nil {
		respondInternalError(c, err, "delete book")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Book deleted. Your highlights and analyses are preserved in the database.",
		"status":  "success",
	})
}
