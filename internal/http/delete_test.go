package http

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lectern-app/lectern/internal/database"
	"github.com/lectern-app/lectern/internal/database/annotations"
	"github.com/lectern-app/lectern/internal/entities"
	"github.com/lectern-app/lectern/internal/library"
)

func setupDeleteTest(t *testing.T) (*library.Library, *annotations.Repository, string, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_http_delete_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	booksDir := t.TempDir()
	store, err := library.NewStore(library.NewDiskLoader(booksDir), 10)
	require.NoError(t, err)
	lib := library.NewLibrary(booksDir, store)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return lib, annotations.NewRepository(db.DB), booksDir, cleanup
}

func deleteRouter(controller *DeleteController) *gin.Engine {
	router := gin.New()
	router.DELETE("/delete/:book_id", controller.DeleteBook)
	return router
}

func TestDeleteController_DeleteBook(t *testing.T) {
	t.Run("removes the folder but keeps annotations", func(t *testing.T) {
		lib, repo, booksDir, cleanup := setupDeleteTest(t)
		defer cleanup()
		writeTestBook(t, booksDir, "dune", sampleSpineBook())

		highlightID, err := repo.SaveHighlight(&entities.Highlight{
			BookID: "dune", SelectedText: "Spice",
		})
		require.NoError(t, err)

		router := deleteRouter(NewDeleteController(lib))

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("DELETE", "/delete/dune", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "preserved")

		_, err = os.Stat(filepath.Join(booksDir, "dune"))
		assert.True(t, os.IsNotExist(err))

		// Highlights survive the folder
		_, err = repo.GetHighlightByID(highlightID)
		assert.NoError(t, err)
	})

	t.Run("evicts the deleted book from the cache", func(t *testing.T) {
		lib, _, booksDir, cleanup := setupDeleteTest(t)
		defer cleanup()
		writeTestBook(t, booksDir, "dune", sampleSpineBook())

		// Warm the cache
		_, err := lib.Store().Get("dune")
		require.NoError(t, err)

		router := deleteRouter(NewDeleteController(lib))

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("DELETE", "/delete/dune", nil)
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		_, err = lib.Store().Get("dune")
		assert.ErrorIs(t, err, library.ErrBookNotFound)
	})

	t.Run("returns 404 for a missing book", func(t *testing.T) {
		lib, _, _, cleanup := setupDeleteTest(t)
		defer cleanup()

		router := deleteRouter(NewDeleteController(lib))

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("DELETE", "/delete/ghost", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("rejects a traversal book id", func(t *testing.T) {
		lib, _, _, cleanup := setupDeleteTest(t)
		defer cleanup()

		router := deleteRouter(NewDeleteController(lib))

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("DELETE", "/delete/..dune", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
