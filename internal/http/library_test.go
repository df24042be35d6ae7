package http

import (
	"encoding/json"
	"html/template"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lectern-app/lectern/internal/database"
	"github.com/lectern-app/lectern/internal/database/progress"
	"github.com/lectern-app/lectern/internal/library"
)

func setupLibraryTest(t *testing.T) (*library.Library, *progress.Repository, string, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_http_library_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
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
	return lib, progress.NewRepository(db.DB), booksDir, cleanup
}

func TestLibraryController_GetAllBooks(t *testing.T) {
	t.Run("returns an empty listing for an empty library", func(t *testing.T) {
		lib, progressRepo, _, cleanup := setupLibraryTest(t)
		defer cleanup()

		controller := NewLibraryController(lib, progressRepo)

		router := gin.New()
		router.GET("/api/books", controller.GetAllBooks)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/books", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Books []BookListing `json:"books"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Empty(t, response.Books)
	})

	t.Run("lists books with metadata and progress", func(t *testing.T) {
		lib, progressRepo, booksDir, cleanup := setupLibraryTest(t)
		defer cleanup()

		writeTestBook(t, booksDir, "dune", sampleSpineBook())
		writeTestBook(t, booksDir, "dune_2", sampleSpineBook())

		// Read up to chapter 1 of 3: floor(2/3*100) = 66
		require.NoError(t, progressRepo.Save("dune", 1, 0))

		controller := NewLibraryController(lib, progressRepo)

		router := gin.New()
		router.GET("/api/books", controller.GetAllBooks)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/books", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Books []BookListing `json:"books"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Len(t, response.Books, 2)

		byID := make(map[string]BookListing)
		for _, b := range response.Books {
			byID[b.ID] = b
		}

		first := byID["dune"]
		assert.Equal(t, "Dune", first.Title)
		assert.Equal(t, "Frank Herbert", first.Author)
		assert.Equal(t, 3, first.Chapters)
		assert.Empty(t, first.FolderSuffix)
		require.NotNil(t, first.Progress)
		assert.Equal(t, 1, *first.Progress)
		assert.Equal(t, 66, first.ProgressPercent)

		second := byID["dune_2"]
		assert.Equal(t, "Copy 2", second.FolderSuffix)
		assert.Nil(t, second.Progress)
		assert.Equal(t, 0, second.ProgressPercent)
	})
}

func TestLibraryController_LibraryPage(t *testing.T) {
	t.Run("renders the book listing", func(t *testing.T) {
		lib, progressRepo, booksDir, cleanup := setupLibraryTest(t)
		defer cleanup()
		writeTestBook(t, booksDir, "dune", sampleSpineBook())

		controller := NewLibraryController(lib, progressRepo)

		router := gin.New()
		tmpl := template.Must(template.New("library.html").Parse(
			`{{ range .books }}{{ .ID }}:{{ .Title }};{{ end }}`))
		router.SetHTMLTemplate(tmpl)
		router.GET("/", controller.LibraryPage)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "dune:Dune;")
	})
}
