package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lectern-app/lectern/internal/ai"
	"github.com/lectern-app/lectern/internal/database"
	"github.com/lectern-app/lectern/internal/database/annotations"
	"github.com/lectern-app/lectern/internal/entities"
)

// fakeAnalyzer returns canned responses and records what it was asked.
type fakeAnalyzer struct {
	configured bool
	lastType   entities.AnalysisType
	lastText   string
}

func (f *fakeAnalyzer) Analyze(_ context.Context, analysisType entities.AnalysisType, text, _ string) (string, string, error) {
	f.lastType = analysisType
	f.lastText = text
	switch analysisType {
	case entities.AnalysisTypeFactCheck, entities.AnalysisTypeDiscussion:
		return "prompt for " + text, "analysis of " + text, nil
	}
	return "", "", fmt.Errorf("%w: %s", ai.ErrUnsupportedType, analysisType)
}

func (f *fakeAnalyzer) IsConfigured() bool {
	return f.configured
}

func setupAnalysesTest(t *testing.T) (*annotations.Repository, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_http_analyses_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return annotations.NewRepository(db.DB), cleanup
}

func analysesRouter(controller *AnalysesController) *gin.Engine {
	router := gin.New()
	router.POST("/api/ai/analyze", controller.Analyze)
	router.POST("/api/ai/save", controller.Save)
	router.PUT("/api/ai/update/:id", controller.Update)
	router.DELETE("/api/ai/delete/:id", controller.Delete)
	return router
}

func TestAnalysesController_Analyze(t *testing.T) {
	t.Run("returns the analyzer response", func(t *testing.T) {
		repo, cleanup := setupAnalysesTest(t)
		defer cleanup()

		analyzer := &fakeAnalyzer{configured: true}
		router := analysesRouter(NewAnalysesController(repo, analyzer, nil))

		body := `{"analysis_type": "fact_check", "selected_text": "The Earth is round", "context": "geography"}`

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/ai/analyze", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "analysis of The Earth is round", response["response"])
		assert.Equal(t, entities.AnalysisTypeFactCheck, analyzer.lastType)
	})

	t.Run("rejects an unknown analysis type", func(t *testing.T) {
		repo, cleanup := setupAnalysesTest(t)
		defer cleanup()

		router := analysesRouter(NewAnalysesController(repo, &fakeAnalyzer{configured: true}, nil))

		body := `{"analysis_type": "sentiment", "selected_text": "whatever"}`

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/ai/analyze", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid analysis type")
	})

	t.Run("reports an unconfigured analyzer", func(t *testing.T) {
		repo, cleanup := setupAnalysesTest(t)
		defer cleanup()

		router := analysesRouter(NewAnalysesController(repo, &fakeAnalyzer{configured: false}, nil))

		body := `{"analysis_type": "fact_check", "selected_text": "x"}`

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/ai/analyze", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "not configured")
	})
}

func TestAnalysesController_Save(t *testing.T) {
	t.Run("persists an analysis for an existing highlight", func(t *testing.T) {
		repo, cleanup := setupAnalysesTest(t)
		defer cleanup()

		highlightID, err := repo.SaveHighlight(&entities.Highlight{
			BookID:       "dune",
			ChapterIndex: 0,
			SelectedText: "Spice",
		})
		require.NoError(t, err)

		router := analysesRouter(NewAnalysesController(repo, &fakeAnalyzer{}, nil))

		body := fmt.Sprintf(
			`{"highlight_id": %d, "analysis_type": "comment", "response": "my note"}`,
			highlightID,
		)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/ai/save", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		analyses, err := repo.GetAnalysesForHighlight(highlightID)
		require.NoError(t, err)
		require.Len(t, analyses, 1)
		assert.Equal(t, entities.AnalysisTypeComment, analyses[0].AnalysisType)
		assert.Equal(t, "my note", analyses[0].Response)
	})

	t.Run("returns 404 when the highlight is gone", func(t *testing.T) {
		repo, cleanup := setupAnalysesTest(t)
		defer cleanup()

		router := analysesRouter(NewAnalysesController(repo, &fakeAnalyzer{}, nil))

		body := `{"highlight_id": 9999, "analysis_type": "comment", "response": "orphan"}`

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/ai/save", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAnalysesController_Update(t *testing.T) {
	t.Run("replaces the response text", func(t *testing.T) {
		repo, cleanup := setupAnalysesTest(t)
		defer cleanup()

		highlightID, err := repo.SaveHighlight(&entities.Highlight{
			BookID: "dune", SelectedText: "Spice",
		})
		require.NoError(t, err)
		analysisID, err := repo.SaveAnalysis(&entities.Analysis{
			HighlightID:  highlightID,
			AnalysisType: entities.AnalysisTypeComment,
			Response:     "draft",
		})
		require.NoError(t, err)

		router := analysesRouter(NewAnalysesController(repo, &fakeAnalyzer{}, nil))

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PUT",
			fmt.Sprintf("/api/ai/update/%d", analysisID),
			strings.NewReader(`{"response": "final"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		analyses, err := repo.GetAnalysesForHighlight(highlightID)
		require.NoError(t, err)
		require.Len(t, analyses, 1)
		assert.Equal(t, "final", analyses[0].Response)
	})

	t.Run("returns 404 for a missing analysis", func(t *testing.T) {
		repo, cleanup := setupAnalysesTest(t)
		defer cleanup()

		router := analysesRouter(NewAnalysesController(repo, &fakeAnalyzer{}, nil))

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PUT", "/api/ai/update/424242",
			strings.NewReader(`{"response": "x"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("rejects a non-numeric id", func(t *testing.T) {
		repo, cleanup := setupAnalysesTest(t)
		defer cleanup()

		router := analysesRouter(NewAnalysesController(repo, &fakeAnalyzer{}, nil))

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PUT", "/api/ai/update/abc",
			strings.NewReader(`{"response": "x"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAnalysesController_Delete(t *testing.T) {
	t.Run("removes the highlight with its last analysis", func(t *testing.T) {
		repo, cleanup := setupAnalysesTest(t)
		defer cleanup()

		highlightID, err := repo.SaveHighlight(&entities.Highlight{
			BookID: "dune", SelectedText: "Spice",
		})
		require.NoError(t, err)
		analysisID, err := repo.SaveAnalysis(&entities.Analysis{
			HighlightID:  highlightID,
			AnalysisType: entities.AnalysisTypeFactCheck,
			Response:     "checked",
		})
		require.NoError(t, err)

		router := analysesRouter(NewAnalysesController(repo, &fakeAnalyzer{}, nil))

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("DELETE", fmt.Sprintf("/api/ai/delete/%d", analysisID), nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		_, err = repo.GetHighlightByID(highlightID)
		assert.ErrorIs(t, err, annotations.ErrHighlightNotFound)
	})

	t.Run("keeps the highlight while other analyses remain", func(t *testing.T) {
		repo, cleanup := setupAnalysesTest(t)
		defer cleanup()

		highlightID, err := repo.SaveHighlight(&entities.Highlight{
			BookID: "dune", SelectedText: "Spice",
		})
		require.NoError(t, err)
		first, err := repo.SaveAnalysis(&entities.Analysis{
			HighlightID: highlightID, AnalysisType: entities.AnalysisTypeFactCheck, Response: "a",
		})
		require.NoError(t, err)
		_, err = repo.SaveAnalysis(&entities.Analysis{
			HighlightID: highlightID, AnalysisType: entities.AnalysisTypeComment, Response: "b",
		})
		require.NoError(t, err)

		router := analysesRouter(NewAnalysesController(repo, &fakeAnalyzer{}, nil))

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("DELETE", fmt.Sprintf("/api/ai/delete/%d", first), nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		_, err = repo.GetHighlightByID(highlightID)
		assert.NoError(t, err)
	})

	t.Run("returns 404 for a missing analysis", func(t *testing.T) {
		repo, cleanup := setupAnalysesTest(t)
		defer cleanup()

		router := analysesRouter(NewAnalysesController(repo, &fakeAnalyzer{}, nil))

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("DELETE", "/api/ai/delete/424242", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
