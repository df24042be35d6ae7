package http

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lectern-app/lectern/internal/ai"
	"github.com/lectern-app/lectern/internal/audit"
	"github.com/lectern-app/lectern/internal/database/annotations"
	"github.com/lectern-app/lectern/internal/entities"
)

// Analyzer runs AI analyses. Implemented by ai.Service.
type Analyzer interface {
	Analyze(ctx context.Context, analysisType entities.AnalysisType, text, textContext string) (prompt, response string, err error)
	IsConfigured() bool
}

// AnalyzeRequest is the payload for running an analysis without saving it.
type AnalyzeRequest struct {
	HighlightID  uint   `json:"highlight_id"`
	AnalysisType string `json:"analysis_type" binding:"required"`
	SelectedText string `json:"selected_text" binding:"required"`
	Context      string `json:"context"`
}

// SaveAnalysisRequest is the payload for persisting an analysis.
type SaveAnalysisRequest struct {
	HighlightID  uint   `json:"highlight_id" binding:"required"`
	AnalysisType string `json:"analysis_type" binding:"required"`
	Prompt       string `json:"prompt"`
	Response     string `json:"response" binding:"required"`
}

// UpdateAnalysisRequest carries the replacement response text for an
// existing analysis.
type UpdateAnalysisRequest struct {
	Response string `json:"response"`
}

// AnalysesController handles AI analysis generation and persistence.
type AnalysesController struct {
	store    AnnotationStore
	analyzer Analyzer
	auditor  *audit.Auditor
}

func NewAnalysesController(store AnnotationStore, analyzer Analyzer, auditor *audit.Auditor) *AnalysesController {
	return &AnalysesController{store: store, analyzer: analyzer, auditor: auditor}
}

// Analyze handles POST /api/ai/analyze. Generation and persistence are
// separate so the client can discard an unwanted response without a delete.
func (ac *AnalysesController) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid analyze payload: "+err.Error())
		return
	}

	if ac.analyzer == nil || !ac.analyzer.IsConfigured() {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "AI service not configured. Please set the API key.",
		})
		return
	}

	_, response, err := ac.analyzer.Analyze(
		c.Request.Context(),
		entities.AnalysisType(req.AnalysisType),
		req.SelectedText,
		req.Context,
	)
	if errors.Is(err, ai.ErrUnsupportedType) {
		respondBadRequest(c, "invalid analysis type")
		return
	}
	if err != nil {
		respondInternalError(c, err, "run analysis")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"response": response,
		"status":   "success",
	})
}

// Save handles POST /api/ai/save.
func (ac *AnalysesController) Save(c *gin.Context) {
	var req SaveAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid analysis payload: "+err.Error())
		return
	}

	if ac.auditor != nil {
		if _, err := ac.auditor.SaveJSON(req); err != nil {
			logAuditFailure("analysis", err)
		}
	}

	// Stored as-is; stats bucket unrecognised types under "other"
	if !entities.AnalysisType(req.AnalysisType).Known() {
		log.Printf("Storing analysis with unrecognised type %q", req.AnalysisType)
	}

	analysis := &entities.Analysis{
		HighlightID:  req.HighlightID,
		AnalysisType: entities.AnalysisType(req.AnalysisType),
		Prompt:       req.Prompt,
		Response:     req.Response,
	}

	id, err := ac.store.SaveAnalysis(analysis)
	if errors.Is(err, annotations.ErrHighlightNotFound) {
		respondNotFound(c, "highlight")
		return
	}
	if err != nil {
		respondInternalError(c, err, "save analysis")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"analysis_id": id,
		"status":      "success",
	})
}

// Update handles PUT /api/ai/update/:id, used for editing comment responses.
func (ac *AnalysesController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid update payload: "+err.Error())
		return
	}

	err := ac.store.UpdateAnalysisResponse(id, req.Response)
	if errors.Is(err, annotations.ErrAnalysisNotFound) {
		respondNotFound(c, "analysis")
		return
	}
	if err != nil {
		respondInternalError(c, err, "update analysis")
		return
	}

	respondSuccess(c, "analysis updated")
}

// Delete handles DELETE /api/ai/delete/:id. When the deleted analysis was
// the last one on its highlight, the highlight goes with it.
func (ac *AnalysesController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err := ac.store.DeleteAnalysis(id)
	if errors.Is(err, annotations.ErrAnalysisNotFound) {
		respondNotFound(c, "analysis")
		return
	}
	if err != nil {
		respondInternalError(c, err, "delete analysis")
		return
	}

	respondSuccess(c, "analysis deleted")
}
