package http

import (
	"html/template"

	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Define custom template functions
	funcMap := template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"safeHTML": func(s string) template.HTML {
			return template.HTML(s)
		},
	}

	// Load HTML templates with custom functions
	tmpl := template.Must(template.New("").Funcs(funcMap).ParseGlob(cfg.TemplatesPath + "/*.html"))
	router.SetHTMLTemplate(tmpl)

	// Serve static files
	if cfg.StaticPath != "" {
		router.Static("/static", cfg.StaticPath)
	}

	// Create controllers with appropriate interfaces
	health := NewHealthController(cfg.Database, cfg.Version)
	libraryController := NewLibraryController(cfg.Library, cfg.Progress)
	readerController := NewReaderController(cfg.Library, cfg.Progress)
	highlightsController := NewHighlightsController(cfg.Annotations, cfg.Auditor)
	analysesController := NewAnalysesController(cfg.Annotations, cfg.Analyzer, cfg.Auditor)
	progressController := NewProgressController(cfg.Progress)
	deleteController := NewDeleteController(cfg.Library)
	uploadController := NewUploadController(cfg.Compiler, cfg.TaskClient, cfg.UploadDir)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Library views
	router.GET("/", libraryController.LibraryPage)
	router.GET("/api/books", libraryController.GetAllBooks)

	// Reader. One catch-all handles the bare-book redirect, image serving
	// and chapter pages: chapter filename references may contain slashes,
	// so static siblings under /read/:book_id cannot be registered. A bare
	// /read/:book_id reaches the catch-all through gin's trailing-slash
	// redirect and lands on the last-position redirect.
	router.GET("/read/:book_id/*ref", readerController.Read)

	// Highlight endpoints
	router.POST("/api/highlight", highlightsController.CreateHighlight)
	router.GET("/api/highlights/:book_id/:chapter_index", highlightsController.GetChapterHighlights)
	router.GET("/highlights/:book_id", highlightsController.HighlightsPage)

	// AI analysis endpoints
	router.POST("/api/ai/analyze", analysesController.Analyze)
	router.POST("/api/ai/save", analysesController.Save)
	router.PUT("/api/ai/update/:id", analysesController.Update)
	router.DELETE("/api/ai/delete/:id", analysesController.Delete)

	// Reading progress endpoints
	router.POST("/api/progress", progressController.SaveProgress)
	router.GET("/api/progress/:book_id", progressController.GetProgress)

	// Book management endpoints
	router.DELETE("/delete/:book_id", deleteController.DeleteBook)
	router.POST("/upload", uploadController.Upload)

	// Task status, for polling compile progress after an upload
	if cfg.TaskClient != nil {
		tasksController := NewTasksController(cfg.TaskClient)
		router.GET("/api/tasks/:id", tasksController.GetTaskStatus)
	}

	return router
}
