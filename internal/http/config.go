package http

import (
	"github.com/lectern-app/lectern/internal/audit"
	"github.com/lectern-app/lectern/internal/compiler"
	"github.com/lectern-app/lectern/internal/database"
	"github.com/lectern-app/lectern/internal/library"
	"github.com/lectern-app/lectern/internal/tasks"
)

// RouterConfig contains all dependencies and configuration needed to create
// the HTTP router. This replaces a long parameter list in NewRouter for
// better maintainability.
type RouterConfig struct {
	// Core dependencies
	Library     *library.Library
	Annotations AnnotationStore
	Progress    ProgressStore
	Database    *database.Database
	Auditor     *audit.Auditor

	// AI analysis (optional; the analyze endpoint reports when missing)
	Analyzer Analyzer

	// EPUB processing
	Compiler   compiler.Compiler
	TaskClient *tasks.Client
	UploadDir  string

	// UI paths
	TemplatesPath string
	StaticPath    string

	// Application info
	Version string
}
