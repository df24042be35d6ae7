package http

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lectern-app/lectern/internal/compiler"
	"github.com/lectern-app/lectern/internal/tasks"
)

// UploadController accepts EPUB uploads and hands them to the compiler.
// With a task client the compile runs on a background worker and the upload
// returns immediately; without one it runs inline under the compiler's
// timeout.
type UploadController struct {
	compiler   compiler.Compiler
	taskClient *tasks.Client
	uploadDir  string
}

func NewUploadController(comp compiler.Compiler, taskClient *tasks.Client, uploadDir string) *UploadController {
	return &UploadController{
		compiler:   comp,
		taskClient: taskClient,
		uploadDir:  uploadDir,
	}
}

// Upload handles POST /upload.
func (uc *UploadController) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		respondBadRequest(c, "no file provided")
		return
	}

	if !strings.HasSuffix(strings.ToLower(file.Filename), ".epub") {
		respondBadRequest(c, "only EPUB files are supported")
		return
	}

	if uc.compiler == nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "book compiler not configured"})
		return
	}

	if err := os.MkdirAll(uc.uploadDir, 0755); err != nil {
		respondInternalError(c, err, "create upload dir")
		return
	}

	// A uuid prefix keeps concurrent uploads of the same filename apart
	tempPath := filepath.Join(uc.uploadDir, uuid.New().String()+"_"+filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, tempPath); err != nil {
		respondInternalError(c, err, "save upload")
		return
	}

	bookName := strings.TrimSuffix(file.Filename, filepath.Ext(file.Filename))

	if uc.taskClient != nil {
		ids, err := uc.taskClient.Add(tasks.CompileBookTask{EpubPath: tempPath}).Save()
		if err != nil {
			os.Remove(tempPath)
			respondInternalError(c, err, "enqueue compile task")
			return
		}

		resp := gin.H{
			"message": fmt.Sprintf("'%s' queued for processing", bookName),
			"status":  "queued",
		}
		if len(ids) > 0 {
			resp["task_id"] = ids[0]
		}
		c.JSON(http.StatusAccepted, resp)
		return
	}

	compileErr := uc.compiler.Compile(c.Request.Context(), tempPath)
	os.Remove(tempPath)
	if compileErr != nil {
		respondInternalError(c, compileErr, "compile upload")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Successfully processed '%s'", bookName),
		"status":  "success",
	})
}
