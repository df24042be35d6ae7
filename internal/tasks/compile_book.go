package tasks

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/lectern-app/lectern/internal/compiler"
)

// CompileBookTask compiles one uploaded EPUB into a book artifact folder.
type CompileBookTask struct {
	EpubPath string `json:"epub_path"`
}

// Config returns the queue configuration for compile tasks.
func (t CompileBookTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "compile_book",
		MaxAttempts: 2,
		Backoff:     30 * time.Second,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CompileBookProcessor creates a processor function for CompileBookTask.
// The uploaded file is removed once compilation succeeds.
func CompileBookProcessor(comp compiler.Compiler) backlite.QueueProcessor[CompileBookTask] {
	return func(ctx context.Context, task CompileBookTask) error {
		if comp == nil {
			return fmt.Errorf("compiler not configured")
		}

		if err := comp.Compile(ctx, task.EpubPath); err != nil {
			return fmt.Errorf("compile %s: %w", task.EpubPath, err)
		}

		if err := os.Remove(task.EpubPath); err != nil && !os.IsNotExist(err) {
			log.Printf("[TASK] Could not remove uploaded file %s: %v", task.EpubPath, err)
		}

		log.Printf("[TASK] Compiled %s", task.EpubPath)
		return nil
	}
}

// NewCompileBookQueue creates a backlite queue for compile tasks.
func NewCompileBookQueue(comp compiler.Compiler) backlite.Queue {
	return backlite.NewQueue(CompileBookProcessor(comp))
}
