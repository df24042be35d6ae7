// Package compiler wraps the external EPUB compiler that turns an uploaded
// .epub into a book artifact folder. Compilation itself is out of process;
// this package only shells out and reports the outcome.
package compiler

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Compiler produces a book artifact folder from an EPUB file.
type Compiler interface {
	Compile(ctx context.Context, epubPath string) error
}

// CommandCompiler invokes the configured compiler binary as a subprocess.
type CommandCompiler struct {
	binary   string
	booksDir string
	timeout  time.Duration
}

// NewCommandCompiler creates a compiler invoking binary with the books
// directory as output target. A non-positive timeout defaults to a minute,
// which covers all but pathological EPUBs.
func NewCommandCompiler(binary, booksDir string, timeout time.Duration) *CommandCompiler {
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &CommandCompiler{binary: binary, booksDir: booksDir, timeout: timeout}
}

// Compile runs the compiler on an EPUB file. The subprocess is killed when
// the timeout elapses; its combined output is included in the error so
// operators can see what the compiler complained about.
func (c *CommandCompiler) Compile(ctx context.Context, epubPath string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.binary, "-out", c.booksDir, epubPath)
	output, err := cmd.CombinedOutput()
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("compiling %s timed out after %s", epubPath, c.timeout)
	}
	if err != nil {
		return fmt.Errorf("compiling %s: %w: %s", epubPath, err, strings.TrimSpace(string(output)))
	}
	return nil
}
