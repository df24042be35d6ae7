package tasks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompiler struct {
	compiled []string
	err      error
}

func (f *fakeCompiler) Compile(_ context.Context, epubPath string) error {
	f.compiled = append(f.compiled, epubPath)
	return f.err
}

func TestCompileBookProcessor(t *testing.T) {
	t.Run("compiles and removes the upload", func(t *testing.T) {
		epubPath := filepath.Join(t.TempDir(), "book.epub")
		require.NoError(t, os.WriteFile(epubPath, []byte("epub"), 0644))

		comp := &fakeCompiler{}
		processor := CompileBookProcessor(comp)

		err := processor(context.Background(), CompileBookTask{EpubPath: epubPath})
		require.NoError(t, err)
		assert.Equal(t, []string{epubPath}, comp.compiled)

		_, err = os.Stat(epubPath)
		assert.True(t, os.IsNotExist(err), "upload should be removed after compilation")
	})

	t.Run("keeps the upload when compilation fails", func(t *testing.T) {
		epubPath := filepath.Join(t.TempDir(), "book.epub")
		require.NoError(t, os.WriteFile(epubPath, []byte("epub"), 0644))

		comp := &fakeCompiler{err: errors.New("broken epub")}
		processor := CompileBookProcessor(comp)

		err := processor(context.Background(), CompileBookTask{EpubPath: epubPath})
		assert.ErrorContains(t, err, "broken epub")

		// Retries need the file to still be there
		_, statErr := os.Stat(epubPath)
		assert.NoError(t, statErr)
	})

	t.Run("fails without a compiler", func(t *testing.T) {
		processor := CompileBookProcessor(nil)
		err := processor(context.Background(), CompileBookTask{EpubPath: "x.epub"})
		assert.ErrorContains(t, err, "compiler not configured")
	})
}
