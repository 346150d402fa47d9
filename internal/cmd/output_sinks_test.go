package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deckhand/deckhand/internal/output"
)

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "task-tsk_42", sanitizeFilename("Task tsk_42"))
	assert.Equal(t, "task-tsk-42", sanitizeFilename("  task/TSK:42  "))
	assert.Equal(t, "output", sanitizeFilename("///"))
	assert.Equal(t, "output", sanitizeFilename(""))
}

func TestOutputExtension(t *testing.T) {
	assert.Equal(t, "json", outputExtension(output.FormatJSON))
	assert.Equal(t, "md", outputExtension(output.FormatMarkdown))
	assert.Equal(t, "txt", outputExtension(output.FormatTable))
}

func TestOpenSinkStdout(t *testing.T) {
	sink, err := openSink("")
	require.NoError(t, err)
	assert.Equal(t, "-", sink.path)
	require.NoError(t, sink.close())

	sink, err = openSink("-")
	require.NoError(t, err)
	assert.Equal(t, "-", sink.path)
	require.NoError(t, sink.close())
}

func TestOpenSinkCreatesParentDirs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.json")

	sink, err := openSink(path)
	require.NoError(t, err)

	_, err = sink.writer.Write([]byte("{}"))
	require.NoError(t, err)
	require.NoError(t, sink.close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

func TestEnsureOutDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")

	resolved, err := ensureOutDir(dir)
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(resolved))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
