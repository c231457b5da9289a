package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragdemo/internal/domain"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoad_StemIDsInFilenameOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.txt", "second document")
	writeFile(t, dir, "a.txt", "first document")
	writeFile(t, dir, "notes.md", "not plain text corpus material")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	docs, err := NewLoader(dir).Load()
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a", docs[0].ID)
	assert.Equal(t, "first document", docs[0].Text)
	assert.Equal(t, "b", docs[1].ID)
	assert.Equal(t, "second document", docs[1].Text)
}

func TestLoad_MissingDirectory(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "nope")).Load()
	require.ErrorIs(t, err, domain.ErrCorpusNotFound)
}

func TestLoad_NoTextFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "readme.md", "markdown only")

	_, err := NewLoader(dir).Load()
	require.ErrorIs(t, err, domain.ErrCorpusNotFound)
}

func TestLoad_SkipsInvalidUTF8(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.txt", "valid text")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.txt"), []byte{0xff, 0xfe, 0xfd}, 0o644))

	docs, err := NewLoader(dir).Load()
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "good", docs[0].ID)
}
