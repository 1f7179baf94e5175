package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniqueFilenameKeepsExtensionAndSlug(t *testing.T) {
	name := UniqueFilename("My Lease Contract (Final).PDF")

	assert.True(t, strings.HasPrefix(name, "my-lease-contract-final-"))
	assert.True(t, strings.HasSuffix(name, ".PDF"))
	assert.Contains(t, name, time.Now().Format("20060102"))
}

func TestUniqueFilenameIsUnique(t *testing.T) {
	a := UniqueFilename("photo.jpg")
	b := UniqueFilename("photo.jpg")
	assert.NotEqual(t, a, b)
}

func TestUniqueFilenameHandlesMissingExtension(t *testing.T) {
	name := UniqueFilename("attachment")
	assert.True(t, strings.HasSuffix(name, ".bin"))
}

func TestUniqueFilenameHandlesNonLatinName(t *testing.T) {
	name := UniqueFilename("عقد.pdf")
	assert.True(t, strings.HasSuffix(name, ".pdf"))
	assert.NotEqual(t, ".pdf", name)
}

func TestLocalStorageSaveAndReject(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStorage(&Config{LocalDir: dir, PublicPath: "/static/uploads"})

	url, err := store.Save(context.Background(), "test.txt", "text/plain", strings.NewReader("hello"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/static/uploads/test-"))
	assert.True(t, strings.HasSuffix(url, ".txt"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	content, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))

	// empty uploads are rejected
	_, err = store.Save(context.Background(), "empty.txt", "text/plain", strings.NewReader(""))
	assert.Error(t, err)
}
