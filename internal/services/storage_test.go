package services

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(&body, writer.Boundary())
	form, err := reader.ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	return form.File["file"][0]
}

func TestSaveFileWritesUnderUniqueName(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	storage := NewStorageService(dir)

	content := []byte("scanned bytes")
	header := fileHeader(t, "invoice.PDF", content)

	name, path, err := storage.SaveFile(header)
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(name, ".pdf"), "stored name keeps the lowercased extension: %s", name)
	assert.NotEqual(t, "invoice.pdf", name)

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, written)
}

func TestSaveFileNeverCollides(t *testing.T) {
	storage := NewStorageService(t.TempDir())
	header := fileHeader(t, "scan.png", []byte("pixels"))

	first, _, err := storage.SaveFile(header)
	require.NoError(t, err)

	second, _, err := storage.SaveFile(header)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestDeleteFile(t *testing.T) {
	storage := NewStorageService(t.TempDir())
	header := fileHeader(t, "scan.png", []byte("pixels"))

	name, path, err := storage.SaveFile(header)
	require.NoError(t, err)
	require.FileExists(t, path)

	require.NoError(t, storage.DeleteFile(name))
	assert.NoFileExists(t, path)
}
