package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain", input: "invoice.pdf", expected: "invoice.pdf"},
		{name: "spaces", input: "my receipt 01.png", expected: "my_receipt_01.png"},
		{name: "path traversal", input: "../../etc/passwd", expected: "etc_passwd"},
		{name: "windows path", input: `C:\Users\bill.pdf`, expected: "C_Users_bill.pdf"},
		{name: "accents", input: "facture_été.pdf", expected: "facture_ete.pdf"},
		{name: "hidden file", input: ".env", expected: "env"},
		{name: "nothing left", input: "../", expected: ""},
		{name: "non-latin only", input: "счёт", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilename(tt.input))
		})
	}
}

func TestObjectName_UniqueAndSafe(t *testing.T) {
	a := objectName("../bill.pdf")
	b := objectName("../bill.pdf")

	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasSuffix(a, "_bill.pdf"))
	assert.True(t, strings.HasSuffix(objectName("///"), "_upload"))
}

func TestLocalStorage_SaveAndOpen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	ctx := context.Background()
	ref, err := store.Save(ctx, "../receipt.jpg", strings.NewReader("image-bytes"))
	require.NoError(t, err)
	assert.Equal(t, ref, filepath.Base(ref))

	_, err = os.Stat(filepath.Join(dir, ref))
	require.NoError(t, err)

	rc, err := store.Open(ctx, ref)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "image-bytes", string(data))
}

func TestLocalStorage_OpenRejectsUnknownRefs(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	for _, ref := range []string{"", "missing.pdf", "../outside.pdf", "a/b.pdf"} {
		_, err := store.Open(ctx, ref)
		assert.ErrorIs(t, err, ErrNotFound, ref)
	}
}

func TestLocalStorage_CanceledContext(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = store.Save(ctx, "a.pdf", strings.NewReader("x"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewLocalStorage_RequiresDir(t *testing.T) {
	_, err := NewLocalStorage("")
	assert.Error(t, err)
}

func TestNewAzureStorage_Validation(t *testing.T) {
	_, err := NewAzureStorage("account", "a2V5", "")
	assert.Error(t, err)

	_, err = NewAzureStorage("account", "not base64!", "uploads")
	assert.Error(t, err)

	store, err := NewAzureStorage("account", "a2V5", "uploads")
	require.NoError(t, err)
	assert.NotNil(t, store)
}
