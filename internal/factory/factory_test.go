package factory

import (
	"path/filepath"
	"testing"

	"github.com/anime-shed/doc-insight-go/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageFactory_CreateStorage(t *testing.T) {
	f := NewStorageFactory()

	store, err := f.CreateStorage(config.UploadConfig{Storage: config.UploadStorageNone})
	require.NoError(t, err)
	assert.Nil(t, store)

	store, err = f.CreateStorage(config.UploadConfig{
		Storage: config.UploadStorageLocal,
		Dir:     filepath.Join(t.TempDir(), "uploads"),
	})
	require.NoError(t, err)
	assert.NotNil(t, store)

	store, err = f.CreateStorage(config.UploadConfig{
		Storage:        config.UploadStorageAzure,
		AzureAccount:   "account",
		AzureKey:       "a2V5",
		AzureContainer: "uploads",
	})
	require.NoError(t, err)
	assert.NotNil(t, store)

	_, err = f.CreateStorage(config.UploadConfig{Storage: "ftp"})
	assert.Error(t, err)
}

func TestAnalyzerFactory_CreateAnalyzer(t *testing.T) {
	f := NewAnalyzerFactory()

	a, err := f.CreateAnalyzer(config.DocIntelConfig{
		Endpoint: "https://example.cognitiveservices.azure.com",
		Key:      "secret",
	})
	require.NoError(t, err)
	assert.NotNil(t, a)

	_, err = f.CreateAnalyzer(config.DocIntelConfig{Key: "secret"})
	assert.Error(t, err)
}

func TestNewComponentFactory(t *testing.T) {
	f := NewComponentFactory()
	assert.NotNil(t, f.AnalyzerFactory)
	assert.NotNil(t, f.StorageFactory)
}
