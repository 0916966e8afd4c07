package factory

import (
	"fmt"

	"github.com/anime-shed/doc-insight-go/internal/config"
	"github.com/anime-shed/doc-insight-go/internal/docintel"
	"github.com/anime-shed/doc-insight-go/internal/storage"
)

// AnalyzerFactory creates document analysis clients
type AnalyzerFactory interface {
	CreateAnalyzer(cfg config.DocIntelConfig) (docintel.Analyzer, error)
}

// StorageFactory creates upload stores
type StorageFactory interface {
	// CreateStorage returns a nil store and no error when uploads are not kept.
	CreateStorage(cfg config.UploadConfig) (storage.UploadStore, error)
}

// analyzerFactory implements AnalyzerFactory
type analyzerFactory struct{}

// NewAnalyzerFactory creates a new analyzer factory
func NewAnalyzerFactory() AnalyzerFactory {
	return &analyzerFactory{}
}

// CreateAnalyzer creates a client for the configured analysis resource
func (f *analyzerFactory) CreateAnalyzer(cfg config.DocIntelConfig) (docintel.Analyzer, error) {
	client, err := docintel.NewClient(cfg.Endpoint, cfg.Key, &docintel.Options{
		APIVersion:   cfg.APIVersion,
		PollInterval: cfg.PollInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("creating analysis client: %w", err)
	}
	return client, nil
}

// storageFactory implements StorageFactory
type storageFactory struct{}

// NewStorageFactory creates a new storage factory
func NewStorageFactory() StorageFactory {
	return &storageFactory{}
}

// CreateStorage creates an upload store for the configured backend
func (f *storageFactory) CreateStorage(cfg config.UploadConfig) (storage.UploadStore, error) {
	switch cfg.Storage {
	case config.UploadStorageNone:
		return nil, nil
	case config.UploadStorageLocal:
		return storage.NewLocalStorage(cfg.Dir)
	case config.UploadStorageAzure:
		return storage.NewAzureStorage(cfg.AzureAccount, cfg.AzureKey, cfg.AzureContainer)
	default:
		return nil, fmt.Errorf("unsupported upload storage: %q", cfg.Storage)
	}
}

// ComponentFactory combines all factories
type ComponentFactory struct {
	AnalyzerFactory AnalyzerFactory
	StorageFactory  StorageFactory
}

// NewComponentFactory creates a new component factory
func NewComponentFactory() *ComponentFactory {
	return &ComponentFactory{
		AnalyzerFactory: NewAnalyzerFactory(),
		StorageFactory:  NewStorageFactory(),
	}
}
