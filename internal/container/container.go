package container

import (
	"fmt"
	"net/http"

	"github.com/anime-shed/doc-insight-go/internal/config"
	"github.com/anime-shed/doc-insight-go/internal/docintel"
	"github.com/anime-shed/doc-insight-go/internal/extraction"
	"github.com/anime-shed/doc-insight-go/internal/factory"
	"github.com/anime-shed/doc-insight-go/internal/logger"
	"github.com/anime-shed/doc-insight-go/internal/observer"
	"github.com/anime-shed/doc-insight-go/internal/service"
	"github.com/anime-shed/doc-insight-go/internal/storage"
	"github.com/anime-shed/doc-insight-go/internal/transport"
	"github.com/anime-shed/doc-insight-go/pkg/validation"
)

// Container holds all application dependencies
type Container struct {
	config          *config.Config
	analyzer        docintel.Analyzer
	uploadStore     storage.UploadStore
	metrics         *observer.MetricsObserver
	documentService service.DocumentService
	handler         http.Handler
}

// NewContainer wires the application from cfg using the default factories
func NewContainer(cfg *config.Config) (*Container, error) {
	return NewContainerWithFactory(cfg, factory.NewComponentFactory())
}

// NewContainerWithFactory wires the application from cfg using f to create
// the analysis client and the upload store
func NewContainerWithFactory(cfg *config.Config, f *factory.ComponentFactory) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	analyzer, err := f.AnalyzerFactory.CreateAnalyzer(cfg.DocIntel)
	if err != nil {
		return nil, err
	}

	uploadStore, err := f.StorageFactory.CreateStorage(cfg.Upload)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload storage: %w", err)
	}

	selector := extraction.NewSelector(map[string]string{
		extraction.ServiceAWB:            cfg.DocIntel.AWBModel,
		extraction.ServiceOtherDocuments: cfg.DocIntel.FinanceModel,
	})
	validator := validation.NewURLValidatorWithOptions([]string{"http", "https"}, cfg.AllowedURLHosts)

	metrics := observer.NewMetricsObserver()
	publisher := observer.NewEventPublisher()
	publisher.Subscribe(observer.NewLoggingObserver(logger.Logger))
	publisher.Subscribe(metrics)

	documentService := service.NewDocumentService(selector, analyzer, uploadStore, validator, publisher, service.Options{
		AnalysisTimeout: cfg.AnalysisTimeout,
	})
	handler := transport.NewHandler(documentService, metrics, cfg)

	return &Container{
		config:          cfg,
		analyzer:        analyzer,
		uploadStore:     uploadStore,
		metrics:         metrics,
		documentService: documentService,
		handler:         handler,
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// DocumentService returns the document service
func (c *Container) DocumentService() service.DocumentService {
	return c.documentService
}
