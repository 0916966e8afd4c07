package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/anime-shed/doc-insight-go/internal/docintel"
	apperrors "github.com/anime-shed/doc-insight-go/internal/errors"
	"github.com/anime-shed/doc-insight-go/internal/extraction"
	"github.com/anime-shed/doc-insight-go/internal/logger"
	"github.com/anime-shed/doc-insight-go/internal/observer"
	"github.com/anime-shed/doc-insight-go/internal/storage"
	"github.com/anime-shed/doc-insight-go/pkg/models"
	"github.com/anime-shed/doc-insight-go/pkg/validation"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Input methods a submission may use
const (
	InputMethodFile = "file"
	InputMethodURL  = "url"
)

// DefaultAnalysisTimeout bounds one call to the analysis service when no
// timeout is configured
const DefaultAnalysisTimeout = 90 * time.Second

// Submission is one document handed in for extraction
type Submission struct {
	Service     string
	InputMethod string

	// Filename and File carry an uploaded document. The caller owns File
	// and closes it after Extract returns.
	Filename string
	File     io.Reader

	URL string
}

// DocumentService turns submissions into normalized records
type DocumentService interface {
	Extract(ctx context.Context, sub Submission) (*models.ExtractionResponse, error)
	Services() []models.ServiceInfo
}

// Options tunes a DocumentService
type Options struct {
	AnalysisTimeout time.Duration
}

type documentService struct {
	selector        *extraction.Selector
	analyzer        docintel.Analyzer
	store           storage.UploadStore
	validator       *validation.URLValidator
	publisher       observer.Subject
	analysisTimeout time.Duration
}

// NewDocumentService creates a document service. store may be nil, in which
// case uploads are read directly and not kept.
func NewDocumentService(
	selector *extraction.Selector,
	analyzer docintel.Analyzer,
	store storage.UploadStore,
	validator *validation.URLValidator,
	publisher observer.Subject,
	opts Options,
) DocumentService {
	if opts.AnalysisTimeout <= 0 {
		opts.AnalysisTimeout = DefaultAnalysisTimeout
	}
	return &documentService{
		selector:        selector,
		analyzer:        analyzer,
		store:           store,
		validator:       validator,
		publisher:       publisher,
		analysisTimeout: opts.AnalysisTimeout,
	}
}

// Services lists the service choices with their schema labels
func (s *documentService) Services() []models.ServiceInfo {
	selections := s.selector.Services()
	out := make([]models.ServiceInfo, 0, len(selections))
	for _, sel := range selections {
		out = append(out, models.ServiceInfo{
			Service: sel.Service,
			Schema:  sel.Schema.Name,
			ModelID: sel.ModelID,
			Labels:  sel.Schema.Labels(),
		})
	}
	return out
}

// Extract validates sub, resolves its service choice, submits the document
// for analysis and normalizes every returned document.
func (s *documentService) Extract(ctx context.Context, sub Submission) (*models.ExtractionResponse, error) {
	start := time.Now()

	requestID := logger.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
		ctx = logger.ContextWithRequestID(ctx, requestID)
	}

	event := observer.SubmissionEvent{
		RequestID:   requestID,
		Service:     sub.Service,
		InputMethod: sub.InputMethod,
	}

	resp, err := s.extract(ctx, sub, &event)
	event.ProcessingTime = time.Since(start)
	if err != nil {
		event.EventType = observer.SubmissionFailed
		event.ErrorMessage = err.Error()
		s.publisher.NotifyObservers(ctx, event)
		return nil, err
	}

	resp.RequestID = requestID
	resp.ProcessingTimeSec = event.ProcessingTime.Seconds()

	event.EventType = observer.SubmissionCompleted
	event.Success = true
	event.DocumentCount = resp.DocumentCount
	s.publisher.NotifyObservers(ctx, event)

	return resp, nil
}

func (s *documentService) extract(ctx context.Context, sub Submission, event *observer.SubmissionEvent) (*models.ExtractionResponse, error) {
	method := strings.ToLower(strings.TrimSpace(sub.InputMethod))

	if err := validatePresence(sub, method); err != nil {
		return nil, err
	}

	sel, err := s.selector.Select(sub.Service)
	if err != nil {
		return nil, err
	}
	event.Service = sel.Service
	event.ModelID = sel.ModelID

	switch method {
	case InputMethodFile, InputMethodURL:
	default:
		return nil, apperrors.NewUnknownInputMethodError(sub.InputMethod)
	}

	if method == InputMethodURL {
		if err := s.validator.ValidateDocumentURL(sub.URL); err != nil {
			return nil, err
		}
	}

	started := *event
	started.EventType = observer.SubmissionStarted
	s.publisher.NotifyObservers(ctx, started)

	resp := &models.ExtractionResponse{
		Service:     sel.Service,
		ModelID:     sel.ModelID,
		InputMethod: method,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}

	analysisCtx, cancel := context.WithTimeout(ctx, s.analysisTimeout)
	defer cancel()

	var result *extraction.AnalysisResult
	if method == InputMethodFile {
		document, ref, err := s.readUpload(ctx, sub)
		if err != nil {
			return nil, err
		}
		resp.Upload = ref
		result, err = s.analyzer.AnalyzeDocument(analysisCtx, sel.ModelID, document)
		if err != nil {
			return nil, wrapAnalysisError(err)
		}
	} else {
		result, err = s.analyzer.AnalyzeDocumentFromURL(analysisCtx, sel.ModelID, strings.TrimSpace(sub.URL))
		if err != nil {
			return nil, wrapAnalysisError(err)
		}
	}

	records := extraction.Extract(result, sel.Schema)
	resp.Records = records
	resp.DocumentCount = len(records)
	resp.Rows = displayRows(records)
	resp.Issues = s.collectIssues(ctx, records, *event)

	return resp, nil
}

func validatePresence(sub Submission, method string) error {
	if strings.TrimSpace(sub.Service) == "" {
		return apperrors.NewValidationError("service is required", nil)
	}
	if method == "" {
		return apperrors.NewValidationError("input method is required", nil)
	}
	switch method {
	case InputMethodFile:
		if sub.File == nil {
			return apperrors.NewValidationError("file is required", nil)
		}
		if strings.TrimSpace(sub.Filename) == "" {
			return apperrors.NewValidationError("no file selected", nil)
		}
	case InputMethodURL:
		if strings.TrimSpace(sub.URL) == "" {
			return apperrors.NewValidationError("document URL is required", nil)
		}
	}
	return nil
}

// readUpload returns the document bytes. When a store is configured the
// upload is kept there first and read back through a handle that is closed
// before returning.
func (s *documentService) readUpload(ctx context.Context, sub Submission) ([]byte, string, error) {
	if s.store == nil {
		document, err := io.ReadAll(sub.File)
		if err != nil {
			return nil, "", apperrors.NewValidationError("failed to read uploaded file", err)
		}
		return checkNotEmpty(document, "")
	}

	ref, err := s.store.Save(ctx, sub.Filename, sub.File)
	if err != nil {
		return nil, "", apperrors.NewInternalError("failed to store uploaded file", err)
	}

	rc, err := s.store.Open(ctx, ref)
	if err != nil {
		return nil, "", apperrors.NewInternalError("failed to open stored upload", err)
	}
	defer rc.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(rc); err != nil {
		return nil, "", apperrors.NewInternalError("failed to read stored upload", err)
	}

	logger.FromContext(ctx).WithFields(logrus.Fields{
		"upload": ref,
		"bytes":  buf.Len(),
	}).Debug("Upload stored")

	return checkNotEmpty(buf.Bytes(), ref)
}

func checkNotEmpty(document []byte, ref string) ([]byte, string, error) {
	if len(document) == 0 {
		return nil, ref, apperrors.NewValidationError("uploaded file is empty", nil)
	}
	return document, ref, nil
}

func wrapAnalysisError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewTimeoutError("document analysis timed out", err)
	}
	return apperrors.NewExternalServiceError("document analysis failed", err)
}

func displayRows(records extraction.ResultSet) [][]models.DisplayRow {
	rows := make([][]models.DisplayRow, 0, len(records))
	for _, r := range records {
		pairs := r.Pairs()
		row := make([]models.DisplayRow, 0, len(pairs))
		for _, p := range pairs {
			row = append(row, models.DisplayRow{Label: p.Label, Value: extraction.Display(p.Value)})
		}
		rows = append(rows, row)
	}
	return rows
}

func (s *documentService) collectIssues(ctx context.Context, records extraction.ResultSet, base observer.SubmissionEvent) []models.FieldIssue {
	var issues []models.FieldIssue
	for i, r := range records {
		for _, err := range r.Issues() {
			issue := models.FieldIssue{
				Document: i,
				Type:     string(apperrors.ErrorTypeInternal),
				Message:  err.Error(),
			}
			var appErr *apperrors.AppError
			if errors.As(err, &appErr) {
				issue.Type = string(appErr.Type)
				issue.Field = appErr.Field
			}
			issues = append(issues, issue)

			ev := base
			ev.EventType = observer.FieldMalformed
			ev.ErrorMessage = issue.Message
			ev.Metadata = map[string]interface{}{
				"document": i,
				"field":    issue.Field,
			}
			s.publisher.NotifyObservers(ctx, ev)
		}
	}
	return issues
}
