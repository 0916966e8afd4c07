package transport

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/anime-shed/doc-insight-go/internal/config"
	apperrors "github.com/anime-shed/doc-insight-go/internal/errors"
	"github.com/anime-shed/doc-insight-go/internal/logger"
	"github.com/anime-shed/doc-insight-go/internal/observer"
	"github.com/anime-shed/doc-insight-go/internal/service"
	"github.com/anime-shed/doc-insight-go/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// RequestIDHeader carries the request id in both directions
	RequestIDHeader = "X-Request-ID"

	requestIDKey = "request_id"
	version      = "1.0.0"
)

// Upload form field names
const (
	formService     = "service-select"
	formInputMethod = "input-method"
	formFile        = "file"
	formURL         = "bill_url"
)

// NewHandler builds the HTTP API. metrics may be nil.
func NewHandler(svc service.DocumentService, metrics *observer.MetricsObserver, cfg *config.Config) http.Handler {
	r := gin.New()

	r.Use(
		gin.Recovery(),
		requestID(),
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(),
	)

	r.GET("/health", healthCheck(metrics))
	r.GET("/services", listServices(svc))
	r.POST("/upload", uploadDocument(svc, cfg))
	r.POST("/analyze", analyzeURL(svc, cfg))

	return r
}

func healthCheck(metrics *observer.MetricsObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := models.HealthResponse{
			Status:  "available",
			Version: version,
			Time:    time.Now().UTC().Format(time.RFC3339),
		}
		if metrics != nil {
			resp.Metrics = metrics.GetMetrics()
		}
		c.JSON(http.StatusOK, resp)
	}
}

func listServices(svc service.DocumentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.ServicesResponse{Services: svc.Services()})
	}
}

// uploadDocument accepts the multipart form of the upload page. The
// document comes either as the file part or as bill_url, depending on
// input-method.
func uploadDocument(svc service.DocumentService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := c.MultipartForm(); err != nil {
			respondError(c, bodyErrorStatus(err), "invalid upload form", err)
			return
		}

		sub := service.Submission{
			Service:     c.PostForm(formService),
			InputMethod: c.PostForm(formInputMethod),
			URL:         c.PostForm(formURL),
		}

		if strings.EqualFold(strings.TrimSpace(sub.InputMethod), service.InputMethodFile) {
			header, err := c.FormFile(formFile)
			if err != nil && !errors.Is(err, http.ErrMissingFile) {
				respondError(c, http.StatusBadRequest, "invalid upload form", err)
				return
			}
			if header != nil {
				f, err := header.Open()
				if err != nil {
					respondError(c, http.StatusBadRequest, "failed to open uploaded file", err)
					return
				}
				defer f.Close()

				sub.Filename = header.Filename
				sub.File = f
			}
		}

		runExtraction(c, svc, cfg, sub)
	}
}

func analyzeURL(svc service.DocumentService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.AnalyzeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			status := bodyErrorStatus(err)
			respondError(c, status, "invalid request format", apperrors.NewValidationError("invalid request format", err))
			return
		}

		runExtraction(c, svc, cfg, service.Submission{
			Service:     req.Service,
			InputMethod: service.InputMethodURL,
			URL:         req.URL,
		})
	}
}

func runExtraction(c *gin.Context, svc service.DocumentService, cfg *config.Config, sub service.Submission) {
	startTime := time.Now()
	ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
	defer cancel()

	log := logger.FromContext(ctx)
	log.WithFields(logrus.Fields{
		"method":       c.Request.Method,
		"path":         c.Request.URL.Path,
		"service":      sub.Service,
		"input_method": sub.InputMethod,
		"ip":           c.ClientIP(),
	}).Info("Processing extraction request")

	resp, err := svc.Extract(ctx, sub)
	if err != nil {
		respondError(c, apperrors.GetStatusCode(err), "extraction failed", err)
		return
	}

	log.WithFields(logrus.Fields{
		"service":            resp.Service,
		"model_id":           resp.ModelID,
		"document_count":     resp.DocumentCount,
		"issues":             len(resp.Issues),
		"processing_time_ms": time.Since(startTime).Milliseconds(),
	}).Info("Extraction completed successfully")

	c.JSON(http.StatusOK, resp)
}

// Middleware and helper functions

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(logger.ContextWithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			err := c.Errors.Last()
			respondError(c, determineStatusCode(err.Err), "request processing failed", err.Err)
		}
	}
}

func determineStatusCode(err error) int {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func bodyErrorStatus(err error) int {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

func respondError(c *gin.Context, code int, message string, err error) {
	id := c.GetString(requestIDKey)

	logger.WithError(err).WithFields(logrus.Fields{
		"request_id":  id,
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	resp := models.ErrorResponse{
		Error:     http.StatusText(code),
		Message:   message,
		RequestID: id,
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		resp.Type = string(appErr.Type)
		resp.Message = appErr.Message
		resp.Details = appErr.Details
	} else if err != nil {
		resp.Details = err.Error()
	}

	c.AbortWithStatusJSON(code, resp)
}
