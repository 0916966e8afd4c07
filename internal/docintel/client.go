package docintel

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/anime-shed/doc-insight-go/internal/extraction"
	"github.com/anime-shed/doc-insight-go/internal/logger"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/streaming"
	"github.com/sirupsen/logrus"
)

const (
	moduleName    = "docintel"
	moduleVersion = "v1.0.0"

	// DefaultAPIVersion is the analysis API version requested when none is configured
	DefaultAPIVersion = "2023-07-31"

	keyHeader = "Ocp-Apim-Subscription-Key"
)

// Analyzer submits documents to the analysis service and waits for the result
type Analyzer interface {
	AnalyzeDocument(ctx context.Context, modelID string, document []byte) (*extraction.AnalysisResult, error)
	AnalyzeDocumentFromURL(ctx context.Context, modelID string, documentURL string) (*extraction.AnalysisResult, error)
}

// ErrNoOperationLocation is returned when the service accepts a request
// without telling where to poll for its result.
var ErrNoOperationLocation = errors.New("analysis accepted without an Operation-Location header")

// OperationError is a failure reported by the service for an accepted analysis
type OperationError struct {
	Status  string
	Code    string
	Message string
}

func (e *OperationError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("analysis %s", e.Status)
	}
	return fmt.Sprintf("analysis %s: %s: %s", e.Status, e.Code, e.Message)
}

// Options configures a Client
type Options struct {
	APIVersion    string
	PollInterval  time.Duration
	ClientOptions policy.ClientOptions
}

// Client talks to an Azure AI Document Intelligence resource
type Client struct {
	endpoint     string
	apiVersion   string
	pollInterval time.Duration
	pl           runtime.Pipeline
}

// NewClient creates a client for the resource at endpoint authenticated with key.
// Retries are disabled unless opts.ClientOptions configures them.
func NewClient(endpoint, key string, opts *Options) (*Client, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if strings.TrimSpace(key) == "" {
		return nil, fmt.Errorf("key is required")
	}
	if opts == nil {
		opts = &Options{}
	}

	clientOpts := opts.ClientOptions
	if clientOpts.Retry.MaxRetries == 0 {
		clientOpts.Retry.MaxRetries = -1
	}

	authPolicy := runtime.NewKeyCredentialPolicy(azcore.NewKeyCredential(key), keyHeader, nil)
	pl := runtime.NewPipeline(moduleName, moduleVersion, runtime.PipelineOptions{
		PerRetry: []policy.Policy{authPolicy},
	}, &clientOpts)

	c := &Client{
		endpoint:     strings.TrimRight(endpoint, "/"),
		apiVersion:   opts.APIVersion,
		pollInterval: opts.PollInterval,
		pl:           pl,
	}
	if c.apiVersion == "" {
		c.apiVersion = DefaultAPIVersion
	}
	if c.pollInterval <= 0 {
		c.pollInterval = time.Second
	}
	return c, nil
}

// AnalyzeDocument analyzes raw document bytes with the given model
func (c *Client) AnalyzeDocument(ctx context.Context, modelID string, document []byte) (*extraction.AnalysisResult, error) {
	req, err := c.analyzeRequest(ctx, modelID)
	if err != nil {
		return nil, err
	}
	if err := req.SetBody(streaming.NopCloser(bytes.NewReader(document)), "application/octet-stream"); err != nil {
		return nil, fmt.Errorf("setting document body: %w", err)
	}
	return c.run(ctx, req, modelID)
}

// AnalyzeDocumentFromURL analyzes the document the service fetches from documentURL
func (c *Client) AnalyzeDocumentFromURL(ctx context.Context, modelID string, documentURL string) (*extraction.AnalysisResult, error) {
	req, err := c.analyzeRequest(ctx, modelID)
	if err != nil {
		return nil, err
	}
	if err := runtime.MarshalAsJSON(req, analyzeURLRequest{URLSource: documentURL}); err != nil {
		return nil, fmt.Errorf("encoding url source: %w", err)
	}
	return c.run(ctx, req, modelID)
}

func (c *Client) analyzeRequest(ctx context.Context, modelID string) (*policy.Request, error) {
	if strings.TrimSpace(modelID) == "" {
		return nil, fmt.Errorf("model id is required")
	}
	urlPath := "/formrecognizer/documentModels/" + url.PathEscape(modelID) + ":analyze"
	req, err := runtime.NewRequest(ctx, http.MethodPost, runtime.JoinPaths(c.endpoint, urlPath))
	if err != nil {
		return nil, err
	}
	q := req.Raw().URL.Query()
	q.Set("api-version", c.apiVersion)
	q.Set("stringIndexType", "textElements")
	req.Raw().URL.RawQuery = q.Encode()
	req.Raw().Header["Accept"] = []string{"application/json"}
	return req, nil
}

func (c *Client) run(ctx context.Context, req *policy.Request, modelID string) (*extraction.AnalysisResult, error) {
	start := time.Now()
	resp, err := c.pl.Do(req)
	if err != nil {
		return nil, err
	}
	if !runtime.HasStatusCode(resp, http.StatusAccepted) {
		return nil, runtime.NewResponseError(resp)
	}
	location := resp.Header.Get("Operation-Location")
	runtime.Drain(resp)
	if location == "" {
		return nil, ErrNoOperationLocation
	}

	logger.WithFields(logrus.Fields{
		"model_id":  modelID,
		"operation": location,
	}).Debug("Analysis accepted, polling for result")

	result, err := c.poll(ctx, location)
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"model_id":           modelID,
		"documents":          len(result.Documents),
		"processing_time_ms": time.Since(start).Milliseconds(),
	}).Debug("Analysis finished")
	return result, nil
}

func (c *Client) poll(ctx context.Context, location string) (*extraction.AnalysisResult, error) {
	for {
		req, err := runtime.NewRequest(ctx, http.MethodGet, location)
		if err != nil {
			return nil, err
		}
		req.Raw().Header["Accept"] = []string{"application/json"}

		resp, err := c.pl.Do(req)
		if err != nil {
			return nil, err
		}
		if !runtime.HasStatusCode(resp, http.StatusOK) {
			return nil, runtime.NewResponseError(resp)
		}

		var op analyzeOperation
		if err := runtime.UnmarshalAsJSON(resp, &op); err != nil {
			return nil, fmt.Errorf("decoding analysis operation: %w", err)
		}

		switch op.Status {
		case statusSucceeded:
			if op.Result == nil {
				return &extraction.AnalysisResult{Documents: []*extraction.Document{}}, nil
			}
			return op.Result.toAnalysisResult(), nil
		case statusFailed, statusCanceled:
			opErr := &OperationError{Status: string(op.Status)}
			if op.Error != nil {
				opErr.Code, opErr.Message = op.Error.Code, op.Error.Message
			}
			return nil, opErr
		case statusNotStarted, statusRunning:
		default:
			return nil, fmt.Errorf("unexpected analysis status %q", op.Status)
		}

		timer := time.NewTimer(c.waitFor(resp))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// waitFor honours a Retry-After header in seconds, bounded below by the
// configured poll interval.
func (c *Client) waitFor(resp *http.Response) time.Duration {
	if ra := resp.Header.Get("Retry-After"); ra != "" {
		if secs, err := strconv.Atoi(ra); err == nil {
			if d := time.Duration(secs) * time.Second; d > c.pollInterval {
				return d
			}
		}
	}
	return c.pollInterval
}
