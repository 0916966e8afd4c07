package observer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// SubmissionEvent describes a step in the life of one submission
type SubmissionEvent struct {
	EventType      EventType              `json:"event_type"`
	Timestamp      time.Time              `json:"timestamp"`
	RequestID      string                 `json:"request_id,omitempty"`
	Service        string                 `json:"service,omitempty"`
	ModelID        string                 `json:"model_id,omitempty"`
	InputMethod    string                 `json:"input_method,omitempty"`
	ProcessingTime time.Duration          `json:"processing_time"`
	DocumentCount  int                    `json:"document_count,omitempty"`
	Success        bool                   `json:"success"`
	ErrorMessage   string                 `json:"error_message,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// EventType represents the type of submission event
type EventType string

const (
	// SubmissionStarted when a submission passed validation and selection
	SubmissionStarted EventType = "submission_started"
	// SubmissionCompleted when records were extracted
	SubmissionCompleted EventType = "submission_completed"
	// SubmissionFailed when the submission was rejected or analysis failed
	SubmissionFailed EventType = "submission_failed"
	// FieldMalformed for each field that was skipped during normalization
	FieldMalformed EventType = "field_malformed"
)

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event SubmissionEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event SubmissionEvent)
}

// LoggingObserver logs submission events
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Logger) Observer {
	return &LoggingObserver{
		logger: logger,
	}
}

// OnEvent handles submission events by logging them
func (o *LoggingObserver) OnEvent(ctx context.Context, event SubmissionEvent) {
	fields := logrus.Fields{
		"event_type": event.EventType,
		"request_id": event.RequestID,
		"service":    event.Service,
		"model_id":   event.ModelID,
	}
	if event.InputMethod != "" {
		fields["input_method"] = event.InputMethod
	}
	if event.ProcessingTime > 0 {
		fields["processing_time_ms"] = event.ProcessingTime.Milliseconds()
	}
	if event.ErrorMessage != "" {
		fields["error"] = event.ErrorMessage
	}
	for k, v := range event.Metadata {
		fields[k] = v
	}

	entry := o.logger.WithFields(fields)
	switch event.EventType {
	case SubmissionStarted:
		entry.Info("Submission started")
	case SubmissionCompleted:
		entry.WithField("document_count", event.DocumentCount).Info("Submission completed")
	case SubmissionFailed:
		entry.Error("Submission failed")
	case FieldMalformed:
		entry.Warn("Malformed field skipped")
	default:
		entry.Info("Submission event occurred")
	}
}

// GetObserverName returns the observer name
func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// MetricsObserver collects counters from submission events
type MetricsObserver struct {
	mu                    sync.RWMutex
	totalSubmissions      int64
	successfulSubmissions int64
	failedSubmissions     int64
	documentsExtracted    int64
	malformedFields       int64
	totalProcessingTime   time.Duration
	byService             map[string]int64
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{byService: make(map[string]int64)}
}

// OnEvent handles submission events by collecting metrics
func (o *MetricsObserver) OnEvent(ctx context.Context, event SubmissionEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch event.EventType {
	case SubmissionStarted:
		o.totalSubmissions++
		if event.Service != "" {
			o.byService[event.Service]++
		}
	case SubmissionCompleted:
		o.successfulSubmissions++
		o.documentsExtracted += int64(event.DocumentCount)
		o.totalProcessingTime += event.ProcessingTime
	case SubmissionFailed:
		o.failedSubmissions++
	case FieldMalformed:
		o.malformedFields++
	}
}

// GetObserverName returns the observer name
func (o *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}

// GetMetrics returns current metrics
func (o *MetricsObserver) GetMetrics() map[string]interface{} {
	o.mu.RLock()
	defer o.mu.RUnlock()

	avgProcessingTime := time.Duration(0)
	if o.successfulSubmissions > 0 {
		avgProcessingTime = o.totalProcessingTime / time.Duration(o.successfulSubmissions)
	}

	byService := make(map[string]int64, len(o.byService))
	for k, v := range o.byService {
		byService[k] = v
	}

	return map[string]interface{}{
		"total_submissions":      o.totalSubmissions,
		"successful_submissions": o.successfulSubmissions,
		"failed_submissions":     o.failedSubmissions,
		"documents_extracted":    o.documentsExtracted,
		"malformed_fields":       o.malformedFields,
		"avg_processing_time_ms": avgProcessingTime.Milliseconds(),
		"submissions_by_service": byService,
	}
}

// EventPublisher implements the Subject interface
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher() *EventPublisher {
	return &EventPublisher{
		observers: make([]Observer, 0),
	}
}

// Subscribe adds an observer
func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// Unsubscribe removes an observer
func (p *EventPublisher) Unsubscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, obs := range p.observers {
		if obs.GetObserverName() == observer.GetObserverName() {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			break
		}
	}
}

// NotifyObservers delivers event to every observer concurrently and
// returns once all of them have handled it.
func (p *EventPublisher) NotifyObservers(ctx context.Context, event SubmissionEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	var wg sync.WaitGroup
	for _, observer := range observers {
		wg.Add(1)
		go func(obs Observer) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					logrus.WithField("observer", obs.GetObserverName()).
						WithField("panic", r).
						Error("Observer panicked while handling event")
				}
			}()
			obs.OnEvent(ctx, event)
		}(observer)
	}
	wg.Wait()
}
