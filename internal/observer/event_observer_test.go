package observer

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	name   string
	mu     sync.Mutex
	events []SubmissionEvent
}

func (o *recordingObserver) OnEvent(ctx context.Context, event SubmissionEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
}

func (o *recordingObserver) GetObserverName() string { return o.name }

type panickingObserver struct{}

func (panickingObserver) OnEvent(ctx context.Context, event SubmissionEvent) { panic("boom") }
func (panickingObserver) GetObserverName() string                             { return "panicking" }

func TestEventPublisher_NotifyObservers(t *testing.T) {
	p := NewEventPublisher()
	rec := &recordingObserver{name: "rec"}
	p.Subscribe(panickingObserver{})
	p.Subscribe(rec)

	p.NotifyObservers(context.Background(), SubmissionEvent{EventType: SubmissionStarted, Service: "Receipts"})

	require.Len(t, rec.events, 1)
	assert.Equal(t, SubmissionStarted, rec.events[0].EventType)
	assert.False(t, rec.events[0].Timestamp.IsZero())

	p.Unsubscribe(rec)
	p.NotifyObservers(context.Background(), SubmissionEvent{EventType: SubmissionFailed})
	assert.Len(t, rec.events, 1)
}

func TestMetricsObserver_GetMetrics(t *testing.T) {
	m := NewMetricsObserver()
	ctx := context.Background()

	m.OnEvent(ctx, SubmissionEvent{EventType: SubmissionStarted, Service: "Receipts"})
	m.OnEvent(ctx, SubmissionEvent{EventType: SubmissionStarted, Service: "Receipts"})
	m.OnEvent(ctx, SubmissionEvent{EventType: SubmissionStarted, Service: "Invoices"})
	m.OnEvent(ctx, SubmissionEvent{EventType: SubmissionCompleted, DocumentCount: 2, ProcessingTime: 300 * time.Millisecond})
	m.OnEvent(ctx, SubmissionEvent{EventType: SubmissionCompleted, DocumentCount: 1, ProcessingTime: 100 * time.Millisecond})
	m.OnEvent(ctx, SubmissionEvent{EventType: SubmissionFailed})
	m.OnEvent(ctx, SubmissionEvent{EventType: FieldMalformed})

	metrics := m.GetMetrics()
	assert.Equal(t, int64(3), metrics["total_submissions"])
	assert.Equal(t, int64(2), metrics["successful_submissions"])
	assert.Equal(t, int64(1), metrics["failed_submissions"])
	assert.Equal(t, int64(3), metrics["documents_extracted"])
	assert.Equal(t, int64(1), metrics["malformed_fields"])
	assert.Equal(t, int64(200), metrics["avg_processing_time_ms"])
	assert.Equal(t, map[string]int64{"Receipts": 2, "Invoices": 1}, metrics["submissions_by_service"])
}

func TestLoggingObserver_OnEvent(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetFormatter(&logrus.JSONFormatter{})

	o := NewLoggingObserver(l)
	o.OnEvent(context.Background(), SubmissionEvent{
		EventType:    FieldMalformed,
		RequestID:    "req-1",
		Service:      "Invoices",
		ErrorMessage: "bad date",
		Metadata:     map[string]interface{}{"field": "InvoiceDate"},
	})

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warning", line["level"])
	assert.Equal(t, "Malformed field skipped", line["msg"])
	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, "InvoiceDate", line["field"])
	assert.Equal(t, "bad date", line["error"])
}
