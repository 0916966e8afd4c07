package logger

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestSetLevel(t *testing.T) {
	defer SetLevel("info")

	tests := []struct {
		input    string
		expected logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{" WARN ", logrus.WarnLevel},
		{"error", logrus.ErrorLevel},
		{"", logrus.InfoLevel},
		{"verbose", logrus.InfoLevel},
	}

	for _, tt := range tests {
		SetLevel(tt.input)
		assert.Equal(t, tt.expected, Logger.GetLevel(), tt.input)
	}
}

func TestRequestIDContext(t *testing.T) {
	assert.Empty(t, RequestIDFromContext(context.Background()))

	ctx := ContextWithRequestID(context.Background(), "req-1")
	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
	assert.Equal(t, "req-1", FromContext(ctx).Data["request_id"])

	_, ok := FromContext(context.Background()).Data["request_id"]
	assert.False(t, ok)
}
