package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithOutput(&buf, "warn", "json")
	assert.Equal(t, logrus.WarnLevel, l.GetLevel())

	l.Info("dropped")
	l.WithField("reservation_id", 4).Warn("kept")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "kept", line["msg"])
	assert.EqualValues(t, 4, line["reservation_id"])
}

func TestNewFallsBackToInfo(t *testing.T) {
	l := NewWithOutput(&bytes.Buffer{}, "loud", "text")
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, l.Formatter)
}

func TestContextRoundTrip(t *testing.T) {
	l := NewWithOutput(&bytes.Buffer{}, "info", "json")
	entry := l.WithField("request_id", "abc")
	ctx := ToContext(context.Background(), entry)
	assert.Same(t, entry, FromContext(ctx))
	assert.NotNil(t, FromContext(context.Background()))
}
