package progress

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReporterLogsAtInterval(t *testing.T) {
	ctx := context.Background()
	mockClock := quartz.NewMock(t)

	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel})

	r := New(logger, mockClock, time.Second, 1000)
	r.Start()
	r.Add(250)

	mockClock.Advance(1 * time.Second).MustWait(ctx)

	out := buf.String()
	require.Contains(t, out, "running")
	assert.Contains(t, out, "trials=250")
	assert.Contains(t, out, "pct=25.0%")
	assert.Contains(t, out, "rate=250/s")

	r.Add(750)
	mockClock.Advance(1 * time.Second).MustWait(ctx)
	assert.Contains(t, buf.String(), "trials=1000")
}

func TestReporterStop(t *testing.T) {
	ctx := context.Background()
	mockClock := quartz.NewMock(t)

	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel})

	r := New(logger, mockClock, time.Second, 0)
	r.Start()
	r.Add(42)
	mockClock.Advance(1 * time.Second).MustWait(ctx)

	running := strings.Count(buf.String(), "running")
	require.Equal(t, 1, running)

	r.Stop()
	require.Contains(t, buf.String(), "completed")

	// No further reports once stopped.
	mockClock.Advance(5 * time.Second).MustWait(ctx)
	assert.Equal(t, running, strings.Count(buf.String(), "running"))

	// Stop is idempotent.
	r.Stop()
	assert.Equal(t, 1, strings.Count(buf.String(), "completed"))
}

func TestReporterWithoutTotal(t *testing.T) {
	ctx := context.Background()
	mockClock := quartz.NewMock(t)

	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel})

	r := New(logger, mockClock, time.Second, 0)
	r.Start()
	r.Add(10)
	mockClock.Advance(1 * time.Second).MustWait(ctx)

	assert.Contains(t, buf.String(), "trials=10")
	assert.NotContains(t, buf.String(), "pct=")
}
