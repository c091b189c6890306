// Package progress logs the throughput of long simulation batches at a
// fixed interval.
package progress

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// Reporter periodically logs how many trials a batch has completed.
// Counting is safe for concurrent use; Start and Stop are not.
type Reporter struct {
	logger   *log.Logger
	clock    quartz.Clock
	interval time.Duration
	total    uint64

	done atomic.Uint64

	mu        sync.Mutex
	stopped   bool
	timer     *quartz.Timer
	startTime time.Time
}

// New creates a reporter that logs every interval until stopped. total
// is the expected number of trials; zero suppresses the percentage.
func New(logger *log.Logger, clock quartz.Clock, interval time.Duration, total uint64) *Reporter {
	return &Reporter{
		logger:   logger.WithPrefix("progress"),
		clock:    clock,
		interval: interval,
		total:    total,
	}
}

// Add records n completed trials.
func (r *Reporter) Add(n uint64) {
	r.done.Add(n)
}

// Start begins periodic reporting. Call Stop to end it.
func (r *Reporter) Start() {
	r.mu.Lock()
	r.startTime = r.clock.Now()
	r.mu.Unlock()
	r.schedule()
}

func (r *Reporter) schedule() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}
	r.timer = r.clock.AfterFunc(r.interval, func() {
		r.report()
		r.schedule()
	})
}

func (r *Reporter) report() {
	r.mu.Lock()
	elapsed := r.clock.Since(r.startTime)
	r.mu.Unlock()

	r.logger.Info("running", r.fields(elapsed)...)
}

// Stop halts reporting and logs a final summary. Safe to call more
// than once.
func (r *Reporter) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	if r.timer != nil {
		r.timer.Stop()
	}
	elapsed := r.clock.Since(r.startTime)
	r.mu.Unlock()

	r.logger.Info("completed", r.fields(elapsed)...)
}

func (r *Reporter) fields(elapsed time.Duration) []any {
	done := r.done.Load()
	fields := []any{
		"trials", done,
		"elapsed", elapsed.Round(time.Millisecond),
	}
	if r.total > 0 {
		fields = append(fields, "pct", fmt.Sprintf("%.1f%%", float64(done)/float64(r.total)*100))
	}
	if secs := elapsed.Seconds(); secs > 0 {
		fields = append(fields, "rate", fmt.Sprintf("%.0f/s", float64(done)/secs))
	}
	return fields
}
