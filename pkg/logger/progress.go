package logger

import (
	"fmt"
	"time"
)

// ProgressTracker counts processed messages during a batch run and logs
// periodic progress. It is not safe for concurrent use; messages are
// processed one at a time.
type ProgressTracker struct {
	logger      Logger
	operation   string
	current     int64
	failed      int64
	startTime   time.Time
	lastLogTime time.Time
	logInterval time.Duration
	now         func() time.Time
}

// ProgressConfig configures progress tracking behavior
type ProgressConfig struct {
	Operation   string        `json:"operation"`
	LogInterval time.Duration `json:"log_interval"`
	Logger      Logger        `json:"-"`
}

// NewProgressTracker creates a new progress tracker
func NewProgressTracker(config ProgressConfig) *ProgressTracker {
	if config.Logger == nil {
		config.Logger = GetGlobalLogger()
	}
	if config.LogInterval == 0 {
		config.LogInterval = 5 * time.Second
	}

	start := time.Now()
	tracker := &ProgressTracker{
		logger:      config.Logger.WithComponent("progress"),
		operation:   config.Operation,
		startTime:   start,
		lastLogTime: start,
		logInterval: config.LogInterval,
		now:         time.Now,
	}

	tracker.logger.WithField("operation", config.Operation).Debug("Starting operation")

	return tracker
}

// Increment records one processed message
func (p *ProgressTracker) Increment() {
	p.current++
	p.maybeLog()
}

// Fail records one message that could not be processed
func (p *ProgressTracker) Fail() {
	p.failed++
	p.maybeLog()
}

// Complete logs final statistics
func (p *ProgressTracker) Complete() {
	stats := p.GetStats()
	p.logger.WithFields(Fields{
		"operation": p.operation,
		"processed": stats.Current,
		"failed":    stats.Failed,
		"duration":  stats.Duration.String(),
		"rate":      fmt.Sprintf("%.2f/sec", stats.Rate),
	}).Info("Operation completed")
}

// GetStats returns current progress statistics
func (p *ProgressTracker) GetStats() ProgressStats {
	duration := p.now().Sub(p.startTime)
	var rate float64
	if duration.Seconds() > 0 {
		rate = float64(p.current) / duration.Seconds()
	}

	return ProgressStats{
		Operation: p.operation,
		Current:   p.current,
		Failed:    p.failed,
		Duration:  duration,
		Rate:      rate,
	}
}

func (p *ProgressTracker) maybeLog() {
	now := p.now()
	if now.Sub(p.lastLogTime) < p.logInterval {
		return
	}
	p.lastLogTime = now

	stats := p.GetStats()
	p.logger.WithFields(Fields{
		"operation": p.operation,
		"processed": stats.Current,
		"failed":    stats.Failed,
		"rate":      fmt.Sprintf("%.2f/sec", stats.Rate),
	}).Info("Progress update")
}

// ProgressStats contains progress statistics
type ProgressStats struct {
	Operation string        `json:"operation"`
	Current   int64         `json:"current"`
	Failed    int64         `json:"failed"`
	Duration  time.Duration `json:"duration"`
	Rate      float64       `json:"rate"`
}

// String returns a human-readable representation of the progress
func (ps ProgressStats) String() string {
	return fmt.Sprintf("%s: %d processed, %d failed at %.2f/sec, elapsed: %v",
		ps.Operation, ps.Current, ps.Failed, ps.Rate, ps.Duration)
}
