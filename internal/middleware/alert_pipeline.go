package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"TradeRelay/internal/domain/models"
	drepo "TradeRelay/internal/domain/repository"
)

// Proc is the minimal processor interface the pipeline needs.
type Proc interface {
	Process(ctx context.Context, a *models.Alert) (*models.ExecutionEvent, error)
}

// AlertPipeline sits between the webhook handler and the alert processor.
// It validates alerts and throttles per source. Failed orders are not
// buffered or retried; the outcome event is the only record.
type AlertPipeline struct {
	proc    Proc
	metrics drepo.Metrics
	maxRPS  int

	mu       sync.Mutex
	lastSeen map[string]time.Time // per-source last accepted time
}

type PipelineOption func(*AlertPipeline)

// WithMaxRPS sets the max accepted alerts per second per source.
func WithMaxRPS(n int) PipelineOption {
	return func(p *AlertPipeline) {
		if n > 0 {
			p.maxRPS = n
		}
	}
}

// NewAlertPipeline creates a new pipeline.
func NewAlertPipeline(proc Proc, metrics drepo.Metrics, opts ...PipelineOption) *AlertPipeline {
	p := &AlertPipeline{
		proc:     proc,
		metrics:  metrics,
		maxRPS:   10, // default throttle per source
		lastSeen: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ErrThrottled is returned when a source exceeds its alert rate.
var ErrThrottled = fmt.Errorf("alert throttled")

// Process validates and throttles the alert, then forwards it downstream.
func (p *AlertPipeline) Process(ctx context.Context, a *models.Alert) (*models.ExecutionEvent, error) {
	start := time.Now()
	if err := validateAlert(a); err != nil {
		p.metrics.RecordError("pipeline_validate")
		return nil, err
	}
	if !p.allow(a.Source, start) {
		p.metrics.RecordError("pipeline_throttle")
		return nil, ErrThrottled
	}

	ev, err := p.proc.Process(ctx, a)
	if err != nil {
		p.metrics.RecordError("pipeline_process")
		return ev, fmt.Errorf("pipeline downstream: %w", err)
	}
	p.metrics.RecordLatency("pipeline_process", time.Since(start).Seconds())
	return ev, nil
}

func validateAlert(a *models.Alert) error {
	if a == nil {
		return fmt.Errorf("alert nil")
	}
	if a.Symbol == "" {
		return fmt.Errorf("symbol empty")
	}
	if a.Action != "buy" && a.Action != "sell" {
		return fmt.Errorf("invalid action %q", a.Action)
	}
	if a.Quantity <= 0 {
		return fmt.Errorf("quantity invalid")
	}
	return nil
}

func (p *AlertPipeline) allow(source string, now time.Time) bool {
	if p.maxRPS <= 0 {
		return true
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	last := p.lastSeen[source]
	if last.IsZero() {
		p.lastSeen[source] = now
		return true
	}
	if now.Sub(last) < time.Second/time.Duration(p.maxRPS) {
		return false
	}
	p.lastSeen[source] = now
	return true
}
