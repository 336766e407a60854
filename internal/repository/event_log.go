package repository

import (
	"sync"

	"TradeRelay/internal/domain/models"
	"TradeRelay/internal/domain/repository"
)

// MemoryEventLog is a bounded in-memory event ring. There is deliberately no
// durable store behind it; history is capped at the configured capacity.
type MemoryEventLog struct {
	mu   sync.RWMutex
	buf  []*models.ExecutionEvent
	next int
	full bool
}

// NewMemoryEventLog creates an event log holding up to capacity events.
func NewMemoryEventLog(capacity int) repository.EventLog {
	if capacity <= 0 {
		capacity = 500
	}
	return &MemoryEventLog{buf: make([]*models.ExecutionEvent, capacity)}
}

func (l *MemoryEventLog) Append(e *models.ExecutionEvent) {
	if e == nil {
		return
	}
	l.mu.Lock()
	l.buf[l.next] = e
	l.next++
	if l.next == len(l.buf) {
		l.next = 0
		l.full = true
	}
	l.mu.Unlock()
}

// Recent returns up to limit events, newest first.
func (l *MemoryEventLog) Recent(limit int) []*models.ExecutionEvent {
	l.mu.RLock()
	defer l.mu.RUnlock()

	size := l.next
	if l.full {
		size = len(l.buf)
	}
	if limit <= 0 || limit > size {
		limit = size
	}

	out := make([]*models.ExecutionEvent, 0, limit)
	for i := 0; i < limit; i++ {
		idx := l.next - 1 - i
		if idx < 0 {
			idx += len(l.buf)
		}
		out = append(out, l.buf[idx])
	}
	return out
}

func (l *MemoryEventLog) Summary() models.ExecutionSummary {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var s models.ExecutionSummary
	size := l.next
	if l.full {
		size = len(l.buf)
	}
	for i := 0; i < size; i++ {
		e := l.buf[i]
		if e == nil {
			continue
		}
		s.Total++
		switch e.Type {
		case models.EventOrderPlaced:
			s.Placed++
			// broker status distinguishes fills from resting orders
			if e.Status == "filled" {
				s.Filled++
			} else {
				s.Pending++
			}
		case models.EventOrderRejected:
			s.Rejected++
		}
		if e.IsProxy() {
			s.Proxied++
		}
	}
	return s
}
