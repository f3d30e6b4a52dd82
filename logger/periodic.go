package logger

import (
	"sync"
	"time"
)

// Periodic rate-limits repeated log lines from long loops. The zero value is
// ready to use and fires on the first call. Safe for concurrent use.
type Periodic struct {
	mu   sync.Mutex
	prev time.Time
}

// Ready reports whether at least period has passed since the last accepted
// call, re-arming the gate when it has. Callers log only when it returns
// true.
func (p *Periodic) Ready(period time.Duration) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	if now.Sub(p.prev) < period {
		return false
	}
	p.prev = now
	return true
}
