package metrics

import (
	"sync/atomic"
	"time"
)

// Collector counts HTTP traffic and engine activity with atomic counters so
// recording never contends with the request path.
type Collector struct {
	totalRequests      uint64
	errorRequests      uint64
	totalDurationMs    uint64
	calculationsTotal  uint64
	calculationsFailed uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

func (c *Collector) RecordCalculation(failed bool) {
	atomic.AddUint64(&c.calculationsTotal, 1)
	if failed {
		atomic.AddUint64(&c.calculationsFailed, 1)
	}
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	errs := atomic.LoadUint64(&c.errorRequests)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":      total,
		"errorsTotal":        errs,
		"avgDurationMs":      avg,
		"calculationsTotal":  atomic.LoadUint64(&c.calculationsTotal),
		"calculationsFailed": atomic.LoadUint64(&c.calculationsFailed),
	}
}
