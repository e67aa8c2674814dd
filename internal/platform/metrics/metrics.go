package metrics

import (
	"sync/atomic"
	"time"
)

type Collector struct {
	totalRequests   uint64
	errorRequests   uint64
	totalDurationMs uint64

	calculationRuns   uint64
	calculationFailed uint64
	payoutsWritten    uint64
	calculationMs     uint64

	approvals      uint64
	batchFailures  uint64
	lockContention uint64
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

// RecordCalculation counts one period recalculation and the payouts it produced.
func (c *Collector) RecordCalculation(payouts int, duration time.Duration, err error) {
	atomic.AddUint64(&c.calculationRuns, 1)
	if err != nil {
		atomic.AddUint64(&c.calculationFailed, 1)
		return
	}
	atomic.AddUint64(&c.payoutsWritten, uint64(payouts))
	atomic.AddUint64(&c.calculationMs, uint64(duration.Milliseconds()))
}

func (c *Collector) RecordApproval(failed bool) {
	atomic.AddUint64(&c.approvals, 1)
	if failed {
		atomic.AddUint64(&c.batchFailures, 1)
	}
}

func (c *Collector) RecordLockContention() {
	atomic.AddUint64(&c.lockContention, 1)
}

func avg(total, count uint64) float64 {
	if count == 0 {
		return 0
	}
	return float64(total) / float64(count)
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	runs := atomic.LoadUint64(&c.calculationRuns)
	failed := atomic.LoadUint64(&c.calculationFailed)
	return map[string]any{
		"requestsTotal":          total,
		"errorsTotal":            atomic.LoadUint64(&c.errorRequests),
		"avgDurationMs":          avg(atomic.LoadUint64(&c.totalDurationMs), total),
		"calculationRunsTotal":   runs,
		"calculationFailedTotal": failed,
		"payoutsWrittenTotal":    atomic.LoadUint64(&c.payoutsWritten),
		"avgCalculationMs":       avg(atomic.LoadUint64(&c.calculationMs), runs-failed),
		"approvalsTotal":         atomic.LoadUint64(&c.approvals),
		"approvalFailuresTotal":  atomic.LoadUint64(&c.batchFailures),
		"lockContentionTotal":    atomic.LoadUint64(&c.lockContention),
	}
}
