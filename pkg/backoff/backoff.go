package backoff

import "time"

// Policy describes a linear reconnect delay schedule: attempt n waits
// n * BaseDelay, capped at MaxDelay. After MaxAttempts the caller is
// expected to give up.
type Policy struct {
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	MaxAttempts int
}

// DefaultPolicy matches the upstream subscription contract: 5s base,
// ten attempts, 60s ceiling.
func DefaultPolicy() Policy {
	return Policy{
		BaseDelay:   5 * time.Second,
		MaxDelay:    60 * time.Second,
		MaxAttempts: 10,
	}
}

// Delay returns the wait before reconnect attempt n (1-based). The
// schedule is non-decreasing in n.
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := time.Duration(attempt) * p.BaseDelay
	if p.MaxDelay > 0 && d > p.MaxDelay {
		d = p.MaxDelay
	}
	return d
}

// Exhausted reports whether attempt n exceeds the allowed attempt count.
func (p Policy) Exhausted(attempt int) bool {
	return p.MaxAttempts > 0 && attempt > p.MaxAttempts
}
