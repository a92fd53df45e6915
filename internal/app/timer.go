package app

import (
	"sync"
	"time"
)

// countdown decrements once per interval and fires expire exactly once when
// the remaining time reaches zero. tick returns false to halt the loop early
// (the session uses that when it has already left in-progress). Stop is
// idempotent and safe to call from the expire callback itself.
type countdown struct {
	stop chan struct{}
	once sync.Once
}

func startCountdown(seconds int, interval time.Duration, tick func(remaining int) bool, expire func()) *countdown {
	c := &countdown{stop: make(chan struct{})}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		remaining := seconds
		for {
			select {
			case <-c.stop:
				return
			case <-ticker.C:
				// Re-check stop so a cancellation that raced the tick wins.
				select {
				case <-c.stop:
					return
				default:
				}
				remaining--
				if !tick(remaining) {
					return
				}
				if remaining <= 0 {
					expire()
					return
				}
			}
		}
	}()

	return c
}

// Stop halts the loop; no tick or expire fires after the session observes the
// stop. Further calls are no-ops.
func (c *countdown) Stop() {
	c.once.Do(func() { close(c.stop) })
}
