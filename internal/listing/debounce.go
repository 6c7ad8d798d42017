package listing

import (
	"sync"
	"time"
)

// Debouncer delays an action until a quiet period has elapsed since the
// last trigger. Arming while a previous action is pending cancels it, so at
// most one action fires per quiet window. One Debouncer serves one call
// site; search and price-range filters each own theirs.
type Debouncer struct {
	window time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{window: window}
}

// Arm schedules fn to run after the quiet window, replacing any pending
// action from an earlier Arm.
func (d *Debouncer) Arm(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.window, fn)
}

// Cancel drops any pending action.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
