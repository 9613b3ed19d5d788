package store

import "time"

// deadlineTimer keeps at most one scheduled callback outstanding, aimed at
// the earliest pending deadline. A callback fires at most once per arm:
// re-arming bumps seq, and a callback carrying an older seq does nothing.
type deadlineTimer struct {
	sched Scheduler
	now   func() int64
	fire  func()

	pending Timer
	at      int64
	armed   bool
	seq     uint64
}

// arm points the timer at deadline at, replacing any previous target.
func (t *deadlineTimer) arm(at int64) {
	if t.armed && t.at == at {
		return
	}
	t.cancel()
	t.seq++
	t.at, t.armed = at, true
	if t.sched == nil {
		return
	}
	delay := time.Duration(at - t.now())
	if delay < 0 {
		delay = 0
	}
	seq := t.seq
	t.pending = t.sched.AfterFunc(delay, func() {
		if !t.armed || t.seq != seq {
			return
		}
		t.armed, t.pending = false, nil
		t.fire()
	})
}

// disarm leaves the timer dormant.
func (t *deadlineTimer) disarm() {
	t.cancel()
	t.seq++
	t.armed = false
	t.at = 0
}

func (t *deadlineTimer) cancel() {
	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
}

// target returns the armed deadline.
func (t *deadlineTimer) target() (int64, bool) { return t.at, t.armed }
