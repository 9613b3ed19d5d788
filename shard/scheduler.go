package shard

import (
	"time"

	"github.com/IvanBrykalov/shardstore/store"
)

// loopScheduler runs timer callbacks on the shard loop: the runtime timer
// only posts the callback, it never touches the store itself.
type loopScheduler struct {
	post func(fn func()) bool
}

var _ store.Scheduler = loopScheduler{}

func (l loopScheduler) AfterFunc(d time.Duration, fn func()) store.Timer {
	return time.AfterFunc(d, func() { l.post(fn) })
}
