// Package shard owns a store.Store on a single goroutine. Every operation
// and every expiration timer runs on that goroutine, one at a time, which is
// the execution model the store expects.
package shard

import (
	"context"
	"errors"
	"sync"

	"github.com/IvanBrykalov/shardstore/internal/util"
	"github.com/IvanBrykalov/shardstore/logging"
	"github.com/IvanBrykalov/shardstore/store"
)

// ErrClosed is returned for work submitted after Close.
var ErrClosed = errors.New("shard: closed")

// Shard runs jobs against its store on one loop goroutine.
type Shard struct {
	st   *store.Store
	jobs chan func()
	quit chan struct{}
	done chan struct{}

	// mu guards stopping. Senders hold it shared while enqueueing, so once
	// Close has set stopping every accepted job is already in jobs.
	mu        sync.RWMutex
	stopping  bool
	closeOnce sync.Once
	log       logging.Logger

	// ---- hot counters (separate cache lines to avoid false sharing) ----
	_         util.CacheLinePad
	submitted util.PaddedAtomicUint64
	executed  util.PaddedAtomicUint64
}

// Stats is a snapshot of the shard's job counters.
type Stats struct {
	Submitted uint64
	Executed  uint64
}

type result struct {
	err      error
	panicked bool
	p        any
}

// New starts a shard loop with the provided Options.
func New(opt Options) *Shard {
	if opt.QueueSize <= 0 {
		opt.QueueSize = defaultQueueSize
	}
	if opt.Logger == nil {
		opt.Logger = logging.Nop()
	}
	if opt.Name == "" {
		opt.Name = "shard"
	}
	if opt.Store.Logger == nil {
		opt.Store.Logger = opt.Logger
	}

	s := &Shard{
		jobs: make(chan func(), opt.QueueSize),
		quit: make(chan struct{}),
		done: make(chan struct{}),
		log:  opt.Logger,
	}
	opt.Store.Scheduler = loopScheduler{post: s.post}
	s.st = store.New(opt.Store)

	go s.loop(opt.Name)
	return s
}

// Do runs fn on the shard loop and waits for it. A panic inside fn (such as
// a *store.ContractError) is re-raised on the caller; the loop keeps going.
// If ctx ends first Do returns ctx.Err(); a job already queued still runs.
func (s *Shard) Do(ctx context.Context, fn func(st *store.Store) error) error {
	res := make(chan result, 1)
	if err := s.enqueue(ctx, func() { res <- run(s.st, fn) }); err != nil {
		return err
	}

	var r result
	select {
	case r = <-res:
	case <-ctx.Done():
		return ctx.Err()
	}
	if r.panicked {
		panic(r.p)
	}
	return r.err
}

// Post queues fn without waiting. A nil error means fn will run, even if
// Close is called right after. A panic inside fn is fatal.
func (s *Shard) Post(fn func(st *store.Store)) error {
	return s.enqueue(context.Background(), func() { fn(s.st) })
}

// Stats returns the job counters.
func (s *Shard) Stats() Stats {
	return Stats{Submitted: s.submitted.Load(), Executed: s.executed.Load()}
}

// Close stops the loop after running already queued jobs. Pending timers
// are dropped. It is safe to call more than once.
func (s *Shard) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.stopping = true
		s.mu.Unlock()
		close(s.quit)
		<-s.done
	})
	return nil
}

// enqueue hands fn to the loop. Once it returns nil, fn is guaranteed to
// run: the loop only stops after Close has shut out new senders and the
// queue is empty.
func (s *Shard) enqueue(ctx context.Context, fn func()) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.stopping {
		return ErrClosed
	}
	select {
	case s.jobs <- fn:
		s.submitted.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// post is the scheduler's entry point for timer callbacks.
func (s *Shard) post(fn func()) bool {
	if err := s.enqueue(context.Background(), fn); err != nil {
		s.log.Warn("timer callback dropped: shard closed")
		return false
	}
	return true
}

func (s *Shard) loop(name string) {
	defer close(s.done)
	s.log.Infof("%s: loop started", name)
	for {
		select {
		case fn := <-s.jobs:
			fn()
			s.executed.Add(1)
		case <-s.quit:
			for {
				select {
				case fn := <-s.jobs:
					fn()
					s.executed.Add(1)
				default:
					s.log.Infof("%s: loop stopped, %d entries resident", name, s.st.Len())
					return
				}
			}
		}
	}
}

func run(st *store.Store, fn func(st *store.Store) error) (r result) {
	defer func() {
		if p := recover(); p != nil {
			r = result{panicked: true, p: p}
		}
	}()
	return result{err: fn(st)}
}
