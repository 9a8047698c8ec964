// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package anim

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/gogpu/livewire"
	"github.com/gogpu/livewire/internal/cache"
)

// stopSentinel is pushed to the front of the queue to stop the loop.
const stopSentinel = -1

// Worker renders queued frame positions on a single background goroutine.
//
// Pending positions are ordered by how far ahead of the current playback
// position they are, wrapping around the end of the store, so frames about
// to be shown render first. Completed positions are collected in an
// acknowledgment queue that the host drains by calling Idle from its own
// loop; Idle emits a CacheUpdated event per position in completion order.
//
// Thread safety: Worker is safe for concurrent use.
type Worker struct {
	store  *Store
	opts   workerOptions
	events Observers

	mu       sync.Mutex
	cond     *sync.Cond
	queue    *cache.List[int]
	current  int
	inFlight bool
	acks     []int

	ctx    context.Context
	cancel context.CancelFunc

	wg      sync.WaitGroup
	running atomic.Bool
	started atomic.Bool
}

// NewWorker creates a worker feeding store. Positions may be enqueued
// before Start; nothing renders until then.
func NewWorker(store *Store, opts ...WorkerOption) *Worker {
	o := defaultWorkerOptions()
	for _, opt := range opts {
		opt(&o)
	}

	w := &Worker{
		store: store,
		opts:  o,
		queue: cache.NewList[int](),
	}
	w.cond = sync.NewCond(&w.mu)
	w.ctx, w.cancel = context.WithCancel(context.Background())
	for _, fn := range o.observers {
		w.events.Subscribe(fn)
	}
	w.running.Store(true)
	return w
}

// Start launches the background goroutine. Calling Start more than once
// has no effect. Returns ErrWorkerClosed after Close.
func (w *Worker) Start() error {
	if !w.running.Load() {
		return ErrWorkerClosed
	}
	if !w.started.CompareAndSwap(false, true) {
		return nil
	}
	w.wg.Add(1)
	go w.loop()
	livewire.Logger().Info("anim: render worker started")
	return nil
}

// Events returns the observer list CacheUpdated events are emitted on.
func (w *Worker) Events() *Observers {
	return &w.events
}

// Enqueue requests n positions starting at from. A position that is
// already pending is moved to its new sorted place instead of being
// queued twice.
func (w *Worker) Enqueue(from, n int) error {
	if !w.running.Load() {
		return ErrWorkerClosed
	}

	w.mu.Lock()
	size := w.store.Size()
	less := func(a, b int) bool {
		if b < 0 {
			return false
		}
		return w.distance(a, size) < w.distance(b, size)
	}
	for pos := from; pos < from+n; pos++ {
		if pos < 0 {
			continue
		}
		w.queue.InsertSorted(pos, less)
	}
	pending := w.queue.Len()
	w.cond.Signal()
	w.mu.Unlock()

	livewire.Logger().Debug("anim: frames queued", "from", from, "n", n, "pending", pending)
	if w.opts.onQueue != nil {
		w.opts.onQueue(pending)
	}
	return nil
}

// distance is how far ahead of the current position pos lies, modulo
// size. Must be called with w.mu held.
func (w *Worker) distance(pos, size int) int {
	if size <= 0 {
		return pos
	}
	return ((pos-w.current)%size + size) % size
}

// SetPosition sets the playback position used to order later requests.
// Already queued positions keep their place.
func (w *Worker) SetPosition(pos int) {
	w.mu.Lock()
	w.current = pos
	w.mu.Unlock()
}

// Position returns the current playback position.
func (w *Worker) Position() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// Pending returns the queued positions in processing order.
func (w *Worker) Pending() []int {
	w.mu.Lock()
	defer w.mu.Unlock()
	keys := w.queue.Keys()
	out := keys[:0]
	for _, k := range keys {
		if k >= 0 {
			out = append(out, k)
		}
	}
	return out
}

// Idle drains the acknowledgment queue, emitting one CacheUpdated event
// per completed position. It reports whether work remains, so a host loop
// can stop polling once it returns false.
func (w *Worker) Idle() bool {
	w.mu.Lock()
	acks := w.acks
	w.acks = nil
	more := w.running.Load() && (w.queue.Len() > 0 || w.inFlight)
	w.mu.Unlock()

	for _, pos := range acks {
		w.events.Emit(Event{Kind: CacheUpdated, Position: pos, Length: 1})
	}
	return more
}

// Close stops the worker and waits for the goroutine to exit. A render in
// progress runs to completion; positions still queued are dropped. Close
// is idempotent.
func (w *Worker) Close() error {
	if !w.running.CompareAndSwap(true, false) {
		return nil
	}

	w.mu.Lock()
	w.queue.PushFront(stopSentinel)
	w.cond.Signal()
	w.mu.Unlock()

	w.wg.Wait()
	w.cancel()

	w.mu.Lock()
	w.queue.Clear()
	w.mu.Unlock()

	livewire.Logger().Info("anim: render worker stopped")
	return nil
}

func (w *Worker) loop() {
	defer w.wg.Done()

	for {
		w.mu.Lock()
		for w.queue.Len() == 0 {
			w.cond.Wait()
		}
		pos, _ := w.queue.PopFront()
		if pos < 0 {
			w.mu.Unlock()
			return
		}
		w.inFlight = true
		w.mu.Unlock()

		w.process(pos)
		runtime.Gosched()
	}
}

func (w *Worker) process(pos int) {
	log := livewire.Logger()

	// The store may have shrunk since the request was queued.
	if pos >= w.store.Size() {
		log.Debug("anim: stale frame skipped", "pos", pos)
		w.mu.Lock()
		w.inFlight = false
		w.mu.Unlock()
		return
	}

	_, err := w.store.GetOrRender(w.ctx, pos)

	w.mu.Lock()
	w.inFlight = false
	if err == nil {
		w.acks = append(w.acks, pos)
	}
	w.mu.Unlock()

	if err != nil {
		log.Warn("anim: render failed", "pos", pos, "err", err)
	}
}
