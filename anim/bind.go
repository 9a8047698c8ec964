// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package anim

import "github.com/gogpu/livewire"

// Bind keeps store and worker in step with an animation: invalidated
// positions are dropped from the store and queued for rendering again, and
// duration changes resize the store. worker may be nil, in which case
// positions are rendered on demand only. The returned function stops
// following the animation.
func Bind(a Animation, store *Store, worker *Worker) (cancel func()) {
	return a.Events().Subscribe(func(e Event) {
		switch e.Kind {
		case CacheInvalidated:
			store.InvalidateRange(e.Position, e.Length)
			requeue(worker, e.Position, e.Length)
		case DurationChanged:
			old := store.Size()
			store.Resize(e.Duration)
			if e.Duration > old {
				requeue(worker, old, e.Duration-old)
			}
		}
	})
}

func requeue(w *Worker, from, n int) {
	if w == nil || n <= 0 {
		return
	}
	if err := w.Enqueue(from, n); err != nil {
		livewire.Logger().Debug("anim: requeue dropped", "from", from, "n", n, "err", err)
	}
}
