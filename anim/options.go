// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package anim

// StoreOption configures a Store during creation.
type StoreOption func(*storeOptions)

type storeOptions struct {
	size int // -1 means the recipe's duration
}

func defaultStoreOptions() storeOptions {
	return storeOptions{size: -1}
}

// WithSize sets the initial number of positions instead of the recipe's
// duration.
func WithSize(n int) StoreOption {
	return func(o *storeOptions) {
		if n >= 0 {
			o.size = n
		}
	}
}

// WorkerOption configures a Worker during creation.
type WorkerOption func(*workerOptions)

type workerOptions struct {
	observers []func(Event)
	onQueue   func(pending int)
}

func defaultWorkerOptions() workerOptions {
	return workerOptions{}
}

// WithObserver subscribes fn to the worker's CacheUpdated events.
func WithObserver(fn func(Event)) WorkerOption {
	return func(o *workerOptions) {
		if fn != nil {
			o.observers = append(o.observers, fn)
		}
	}
}

// WithQueueObserver sets a callback told the queue depth after every
// enqueue.
func WithQueueObserver(fn func(pending int)) WorkerOption {
	return func(o *workerOptions) {
		o.onQueue = fn
	}
}

// CompositorOption configures a Compositor during creation.
type CompositorOption func(*compositorOptions)

type compositorOptions struct {
	proxy      float64
	scaleCache int
}

func defaultCompositorOptions() compositorOptions {
	return compositorOptions{
		proxy:      1,
		scaleCache: 64,
	}
}

// WithProxyRatio renders frames at ratio times the full size. Ratios
// outside (0, 1] are ignored.
func WithProxyRatio(ratio float64) CompositorOption {
	return func(o *compositorOptions) {
		if ratio > 0 && ratio <= 1 {
			o.proxy = ratio
		}
	}
}

// WithScaleCache bounds how many scaled layers are kept for proxy
// rendering. 0 means unlimited.
func WithScaleCache(n int) CompositorOption {
	return func(o *compositorOptions) {
		if n >= 0 {
			o.scaleCache = n
		}
	}
}
