package dataflow

import (
	"context"
	"sync"
	"time"
)

// From returns a channel that yields the given items and then closes.
func From(ctx context.Context, items ...interface{}) <-chan interface{} {
	return FromSlice(ctx, items)
}

// FromSlice returns a channel that yields the slice elements in order and
// then closes.
func FromSlice(ctx context.Context, items []interface{}) <-chan interface{} {
	out := make(chan interface{})
	go func() {
		defer close(out)
		for _, item := range items {
			select {
			case out <- item:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Map applies fn to every item from in and forwards the results.
//
// With WithRetry, a failing fn is re-applied up to maxRetries additional
// times with the configured backoff between attempts. An item that still
// fails after the final attempt is handed to the error handler (if set via
// WithErrorHandler) and dropped; the stage keeps processing. WithWorkers
// fans the stage out over n goroutines, in which case output ordering is
// not preserved.
func Map(ctx context.Context, in <-chan interface{}, fn func(interface{}) (interface{}, error), opts ...Option) <-chan interface{} {
	c := defaultConfig()
	for _, opt := range opts {
		opt(c)
	}

	out := make(chan interface{}, c.bufferSize)

	var wg sync.WaitGroup
	wg.Add(c.workers)
	for i := 0; i < c.workers; i++ {
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case msg, ok := <-in:
					if !ok {
						return
					}
					result, err := applyWithRetry(ctx, c, fn, msg)
					if err != nil {
						if c.errorHandler != nil {
							c.errorHandler(err)
						}
						continue
					}
					select {
					case out <- result:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}

func applyWithRetry(ctx context.Context, c *config, fn func(interface{}) (interface{}, error), msg interface{}) (interface{}, error) {
	attempts := c.maxRetries + 1

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		result, err := fn(msg)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == attempts {
			break
		}
		if c.backoff != nil {
			select {
			case <-time.After(c.backoff(attempt)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, lastErr
}

// ForEach drains in, calling fn for every item. The first fn error stops
// the drain and is returned.
func ForEach(ctx context.Context, in <-chan interface{}, fn func(interface{}) error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-in:
			if !ok {
				return nil
			}
			if err := fn(msg); err != nil {
				return err
			}
		}
	}
}
