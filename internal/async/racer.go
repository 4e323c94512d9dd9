package async

import (
	"context"
	"sync"
)

// Operation is one racing candidate. Returning an error means the
// candidate missed; a nil error is a win.
type Operation[T any] func(ctx context.Context) (T, error)

// Race runs candidates with at most limit in flight, pulled in order.
// The first operation to succeed in wall-clock time wins: everything
// still running is cancelled and abandoned, and nothing beyond the
// current window is started. Returns ok=false when every candidate
// fails or the queue is exhausted.
func Race[T any](ctx context.Context, candidates []Operation[T], limit int) (T, bool) {
	var zero T
	if len(candidates) == 0 {
		return zero, false
	}
	if limit < 1 {
		limit = 1
	}
	if limit > len(candidates) {
		limit = len(candidates)
	}

	raceCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Unbuffered so workers pull candidates strictly in order and
	// nothing is handed out past the concurrency window.
	queue := make(chan Operation[T])
	wins := make(chan T, 1)

	var wg sync.WaitGroup
	for i := 0; i < limit; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for op := range queue {
				v, err := op(raceCtx)
				if err != nil || raceCtx.Err() != nil {
					continue
				}
				select {
				case wins <- v:
					cancel()
				default:
				}
				return
			}
		}()
	}

	go func() {
		defer close(queue)
		for _, op := range candidates {
			select {
			case queue <- op:
			case <-raceCtx.Done():
				return
			}
		}
	}()

	exhausted := make(chan struct{})
	go func() {
		wg.Wait()
		close(exhausted)
	}()

	select {
	case v := <-wins:
		return v, true
	case <-exhausted:
		// A win can land in the same instant the last worker exits.
		select {
		case v := <-wins:
			return v, true
		default:
			return zero, false
		}
	}
}
