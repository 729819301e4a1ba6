package poller

import "context"

// Tap mirrors in onto the returned channel, calling fn with each result
// before forwarding it. The returned channel closes when in closes or ctx
// is done.
func Tap(ctx context.Context, in <-chan Result, fn func(Result)) <-chan Result {
	out := make(chan Result)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case r, ok := <-in:
				if !ok {
					return
				}
				fn(r)
				select {
				case out <- r:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
