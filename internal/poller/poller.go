// Package poller keeps a sensor record set fresh by fetching it once on
// start and then on a fixed interval until stopped.
//
// Each fetch is tagged with a monotonically increasing tick id. Completed
// fetches pass through a single dispatcher goroutine before reaching the
// consumer, which is where out-of-order completions are sequenced.
package poller

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rileyhilliard/sensordash/internal/errors"
	"github.com/rileyhilliard/sensordash/internal/logger"
	"github.com/rileyhilliard/sensordash/internal/sensor"
)

// DefaultInterval is the refresh period used when none is configured.
const DefaultInterval = 15 * time.Second

// Fetcher retrieves the full record set.
type Fetcher interface {
	Fetch(ctx context.Context) ([]sensor.Record, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context) ([]sensor.Record, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context) ([]sensor.Record, error) {
	return f(ctx)
}

// Observer is notified about fetch outcomes. Implementations must be safe
// for concurrent use.
type Observer interface {
	FetchSucceeded(records int, d time.Duration)
	FetchFailed(d time.Duration)
	ResultDropped()
}

// Ordering controls how completions that arrive out of order are handled.
type Ordering int

const (
	// OrderLatest drops any result whose tick is not newer than the last
	// successful result already delivered.
	OrderLatest Ordering = iota
	// OrderCompletion delivers every result in completion order, so a slow
	// older fetch can overwrite newer data.
	OrderCompletion
)

// String returns the config spelling of the ordering.
func (o Ordering) String() string {
	switch o {
	case OrderLatest:
		return "latest"
	case OrderCompletion:
		return "completion"
	default:
		return "unknown"
	}
}

// ParseOrdering parses "latest" or "completion".
func ParseOrdering(s string) (Ordering, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "latest":
		return OrderLatest, nil
	case "completion":
		return OrderCompletion, nil
	default:
		return OrderLatest, fmt.Errorf("unknown ordering %q (want latest or completion)", s)
	}
}

// Options configures a Poller.
type Options struct {
	// Interval between scheduled ticks. Zero uses DefaultInterval.
	Interval time.Duration
	// Timeout bounds each fetch. Zero means no timeout.
	Timeout time.Duration
	// Ordering policy for out-of-order completions.
	Ordering Ordering
	Logger   logger.Logger
	Observer Observer
}

// Result is the outcome of one tick.
type Result struct {
	Tick     uint64
	Records  []sensor.Record
	Err      error
	Started  time.Time
	Finished time.Time
}

// Duration is how long the fetch took.
func (r Result) Duration() time.Duration {
	return r.Finished.Sub(r.Started)
}

// OK reports whether the fetch succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Poller owns the refresh schedule and its goroutines.
type Poller struct {
	fetcher Fetcher
	opts    Options

	results     chan Result
	completions chan Result
	refresh     chan struct{}

	mu      sync.Mutex
	started bool
	stopped bool
	cancel  context.CancelFunc

	stopOnce     sync.Once
	wg           sync.WaitGroup
	dispatchDone chan struct{}

	tick     atomic.Uint64
	inFlight atomic.Int32
}

// New creates a poller. Nothing runs until Start.
func New(fetcher Fetcher, opts Options) *Poller {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Logger == nil {
		opts.Logger = logger.Noop()
	}
	if opts.Observer == nil {
		opts.Observer = nopObserver{}
	}
	return &Poller{
		fetcher:      fetcher,
		opts:         opts,
		results:      make(chan Result),
		completions:  make(chan Result),
		refresh:      make(chan struct{}, 1),
		dispatchDone: make(chan struct{}),
	}
}

// Interval returns the configured refresh period.
func (p *Poller) Interval() time.Duration {
	return p.opts.Interval
}

// Results returns the channel results are delivered on. It is closed once
// the poller has stopped.
func (p *Poller) Results() <-chan Result {
	return p.results
}

// Start issues the first fetch immediately and schedules the rest. Calling
// Start more than once, or after Stop, does nothing.
func (p *Poller) Start(ctx context.Context) <-chan Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started || p.stopped {
		return p.results
	}
	p.started = true

	ctx, p.cancel = context.WithCancel(ctx)

	go p.dispatch(ctx)

	p.wg.Add(1)
	go p.loop(ctx)

	return p.results
}

// InFlight returns the number of fetches currently running.
func (p *Poller) InFlight() int {
	return int(p.inFlight.Load())
}

// Refresh requests an extra tick as soon as possible. Requests made while
// one is already pending are coalesced.
func (p *Poller) Refresh() {
	select {
	case p.refresh <- struct{}{}:
	default:
	}
}

// Stop cancels the schedule and any in-flight fetches, waits for the
// poller's goroutines and closes the results channel. It is safe to call
// more than once; only the first call does anything. No result is delivered
// after Stop returns.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		p.mu.Lock()
		p.stopped = true
		started := p.started
		cancel := p.cancel
		p.mu.Unlock()

		if !started {
			close(p.results)
			return
		}

		cancel()
		p.wg.Wait()
		<-p.dispatchDone
		p.opts.Logger.Debug("poller stopped after %d ticks", p.tick.Load())
	})
}

// loop fires ticks until the context is cancelled.
func (p *Poller) loop(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.opts.Interval)
	defer ticker.Stop()

	p.launch(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.launch(ctx)
		case <-p.refresh:
			p.launch(ctx)
		}
	}
}

// launch starts one fetch in its own goroutine so a slow endpoint never
// delays the next tick.
func (p *Poller) launch(ctx context.Context) {
	id := p.tick.Add(1)
	p.inFlight.Add(1)
	p.wg.Add(1)
	go p.fetch(ctx, id)
}

func (p *Poller) fetch(ctx context.Context, id uint64) {
	defer p.wg.Done()
	defer p.inFlight.Add(-1)

	fctx := ctx
	if p.opts.Timeout > 0 {
		var cancel context.CancelFunc
		fctx, cancel = context.WithTimeout(ctx, p.opts.Timeout)
		defer cancel()
	}

	p.opts.Logger.Debug("tick %d: fetching", id)
	started := time.Now()
	records, err := p.fetcher.Fetch(fctx)
	finished := time.Now()

	if ctx.Err() != nil {
		// Torn down while in flight.
		return
	}

	elapsed := finished.Sub(started)
	if err != nil {
		p.opts.Logger.Error("tick %d: fetch failed after %s: %s", id, elapsed.Round(time.Millisecond), errors.Summarize(err))
	} else {
		p.opts.Logger.Debug("tick %d: fetched %d records in %s", id, len(records), elapsed.Round(time.Millisecond))
	}

	select {
	case p.completions <- Result{Tick: id, Records: records, Err: err, Started: started, Finished: finished}:
	case <-ctx.Done():
	}
}

// dispatch is the single writer to the results channel. The observer hears
// about a result only once it is known to be delivered or dropped.
func (p *Poller) dispatch(ctx context.Context) {
	defer close(p.dispatchDone)
	defer close(p.results)

	var lastApplied uint64
	for {
		select {
		case <-ctx.Done():
			return
		case r := <-p.completions:
			if p.opts.Ordering == OrderLatest && r.Tick <= lastApplied {
				p.opts.Logger.Debug("tick %d: dropped, tick %d already applied", r.Tick, lastApplied)
				p.opts.Observer.ResultDropped()
				continue
			}

			if r.OK() {
				p.opts.Observer.FetchSucceeded(len(r.Records), r.Duration())
			} else {
				p.opts.Observer.FetchFailed(r.Duration())
			}

			select {
			case p.results <- r:
				if r.OK() && r.Tick > lastApplied {
					lastApplied = r.Tick
				}
			case <-ctx.Done():
				return
			}
		}
	}
}

type nopObserver struct{}

func (nopObserver) FetchSucceeded(int, time.Duration) {}
func (nopObserver) FetchFailed(time.Duration)         {}
func (nopObserver) ResultDropped()                    {}
