package poller

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTap_ForwardsInOrder(t *testing.T) {
	in := make(chan Result, 3)
	for i := uint64(1); i <= 3; i++ {
		in <- Result{Tick: i}
	}
	close(in)

	var seen []uint64
	out := Tap(context.Background(), in, func(r Result) { seen = append(seen, r.Tick) })

	var got []uint64
	for r := range out {
		got = append(got, r.Tick)
	}
	assert.Equal(t, []uint64{1, 2, 3}, got)
	assert.Equal(t, []uint64{1, 2, 3}, seen)
}

func TestTap_StopsOnCancel(t *testing.T) {
	in := make(chan Result, 1)
	in <- Result{Tick: 1}

	ctx, cancel := context.WithCancel(context.Background())
	out := Tap(ctx, in, func(Result) {})

	// Nobody reads the first result; cancel must still release the goroutine.
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case _, ok := <-out:
		if ok {
			_, ok = <-out
		}
		require.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("tap did not close after cancel")
	}
}
