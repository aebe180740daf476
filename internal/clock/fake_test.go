package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func received(ch <-chan time.Time) (time.Time, bool) {
	select {
	case v := <-ch:
		return v, true
	default:
		return time.Time{}, false
	}
}

func TestFakeNowAndAdvance(t *testing.T) {
	c := Fake(epoch)
	assert.Equal(t, epoch, c.Now())

	c.Advance(5 * time.Second)
	assert.Equal(t, epoch.Add(5*time.Second), c.Now())
}

func TestFakeAfter(t *testing.T) {
	c := Fake(epoch)

	immediate := c.After(0)
	_, ok := received(immediate)
	assert.True(t, ok, "After(0) fires immediately")

	ch := c.After(3 * time.Second)
	c.Advance(2 * time.Second)
	_, ok = received(ch)
	assert.False(t, ok, "fired before deadline")

	c.Advance(time.Second)
	v, ok := received(ch)
	require.True(t, ok)
	assert.Equal(t, epoch.Add(3*time.Second), v)
	assert.Zero(t, c.PendingCount())
}

func TestFakeTicker(t *testing.T) {
	c := Fake(epoch)
	ticker := c.NewTicker(2 * time.Second)
	assert.Equal(t, 1, c.PendingCount())

	c.Advance(time.Second)
	_, ok := received(ticker.C)
	assert.False(t, ok)

	c.Advance(time.Second)
	v, ok := received(ticker.C)
	require.True(t, ok)
	assert.Equal(t, epoch.Add(2*time.Second), v)

	// Spanning several intervals leaves a single buffered tick.
	c.Advance(10 * time.Second)
	_, ok = received(ticker.C)
	assert.True(t, ok)
	_, ok = received(ticker.C)
	assert.False(t, ok)

	ticker.Stop()
	assert.Zero(t, c.PendingCount())
	c.Advance(10 * time.Second)
	_, ok = received(ticker.C)
	assert.False(t, ok, "stopped ticker does not fire")

	ticker.Reset(time.Second)
	assert.Equal(t, 1, c.PendingCount())
	c.Advance(time.Second)
	_, ok = received(ticker.C)
	assert.True(t, ok, "reset ticker fires again")
}

func TestFakeNewTickerPanicsOnZero(t *testing.T) {
	assert.Panics(t, func() { Fake(epoch).NewTicker(0) })
}

func TestFakeWaitForTimers(t *testing.T) {
	c := Fake(epoch)
	done := make(chan struct{})

	go func() {
		defer close(done)
		<-c.After(time.Second)
	}()

	c.WaitForTimers(1)
	c.Advance(time.Second)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("waiter was not released by Advance")
	}
}

func TestRealClock(t *testing.T) {
	c := Real()
	before := time.Now()
	assert.False(t, c.Now().Before(before))

	ticker := c.NewTicker(time.Millisecond)
	defer ticker.Stop()
	select {
	case <-ticker.C:
	case <-time.After(5 * time.Second):
		t.Fatal("real ticker did not tick")
	}
}
