package dedup

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestShouldProcessDropsRepeatsWithinTTL(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	d := New(time.Minute, 10).WithClock(clock.now)

	assert.True(t, d.ShouldProcess("a"))
	assert.False(t, d.ShouldProcess("a"))
	assert.True(t, d.ShouldProcess("b"))

	clock.t = clock.t.Add(2 * time.Minute)
	assert.True(t, d.ShouldProcess("a"))
}

func TestEmptyIDAlwaysProcessed(t *testing.T) {
	d := New(time.Minute, 10)
	assert.True(t, d.ShouldProcess(""))
	assert.True(t, d.ShouldProcess(""))
	assert.Equal(t, 0, d.Len())
}

func TestExpiredEntriesAreEvictedPastCap(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	d := New(time.Second, 3).WithClock(clock.now)
	for i := 0; i < 3; i++ {
		d.ShouldProcess(fmt.Sprintf("old-%d", i))
	}
	clock.t = clock.t.Add(time.Minute)
	d.ShouldProcess("new")

	assert.LessOrEqual(t, d.Len(), 3)
}

func TestCapEvictsClosestToExpiry(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	d := New(time.Hour, 3).WithClock(clock.now)
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		assert.True(t, d.ShouldProcess(id))
		clock.t = clock.t.Add(time.Second)
	}

	assert.Equal(t, 3, d.Len())
	assert.False(t, d.ShouldProcess("e"))
	assert.False(t, d.ShouldProcess("c"))
	assert.True(t, d.ShouldProcess("a"))
	assert.Equal(t, 3, d.Len())
}

func TestShouldProcessPayload(t *testing.T) {
	d := New(time.Minute, 10)
	assert.True(t, d.ShouldProcessPayload([]byte(`{"device_id":"a"}`)))
	assert.False(t, d.ShouldProcessPayload([]byte(`{"device_id":"a"}`)))
	assert.True(t, d.ShouldProcessPayload([]byte(`{"device_id":"b"}`)))
}

func TestDefaults(t *testing.T) {
	d := New(0, 0)
	assert.Equal(t, 10*time.Minute, d.ttl)
	assert.Equal(t, 10000, d.max)
}
