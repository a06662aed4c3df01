package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// Deduper remembers ids for a TTL so that redelivered messages are dropped.
// The set is capped at max entries: past the cap expired ids are evicted
// first, then the ids closest to expiry.
type Deduper struct {
	mu   sync.Mutex
	ttl  time.Duration
	max  int
	now  func() time.Time
	seen map[string]time.Time
}

func New(ttl time.Duration, max int) *Deduper {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if max <= 0 {
		max = 10000
	}
	return &Deduper{ttl: ttl, max: max, now: time.Now, seen: make(map[string]time.Time, max)}
}

// WithClock replaces the time source, for tests.
func (d *Deduper) WithClock(now func() time.Time) *Deduper {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.now = now
	return d
}

// ShouldProcess reports whether id has not been seen within the TTL and
// marks it as seen. An empty id is always processed.
func (d *Deduper) ShouldProcess(id string) bool {
	if id == "" {
		return true
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.now()
	if exp, ok := d.seen[id]; ok && now.Before(exp) {
		return false
	}
	d.seen[id] = now.Add(d.ttl)
	if len(d.seen) > d.max {
		d.evict(now, id)
	}
	return true
}

// evict trims the set back to max, never dropping keep.
func (d *Deduper) evict(now time.Time, keep string) {
	for k, exp := range d.seen {
		if !now.Before(exp) {
			delete(d.seen, k)
		}
	}
	for len(d.seen) > d.max {
		var oldest string
		var oldestExp time.Time
		for k, exp := range d.seen {
			if k == keep {
				continue
			}
			if oldest == "" || exp.Before(oldestExp) {
				oldest, oldestExp = k, exp
			}
		}
		delete(d.seen, oldest)
	}
}

// ShouldProcessPayload dedups on the sha256 of payload.
func (d *Deduper) ShouldProcessPayload(payload []byte) bool {
	h := sha256.Sum256(payload)
	return d.ShouldProcess(hex.EncodeToString(h[:]))
}

func (d *Deduper) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
