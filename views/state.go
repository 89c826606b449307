package views

import "time"

// ViewLoaded is posted from a background load when a view's data arrives
// or fails.
type ViewLoaded struct {
	Tab int
	Err error
}

// StatsUpdated is posted by the stats view whenever the feed delivers an
// update, triggering a redraw.
type StatsUpdated struct{}

// freshness tracks when a view last loaded successfully.
type freshness struct {
	loaded   bool
	loadedAt time.Time
	ttl      time.Duration
}

func (f *freshness) touch() {
	f.loaded = true
	f.loadedAt = time.Now()
}

// Loaded reports whether data has been fetched at least once.
func (f *freshness) Loaded() bool {
	return f.loaded
}

// Stale reports whether the data is missing or older than the TTL.
func (f *freshness) Stale() bool {
	if !f.loaded {
		return true
	}
	return time.Since(f.loadedAt) > f.ttl
}
