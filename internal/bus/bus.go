// Package bus is the in-process publish/subscribe registry shared by the
// statistics feed and the views that render it.
package bus

import (
	"sync"

	"github.com/google/uuid"
)

// EventUpdate is the event name used for statistics feed updates.
const EventUpdate = "update"

// Callback receives the arguments passed to Emit.
type Callback func(args ...any)

// Listener identifies one registration. Off removes by this identity.
type Listener uuid.UUID

type registration struct {
	id Listener
	cb Callback
}

// Bus maps event names to an ordered list of callbacks.
type Bus struct {
	mu     sync.Mutex
	events map[string][]registration
}

// New creates an empty Bus.
func New() *Bus {
	return &Bus{events: make(map[string][]registration)}
}

// On appends cb to the listeners of name.
func (b *Bus) On(name string, cb Callback) Listener {
	id := Listener(uuid.New())
	b.mu.Lock()
	b.events[name] = append(b.events[name], registration{id: id, cb: cb})
	b.mu.Unlock()
	return id
}

// Off removes the registration l from name. Unknown listeners are ignored.
func (b *Bus) Off(name string, l Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()

	regs := b.events[name]
	kept := make([]registration, 0, len(regs))
	for _, r := range regs {
		if r.id != l {
			kept = append(kept, r)
		}
	}
	if len(kept) == 0 {
		delete(b.events, name)
		return
	}
	b.events[name] = kept
}

// Emit calls every listener of name with args, in registration order, on the
// calling goroutine. The listener list is snapshotted first, so On and Off
// calls made by a callback take effect from the next Emit.
func (b *Bus) Emit(name string, args ...any) {
	b.mu.Lock()
	snapshot := append([]registration(nil), b.events[name]...)
	b.mu.Unlock()

	for _, r := range snapshot {
		r.cb(args...)
	}
}

// Len returns the number of listeners registered for name.
func (b *Bus) Len(name string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events[name])
}
