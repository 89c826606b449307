package bus

import "encoding/json"

// UpdateEvent is one statistics feed frame with the routing prefix removed
// from its topic.
type UpdateEvent struct {
	Topic string          `json:"topic"`
	Data  json.RawMessage `json:"data"`
}

// OnUpdate registers fn for statistics updates.
func (b *Bus) OnUpdate(fn func(UpdateEvent)) Listener {
	return b.On(EventUpdate, func(args ...any) {
		for _, a := range args {
			if ev, ok := a.(UpdateEvent); ok {
				fn(ev)
			}
		}
	})
}

// EmitUpdate publishes ev under EventUpdate.
func (b *Bus) EmitUpdate(ev UpdateEvent) {
	b.Emit(EventUpdate, ev)
}
