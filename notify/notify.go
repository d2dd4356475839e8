package notify

import "sync"

// Action is invoked when its badge is emitted.
type Action func()

// Dispatcher maps small integer badges to actions, standing in for the
// interrupt-to-signal translation of the real deployment. Emitting a badge
// with no registered action is an explicit no-op.
type Dispatcher struct {
	mu      sync.RWMutex
	actions map[uint32]Action
}

// NewDispatcher creates an empty dispatch table.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{actions: make(map[uint32]Action)}
}

// Register binds fn to badge, replacing any previous binding.
func (d *Dispatcher) Register(badge uint32, fn Action) {
	d.mu.Lock()
	d.actions[badge] = fn
	d.mu.Unlock()
}

// Emit invokes the action bound to badge, if any.
func (d *Dispatcher) Emit(badge uint32) {
	d.mu.RLock()
	fn := d.actions[badge]
	d.mu.RUnlock()

	if fn != nil {
		fn()
	}
}
