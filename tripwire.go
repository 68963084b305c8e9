package streams

import (
	"log"
	"sync"
	"sync/atomic"
)

// tripwire is a feature flagged diagnostic channel signalling accidental boxing or adapter
// fallback on a typed path. It is the only process wide state in the package and is off by
// default; enabling it routes one diagnostic line per trip site to the handler.
type tripwire struct {
	enabled atomic.Bool
	mutex   sync.Mutex
	handler func(msg string)
}

// Tripwire the process wide diagnostic channel.
var Tripwire = &tripwire{}

// Enable turns the diagnostic channel on.
func (t *tripwire) Enable() {
	t.enabled.Store(true)
}

// Disable turns the diagnostic channel off.
func (t *tripwire) Disable() {
	t.enabled.Store(false)
}

// SetHandler installs the function diagnostics are routed to. A nil handler restores the
// default which writes through the standard logger.
func (t *tripwire) SetHandler(handler func(msg string)) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.handler = handler
}

// trip emits a diagnostic if the channel is enabled.
func (t *tripwire) trip(msg string) {
	if !t.enabled.Load() {
		return
	}
	t.mutex.Lock()
	handler := t.handler
	t.mutex.Unlock()
	if handler == nil {
		log.Println(msg)
		return
	}
	handler(msg)
}
