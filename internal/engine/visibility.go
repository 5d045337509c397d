package engine

import (
	"sync"

	"go.uber.org/zap"
)

// visibilityScheduler is the single caller of poller.start and poller.stop.
type visibilityScheduler struct {
	poller *poller
	log    *zap.Logger

	mu       sync.Mutex
	known    bool
	visible  bool
	disposed bool
}

// set applies a visibility signal. Repeated values are ignored.
func (v *visibilityScheduler) set(visible bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.disposed || (v.known && v.visible == visible) {
		return
	}
	v.known = true
	v.visible = visible
	v.log.Debug("visibility changed", zap.Bool("visible", visible))
	if visible {
		v.poller.start()
	} else {
		v.poller.stop()
	}
}

// dispose stops the poller regardless of visibility. Later signals are ignored.
func (v *visibilityScheduler) dispose() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.disposed = true
	v.poller.stop()
}

func (v *visibilityScheduler) isVisible() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.known && v.visible
}
