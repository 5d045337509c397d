package state

import (
	"sync"

	"github.com/five82/pricewatch/internal/market"
)

// Store owns the single ViewModel instance. Dispatch is the only way to
// change it; the write lock serializes events so they apply one at a time,
// in the order they complete.
type Store struct {
	mu     sync.RWMutex
	vm     ViewModel
	subs   map[int]chan ViewModel
	nextID int
	closed bool
}

// NewStore creates a store holding the initial view model for tf.
func NewStore(tf market.Timeframe) *Store {
	return &Store{
		vm:   NewViewModel(tf),
		subs: make(map[int]chan ViewModel),
	}
}

// Dispatch applies ev and notifies subscribers. Events after Close are dropped.
func (s *Store) Dispatch(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.vm = Reduce(s.vm, ev)
	for _, ch := range s.subs {
		publish(ch, s.vm.Clone())
	}
}

// ViewModel returns a copy of the current view model.
func (s *Store) ViewModel() ViewModel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vm.Clone()
}

// Subscribe returns a channel that always holds the most recent view model
// not yet received. Slow readers skip intermediate states. The channel is
// closed by cancel or Close.
func (s *Store) Subscribe() (<-chan ViewModel, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan ViewModel, 1)
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	publish(ch, s.vm.Clone())

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if sub, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(sub)
			}
		})
	}
}

// Close releases all subscribers and freezes the view model.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}

// publish replaces any unread value with vm. Callers hold s.mu, so there is a
// single sender per channel.
func publish(ch chan ViewModel, vm ViewModel) {
	select {
	case <-ch:
	default:
	}
	ch <- vm
}
