// Package watchlist curates signals the user has pinned for manual
// monitoring, independent of the live signal list.
package watchlist

import (
	"sync"

	"scalpSignals/internal/domain"
)

// Watchlist is a set of pinned signal snapshots keyed by signal id. Pinned
// signals have their own lifecycle: replacing a pair's live signal on
// refresh never touches a pinned copy, which only changes via an explicit
// unpin.
type Watchlist struct {
	mu     sync.RWMutex
	pinned map[string]domain.Signal
}

// New creates an empty watchlist.
func New() *Watchlist {
	return &Watchlist{
		pinned: make(map[string]domain.Signal),
	}
}

// Pin adds a snapshot of the signal to the watchlist. Idempotent: pinning an
// already-pinned signal is a no-op and reports false.
func (w *Watchlist) Pin(sig *domain.Signal) bool {
	if sig == nil || sig.ID == "" {
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, exists := w.pinned[sig.ID]; exists {
		return false
	}
	w.pinned[sig.ID] = *sig
	return true
}

// Unpin removes the signal by id. Idempotent: unpinning a signal that is not
// pinned is a no-op and reports false.
func (w *Watchlist) Unpin(signalID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, exists := w.pinned[signalID]; !exists {
		return false
	}
	delete(w.pinned, signalID)
	return true
}

// Get returns the pinned signal by id, if present.
func (w *Watchlist) Get(signalID string) (domain.Signal, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	sig, ok := w.pinned[signalID]
	return sig, ok
}

// All returns a copy of every pinned signal. Order is not meaningful.
func (w *Watchlist) All() []domain.Signal {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]domain.Signal, 0, len(w.pinned))
	for _, sig := range w.pinned {
		out = append(out, sig)
	}
	return out
}

// Len returns the number of pinned signals.
func (w *Watchlist) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.pinned)
}
