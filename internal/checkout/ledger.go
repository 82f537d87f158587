package checkout

import "sync"

// Ledger remembers which paid sessions already unlocked an analysis.
type Ledger interface {
	Redeemed(sessionID string) bool
	// Redeem marks sessionID as used; false when it was used before.
	Redeem(sessionID string) bool
	// Release makes a redeemed session usable again.
	Release(sessionID string)
}

// MemoryLedger is a process-local Ledger. Entries are lost on restart.
type MemoryLedger struct {
	mu   sync.Mutex
	used map[string]struct{}
}

// NewMemoryLedger constructs a MemoryLedger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{used: make(map[string]struct{})}
}

func (l *MemoryLedger) Redeemed(sessionID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.used[sessionID]
	return ok
}

func (l *MemoryLedger) Redeem(sessionID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.used[sessionID]; ok {
		return false
	}
	l.used[sessionID] = struct{}{}
	return true
}

func (l *MemoryLedger) Release(sessionID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.used, sessionID)
}
