// Package ledger holds the server-only ground truth for generated
// incidents, keyed by the opaque token handed to the client. Entries are
// written once at generation time, read at evaluation time, and live for
// the lifetime of the process.
package ledger

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"siemtrainer/pkg/types"
)

// ErrUnknownToken is returned when a token has no ledger entry (never
// issued, or issued by a previous process).
var ErrUnknownToken = errors.New("unknown incident token")

// Ledger is a concurrent token -> PrivateRecord map. Tokens come from a
// collision-resistant random space, so concurrent generations never
// collide.
type Ledger struct {
	mu      sync.RWMutex
	records map[string]types.PrivateRecord
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{records: make(map[string]types.PrivateRecord)}
}

// Mint stores rec under a freshly generated token and returns the token.
// A token is never reused, even across concurrent calls.
func (l *Ledger) Mint(rec types.PrivateRecord) string {
	l.mu.Lock()
	defer l.mu.Unlock()

	token := uuid.NewString()
	for {
		if _, exists := l.records[token]; !exists {
			break
		}
		token = uuid.NewString()
	}

	l.records[token] = rec
	return token
}

// Get returns the record stored under token.
func (l *Ledger) Get(token string) (types.PrivateRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	rec, ok := l.records[token]
	if !ok {
		return types.PrivateRecord{}, ErrUnknownToken
	}
	return rec, nil
}

// Len reports the number of stored records.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}
