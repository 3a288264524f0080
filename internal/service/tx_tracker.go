package service

import (
	"sync"
	"time"

	"coursechain/internal/model"

	"github.com/google/uuid"
)

// TxTracker records every dispatched write and its progress through the
// shared state machine. Records are transient: they live in memory for the
// session and are never retried.
type TxTracker struct {
	mu    sync.Mutex
	txs   map[string]*model.PendingTransaction
	order []string
}

func NewTxTracker() *TxTracker {
	return &TxTracker{txs: make(map[string]*model.PendingTransaction)}
}

// Begin creates a record in the Validating state and returns its id.
func (t *TxTracker) Begin(kind model.TxKind) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := uuid.NewString()
	t.txs[id] = &model.PendingTransaction{
		ID:          id,
		Kind:        kind,
		Status:      model.TxValidating,
		SubmittedAt: time.Now(),
	}
	t.order = append(t.order, id)
	return id
}

// Advance moves a record to a non-terminal stage.
func (t *TxTracker) Advance(id string, status model.TxStatus) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if tx, ok := t.txs[id]; ok && !tx.Status.Terminal() {
		tx.Status = status
	}
}

// SetHash attaches the on-chain transaction hash once submission returned.
func (t *TxTracker) SetHash(id, hash string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if tx, ok := t.txs[id]; ok {
		tx.TxHash = hash
	}
}

// Succeed settles a record as confirmed.
func (t *TxTracker) Succeed(id string) {
	t.settle(id, model.TxSucceeded, "")
}

// Fail settles a record with a user-visible message.
func (t *TxTracker) Fail(id, message string) {
	t.settle(id, model.TxFailed, message)
}

func (t *TxTracker) settle(id string, status model.TxStatus, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if tx, ok := t.txs[id]; ok && !tx.Status.Terminal() {
		tx.Status = status
		tx.Error = message
		tx.SettledAt = time.Now()
	}
}

// Get returns a copy of one record.
func (t *TxTracker) Get(id string) (model.PendingTransaction, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	tx, ok := t.txs[id]
	if !ok {
		return model.PendingTransaction{}, false
	}
	return *tx, true
}

// List returns copies of all records, newest first.
func (t *TxTracker) List() []model.PendingTransaction {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]model.PendingTransaction, 0, len(t.order))
	for i := len(t.order) - 1; i >= 0; i-- {
		out = append(out, *t.txs[t.order[i]])
	}
	return out
}
