package dto

import (
	"time"

	"coursechain/internal/model"
)

// TransactionResponseDTO is the record of one dispatched write workflow.
type TransactionResponseDTO struct {
	ID          string     `json:"id"`
	Kind        string     `json:"kind"`
	Status      string     `json:"status"`
	TxHash      string     `json:"tx_hash,omitempty"`
	Error       string     `json:"error,omitempty"`
	SubmittedAt time.Time  `json:"submitted_at"`
	SettledAt   *time.Time `json:"settled_at,omitempty"`
}

// FromTransaction maps a pending-transaction record onto its response shape.
func FromTransaction(tx model.PendingTransaction) TransactionResponseDTO {
	out := TransactionResponseDTO{
		ID:          tx.ID,
		Kind:        string(tx.Kind),
		Status:      string(tx.Status),
		TxHash:      tx.TxHash,
		Error:       tx.Error,
		SubmittedAt: tx.SubmittedAt,
	}
	if !tx.SettledAt.IsZero() {
		settled := tx.SettledAt
		out.SettledAt = &settled
	}
	return out
}

// FromTransactions maps a list of records.
func FromTransactions(txs []model.PendingTransaction) []TransactionResponseDTO {
	out := make([]TransactionResponseDTO, 0, len(txs))
	for _, tx := range txs {
		out = append(out, FromTransaction(tx))
	}
	return out
}
