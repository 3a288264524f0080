package model

import "time"

// TxKind names the write workflow a pending transaction belongs to.
type TxKind string

const (
	TxCreateCourse    TxKind = "create_course"
	TxEnroll          TxKind = "enroll"
	TxChangeFee       TxKind = "change_fee"
	TxUpdatePriceFeed TxKind = "update_price_feed"
	TxChangeAdmin     TxKind = "change_admin"
	TxWithdraw        TxKind = "withdraw"
)

// TxStatus is a stage of the shared write state machine. Every write moves
// Idle -> Validating -> (Publishing ->) Submitting -> Confirming and settles
// in Succeeded or Failed; there is no automatic retry out of Failed.
type TxStatus string

const (
	TxValidating TxStatus = "validating"
	TxPublishing TxStatus = "publishing"
	TxSubmitting TxStatus = "submitting"
	TxConfirming TxStatus = "confirming"
	TxSucceeded  TxStatus = "succeeded"
	TxFailed     TxStatus = "failed"
)

// Terminal reports whether the status is a settled end state.
func (s TxStatus) Terminal() bool {
	return s == TxSucceeded || s == TxFailed
}

// PendingTransaction is the transient record of one dispatched write. It is
// created when the workflow starts, updated as the state machine advances,
// and kept only in memory.
type PendingTransaction struct {
	ID          string    `json:"id"`
	Kind        TxKind    `json:"kind"`
	Status      TxStatus  `json:"status"`
	TxHash      string    `json:"tx_hash,omitempty"`
	Error       string    `json:"error,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
	SettledAt   time.Time `json:"settled_at,omitempty"`
}
