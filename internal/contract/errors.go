package contract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Sentinel errors for the classes of write failures the orchestrators care
// about. Gateway errors are returned, never swallowed.
var (
	// ErrNoSigner means no signing key is configured; the service is in
	// read-only mode and writes cannot be dispatched.
	ErrNoSigner = errors.New("no signing key configured")

	// ErrAlreadyEnrolled is the contract rejecting a duplicate enrollment.
	ErrAlreadyEnrolled = errors.New("already enrolled in this course")

	// ErrWrongFee is the contract rejecting a payable call whose attached
	// value does not cover the required fee or price.
	ErrWrongFee = errors.New("attached value does not cover the required fee")

	// ErrNotAdmin is the contract rejecting a restricted call from a
	// non-admin account.
	ErrNotAdmin = errors.New("caller is not the marketplace admin")

	// ErrReverted is a contract rejection that matched no known class.
	ErrReverted = errors.New("transaction reverted")
)

// RevertError carries the contract's reason string alongside the classified
// sentinel, so callers can match with errors.Is and still show the reason.
type RevertError struct {
	Reason string
	class  error
}

func (e *RevertError) Error() string {
	if e.Reason == "" {
		return e.class.Error()
	}
	return fmt.Sprintf("%s: %s", e.class.Error(), e.Reason)
}

func (e *RevertError) Unwrap() error {
	return e.class
}

// NewRevertError classifies a revert reason string reported by the contract.
func NewRevertError(reason string) *RevertError {
	return &RevertError{Reason: reason, class: classifyReason(reason)}
}

func classifyReason(reason string) error {
	r := strings.ToLower(reason)
	switch {
	case strings.Contains(r, "enrolled"):
		return ErrAlreadyEnrolled
	case strings.Contains(r, "fee"), strings.Contains(r, "insufficient"), strings.Contains(r, "price"):
		return ErrWrongFee
	case strings.Contains(r, "admin"), strings.Contains(r, "owner"):
		return ErrNotAdmin
	default:
		return ErrReverted
	}
}

// dataError is the subset of the go-ethereum rpc error type that exposes the
// revert payload.
type dataError interface {
	ErrorData() interface{}
}

// revertReason digs the ABI-encoded Error(string) payload out of an RPC
// error, if present. Returns "" when the error carries no decodable reason.
func revertReason(err error) string {
	var de dataError
	if !errors.As(err, &de) {
		return ""
	}
	hexData, ok := de.ErrorData().(string)
	if !ok {
		return ""
	}
	data, decodeErr := hexutil.Decode(hexData)
	if decodeErr != nil {
		return ""
	}
	reason, unpackErr := abi.UnpackRevert(data)
	if unpackErr != nil {
		return ""
	}
	return reason
}
