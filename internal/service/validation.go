package service

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"coursechain/internal/ipfs"
	"coursechain/internal/model"

	"github.com/hashicorp/go-multierror"
)

// Local validation errors: surfaced immediately, no network call made.
var (
	// ErrReadOnly means no signing key is configured, so write workflows
	// cannot run.
	ErrReadOnly = errors.New("no wallet connected, service is read-only")

	// ErrWrongNetwork means the RPC node serves a different chain than the
	// contract was deployed to.
	ErrWrongNetwork = errors.New("connected to the wrong network")

	// ErrNotAuthorized means an admin-only workflow was invoked by a
	// non-admin account.
	ErrNotAuthorized = errors.New("admin access required")
)

// InputError marks a local validation failure: no network call was made and
// the message is safe to show to the user as-is.
type InputError struct {
	Err error
}

func (e *InputError) Error() string { return e.Err.Error() }
func (e *InputError) Unwrap() error { return e.Err }

func invalidInput(err error) error { return &InputError{Err: err} }

// validateDraft checks every submission precondition of a course draft and
// reports all failures at once.
func validateDraft(draft model.CourseDraft) error {
	var result *multierror.Error
	if strings.TrimSpace(draft.Title) == "" {
		result = multierror.Append(result, errors.New("title must not be empty"))
	}
	if strings.TrimSpace(draft.Description) == "" {
		result = multierror.Append(result, errors.New("description must not be empty"))
	}
	if draft.PriceUSD == nil || draft.PriceUSD.Sign() < 0 {
		result = multierror.Append(result, errors.New("price must be zero or positive"))
	}
	if draft.Cover.Content == nil {
		result = multierror.Append(result, errors.New("a cover image is required"))
	} else if err := ipfs.ValidateType(draft.Cover, ipfs.KindImage); err != nil {
		result = multierror.Append(result, err)
	}
	if len(draft.Videos) == 0 {
		result = multierror.Append(result, errors.New("at least one video is required"))
	}
	for _, video := range draft.Videos {
		if err := ipfs.ValidateType(video, ipfs.KindVideo); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return invalidInput(err)
	}
	return nil
}

// ParseFeeWei parses a course-creation fee given as a base-10 integer string
// of wei. Wei is the contract's native unit, so integer-only input loses no
// precision; zero and negative fees are rejected.
func ParseFeeWei(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, invalidInput(errors.New("fee must not be empty"))
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return nil, invalidInput(fmt.Errorf("fee %q is not a whole number of wei", s))
		}
	}
	fee, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, invalidInput(fmt.Errorf("fee %q is not a valid number", s))
	}
	if fee.Sign() <= 0 {
		return nil, invalidInput(errors.New("fee must be positive"))
	}
	return fee, nil
}
