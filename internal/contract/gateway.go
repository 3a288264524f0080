package contract

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"coursechain/internal/model"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog"
)

// Reader is the fee-less, state-preserving half of the contract boundary.
type Reader interface {
	GetAdmin(ctx context.Context) (common.Address, error)
	GetCourse(ctx context.Context, id uint64) (model.Course, error)
	GetAllCourses(ctx context.Context) ([]model.Course, error)
	GetInstructorCourses(ctx context.Context, instructor common.Address) ([]uint64, error)
	GetStudentEnrollments(ctx context.Context, student common.Address) ([]uint64, error)
	CourseCreationFee(ctx context.Context) (*big.Int, error)
	PriceFeedAddress(ctx context.Context) (common.Address, error)
	// ConvertFromUSD asks the contract's oracle for the native-currency
	// amount at call time. Results must never be cached: the UI has to
	// reflect the latest rate before a payable write.
	ConvertFromUSD(ctx context.Context, amountUSD *big.Int) (*big.Int, error)
}

// Writer is the state-changing half. Every write is two-phase: a Submit
// method returns a transaction handle immediately, and Confirm suspends
// until the network reports inclusion. "Submitted" is never "applied".
type Writer interface {
	SubmitCreateCourse(ctx context.Context, title, description, coverImage string, videoURLs []string, priceUSD, fee *big.Int) (*types.Transaction, error)
	SubmitEnroll(ctx context.Context, id uint64, value *big.Int) (*types.Transaction, error)
	SubmitChangeFee(ctx context.Context, newFee *big.Int) (*types.Transaction, error)
	SubmitUpdatePriceFeed(ctx context.Context, addr common.Address) (*types.Transaction, error)
	SubmitChangeAdmin(ctx context.Context, addr common.Address) (*types.Transaction, error)
	SubmitWithdraw(ctx context.Context) (*types.Transaction, error)
	Confirm(ctx context.Context, tx *types.Transaction) error
}

// Gateway wraps the deployed marketplace contract behind a typed boundary.
type Gateway struct {
	bound   *bind.BoundContract
	backend *ethclient.Client
	address common.Address
	signer  *bind.TransactOpts
	log     zerolog.Logger
}

var _ Reader = (*Gateway)(nil)
var _ Writer = (*Gateway)(nil)

// NewGateway binds the marketplace contract at the given address. signer may
// be nil, in which case the gateway serves reads only.
func NewGateway(backend *ethclient.Client, address common.Address, signer *bind.TransactOpts, logger zerolog.Logger) (*Gateway, error) {
	parsed, err := abi.JSON(strings.NewReader(MarketplaceABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse marketplace ABI: %w", err)
	}
	return &Gateway{
		bound:   bind.NewBoundContract(address, parsed, backend, backend, backend),
		backend: backend,
		address: address,
		signer:  signer,
		log:     logger.With().Str("component", "ContractGateway").Logger(),
	}, nil
}

func (g *Gateway) call(ctx context.Context, out *[]interface{}, method string, params ...interface{}) error {
	opts := &bind.CallOpts{Context: ctx}
	if err := g.bound.Call(opts, out, method, params...); err != nil {
		return fmt.Errorf("contract read %s failed: %w", method, err)
	}
	return nil
}

func (g *Gateway) GetAdmin(ctx context.Context) (common.Address, error) {
	var out []interface{}
	if err := g.call(ctx, &out, "getAdmin"); err != nil {
		return common.Address{}, err
	}
	return *abi.ConvertType(out[0], new(common.Address)).(*common.Address), nil
}

func (g *Gateway) CourseCreationFee(ctx context.Context) (*big.Int, error) {
	var out []interface{}
	if err := g.call(ctx, &out, "courseCreationFee"); err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

func (g *Gateway) PriceFeedAddress(ctx context.Context) (common.Address, error) {
	var out []interface{}
	if err := g.call(ctx, &out, "priceFeedAddress"); err != nil {
		return common.Address{}, err
	}
	return *abi.ConvertType(out[0], new(common.Address)).(*common.Address), nil
}

func (g *Gateway) ConvertFromUSD(ctx context.Context, amountUSD *big.Int) (*big.Int, error) {
	var out []interface{}
	if err := g.call(ctx, &out, "convertFromUSD", amountUSD); err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

func (g *Gateway) GetCourse(ctx context.Context, id uint64) (model.Course, error) {
	var out []interface{}
	if err := g.call(ctx, &out, "getCourse", new(big.Int).SetUint64(id)); err != nil {
		return model.Course{}, err
	}
	raw := *abi.ConvertType(out[0], new(marketCourse)).(*marketCourse)
	return toCourse(raw), nil
}

func (g *Gateway) GetAllCourses(ctx context.Context) ([]model.Course, error) {
	var out []interface{}
	if err := g.call(ctx, &out, "getAllCourses"); err != nil {
		return nil, err
	}
	raw := *abi.ConvertType(out[0], new([]marketCourse)).(*[]marketCourse)
	courses := make([]model.Course, 0, len(raw))
	for _, c := range raw {
		courses = append(courses, toCourse(c))
	}
	return courses, nil
}

func (g *Gateway) GetInstructorCourses(ctx context.Context, instructor common.Address) ([]uint64, error) {
	var out []interface{}
	if err := g.call(ctx, &out, "getInstructorCourses", instructor); err != nil {
		return nil, err
	}
	return toIDs(*abi.ConvertType(out[0], new([]*big.Int)).(*[]*big.Int)), nil
}

func (g *Gateway) GetStudentEnrollments(ctx context.Context, student common.Address) ([]uint64, error) {
	var out []interface{}
	if err := g.call(ctx, &out, "getStudentEnrollments", student); err != nil {
		return nil, err
	}
	return toIDs(*abi.ConvertType(out[0], new([]*big.Int)).(*[]*big.Int)), nil
}

// transact dispatches one write with the given attached value.
func (g *Gateway) transact(ctx context.Context, value *big.Int, method string, params ...interface{}) (*types.Transaction, error) {
	if g.signer == nil {
		return nil, ErrNoSigner
	}
	opts := *g.signer
	opts.Context = ctx
	opts.Value = value

	tx, err := g.bound.Transact(&opts, method, params...)
	if err != nil {
		if reason := revertReason(err); reason != "" {
			return nil, NewRevertError(reason)
		}
		return nil, fmt.Errorf("contract write %s failed: %w", method, err)
	}
	g.log.Info().Str("method", method).Str("tx", tx.Hash().Hex()).Msg("transaction submitted")
	return tx, nil
}

func (g *Gateway) SubmitCreateCourse(ctx context.Context, title, description, coverImage string, videoURLs []string, priceUSD, fee *big.Int) (*types.Transaction, error) {
	return g.transact(ctx, fee, "createCourse", title, description, coverImage, videoURLs, priceUSD)
}

func (g *Gateway) SubmitEnroll(ctx context.Context, id uint64, value *big.Int) (*types.Transaction, error) {
	return g.transact(ctx, value, "enrollInCourse", new(big.Int).SetUint64(id))
}

func (g *Gateway) SubmitChangeFee(ctx context.Context, newFee *big.Int) (*types.Transaction, error) {
	return g.transact(ctx, nil, "changeCourseCreationFee", newFee)
}

func (g *Gateway) SubmitUpdatePriceFeed(ctx context.Context, addr common.Address) (*types.Transaction, error) {
	return g.transact(ctx, nil, "updatePriceFeedAddress", addr)
}

func (g *Gateway) SubmitChangeAdmin(ctx context.Context, addr common.Address) (*types.Transaction, error) {
	return g.transact(ctx, nil, "changeAdminAddress", addr)
}

func (g *Gateway) SubmitWithdraw(ctx context.Context) (*types.Transaction, error) {
	return g.transact(ctx, nil, "withdrawBalance")
}

// Confirm waits for the transaction to be mined and reports its final
// status. A mined-but-reverted transaction is replayed as a call at the
// inclusion block to recover the contract's reason string.
func (g *Gateway) Confirm(ctx context.Context, tx *types.Transaction) error {
	receipt, err := bind.WaitMined(ctx, g.backend, tx)
	if err != nil {
		return fmt.Errorf("waiting for confirmation of %s: %w", tx.Hash().Hex(), err)
	}
	if receipt.Status == types.ReceiptStatusSuccessful {
		g.log.Info().Str("tx", tx.Hash().Hex()).Uint64("block", receipt.BlockNumber.Uint64()).Msg("transaction confirmed")
		return nil
	}

	msg := ethereum.CallMsg{
		To:    tx.To(),
		Gas:   tx.Gas(),
		Value: tx.Value(),
		Data:  tx.Data(),
	}
	if g.signer != nil {
		msg.From = g.signer.From
	}
	_, callErr := g.backend.CallContract(ctx, msg, receipt.BlockNumber)
	if reason := revertReason(callErr); reason != "" {
		return NewRevertError(reason)
	}
	return ErrReverted
}

func toCourse(c marketCourse) model.Course {
	return model.Course{
		ID:          c.Id.Uint64(),
		Instructor:  c.Instructor.Hex(),
		Title:       c.Title,
		Description: c.Description,
		CoverImage:  c.CoverImage,
		VideoURLs:   c.VideoURLs,
		PriceUSD:    c.Price,
	}
}

func toIDs(raw []*big.Int) []uint64 {
	ids := make([]uint64, 0, len(raw))
	for _, id := range raw {
		ids = append(ids, id.Uint64())
	}
	return ids
}
