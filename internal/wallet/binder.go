package wallet

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"coursechain/internal/model"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/rs/zerolog"
)

// ChainReader reports the id of the network the RPC node serves.
type ChainReader interface {
	ChainID(ctx context.Context) (*big.Int, error)
}

// AdminReader reads the contract's configured admin address.
type AdminReader interface {
	GetAdmin(ctx context.Context) (common.Address, error)
}

// Binder derives the connection state: the active account, the chain id, and
// whether the account is the marketplace admin. It is the only writer of the
// shared state; everyone else reads snapshots through Current.
type Binder struct {
	account *common.Address
	chain   ChainReader
	admin   AdminReader
	log     zerolog.Logger

	mu    sync.RWMutex
	state model.ConnectionState
}

// NewBinder creates a Binder. account is nil when no signing key is
// configured, which leaves the service in read-only browsing mode.
func NewBinder(account *common.Address, chain ChainReader, admin AdminReader, logger zerolog.Logger) *Binder {
	return &Binder{
		account: account,
		chain:   chain,
		admin:   admin,
		log:     logger.With().Str("component", "WalletBinder").Logger(),
	}
}

// Bind resolves the connection state with two read calls. Read failures are
// logged and fail open: the result is best-effort, never an error, so page
// loads are not blocked on RPC flakiness. IsAdmin is only ever true when the
// admin address was actually read and matched.
func (b *Binder) Bind(ctx context.Context) model.ConnectionState {
	state := model.ConnectionState{}

	if b.account == nil {
		b.store(state)
		return state
	}
	account := b.account.Hex()
	state.Account = &account

	if chainID, err := b.chain.ChainID(ctx); err != nil {
		b.log.Warn().Err(err).Msg("could not read chain id")
	} else {
		id := chainID.Uint64()
		state.ChainID = &id
	}

	if admin, err := b.admin.GetAdmin(ctx); err != nil {
		b.log.Warn().Err(err).Msg("could not read admin address, assuming not admin")
	} else {
		state.IsAdmin = admin == *b.account
	}

	b.store(state)
	return state
}

// Current returns the last bound state.
func (b *Binder) Current() model.ConnectionState {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

func (b *Binder) store(state model.ConnectionState) {
	b.mu.Lock()
	b.state = state
	b.mu.Unlock()
}

// ParseSigner turns a hex private key into transact options bound to the
// given chain, returning the derived account address alongside.
func ParseSigner(hexKey string, chainID uint64) (*bind.TransactOpts, common.Address, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, common.Address{}, fmt.Errorf("invalid signer key: %w", err)
	}
	opts, err := bind.NewKeyedTransactorWithChainID(key, new(big.Int).SetUint64(chainID))
	if err != nil {
		return nil, common.Address{}, fmt.Errorf("failed to build transactor: %w", err)
	}
	return opts, crypto.PubkeyToAddress(key.PublicKey), nil
}
