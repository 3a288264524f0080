package wallet

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
)

type chainStub struct {
	id  uint64
	err error
}

func (c *chainStub) ChainID(ctx context.Context) (*big.Int, error) {
	if c.err != nil {
		return nil, c.err
	}
	return new(big.Int).SetUint64(c.id), nil
}

type adminStub struct {
	admin common.Address
	err   error
}

func (a *adminStub) GetAdmin(ctx context.Context) (common.Address, error) {
	if a.err != nil {
		return common.Address{}, a.err
	}
	return a.admin, nil
}

var (
	someAccount = common.HexToAddress("0xAAaAaAaaAaAaAaaAaAAAAAAAAaaaAaAaAaaAaaAA")
	otherAdmin  = common.HexToAddress("0xBbbBBBbbBBBbbbBbbBbbbbBBbBbbbbBbBbbBBbBB")
)

func TestBindWithoutAccount(t *testing.T) {
	b := NewBinder(nil, &chainStub{id: 1}, &adminStub{admin: otherAdmin}, zerolog.Nop())
	state := b.Bind(context.Background())

	if state.Account != nil {
		t.Errorf("Account = %v, want nil", *state.Account)
	}
	if state.CanWrite() {
		t.Error("no account must mean read-only")
	}
	if state.IsAdmin {
		t.Error("no account can never be admin")
	}
}

func TestBindResolvesAdmin(t *testing.T) {
	b := NewBinder(&someAccount, &chainStub{id: 31337}, &adminStub{admin: someAccount}, zerolog.Nop())
	state := b.Bind(context.Background())

	if state.Account == nil || *state.Account != someAccount.Hex() {
		t.Fatalf("Account = %v, want %s", state.Account, someAccount.Hex())
	}
	if state.ChainID == nil || *state.ChainID != 31337 {
		t.Fatalf("ChainID = %v, want 31337", state.ChainID)
	}
	if !state.IsAdmin {
		t.Error("account matching the contract admin must be flagged admin")
	}
	if !state.CanWrite() {
		t.Error("a bound account must be able to write")
	}
}

func TestBindNonAdminAccount(t *testing.T) {
	b := NewBinder(&someAccount, &chainStub{id: 31337}, &adminStub{admin: otherAdmin}, zerolog.Nop())
	if state := b.Bind(context.Background()); state.IsAdmin {
		t.Error("non-admin account flagged as admin")
	}
}

// Read failures degrade the state instead of failing the bind: browsing must
// work even when the node is flaky.
func TestBindFailsOpen(t *testing.T) {
	rpcDown := errors.New("connection refused")

	b := NewBinder(&someAccount, &chainStub{err: rpcDown}, &adminStub{admin: someAccount}, zerolog.Nop())
	state := b.Bind(context.Background())
	if state.Account == nil {
		t.Error("chain read failure must not drop the account")
	}
	if state.ChainID != nil {
		t.Error("unreadable chain id must stay unset")
	}

	b = NewBinder(&someAccount, &chainStub{id: 31337}, &adminStub{err: rpcDown}, zerolog.Nop())
	state = b.Bind(context.Background())
	if state.IsAdmin {
		t.Error("unreadable admin address must never grant admin")
	}
	if state.ChainID == nil {
		t.Error("admin read failure must not drop the chain id")
	}
}

func TestCurrentReturnsLastBound(t *testing.T) {
	admin := &adminStub{admin: otherAdmin}
	b := NewBinder(&someAccount, &chainStub{id: 31337}, admin, zerolog.Nop())

	if state := b.Current(); state.Account != nil {
		t.Error("state before any Bind should be empty")
	}

	b.Bind(context.Background())
	if state := b.Current(); state.Account == nil {
		t.Fatal("Current does not reflect the bound state")
	}

	admin.admin = someAccount
	b.Bind(context.Background())
	if state := b.Current(); !state.IsAdmin {
		t.Error("re-binding must refresh the admin flag")
	}
}

func TestParseSigner(t *testing.T) {
	// Hardhat's well-known first development key.
	const devKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	opts, account, err := ParseSigner(devKey, 31337)
	if err != nil {
		t.Fatalf("ParseSigner: %v", err)
	}
	if want := common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"); account != want {
		t.Errorf("derived account %s, want %s", account.Hex(), want.Hex())
	}
	if opts.From != account {
		t.Errorf("TransactOpts.From = %s, want %s", opts.From.Hex(), account.Hex())
	}

	if _, _, err := ParseSigner("0x"+devKey, 31337); err != nil {
		t.Errorf("0x-prefixed key should be accepted: %v", err)
	}
	if _, _, err := ParseSigner("not-hex", 31337); err == nil {
		t.Error("malformed key must be rejected")
	}
}
