package token

import (
	"errors"
	"math/big"
	"testing"

	"gotokenbridge/types"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	bridgeAddr = common.HexToAddress("0x4200000000000000000000000000000000000010")
	repAddr    = common.HexToAddress("0x0000000000000000000000000000000000005e90")
	assetAddr  = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	holder     = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	stranger   = common.HexToAddress("0x0000000000000000000000000000000000000bad")
)

type stubBridge struct {
	withdrawErr error
	migrateErr  error
	withdrawals int
	migrations  int
}

func (b *stubBridge) Address() common.Address { return bridgeAddr }

func (b *stubBridge) Withdraw(caller, asset, to common.Address, amount *big.Int) error {
	b.withdrawals++
	return b.withdrawErr
}

func (b *stubBridge) Migrate(caller, asset common.Address, target types.RepresentationKind, recipient common.Address, amount *big.Int) error {
	b.migrations++
	return b.migrateErr
}

func newActive(t *testing.T, b BridgeAuthority) *Representation {
	t.Helper()
	r := NewRepresentation(repAddr, types.KindStandard, b)
	require.NoError(t, r.Initialize(bridgeAddr, assetAddr, 18))
	require.NoError(t, r.Mint(bridgeAddr, holder, big.NewInt(100)))
	return r
}

func TestPrivilegedSurfaceRejectsStrangers(t *testing.T) {
	r := NewRepresentation(repAddr, types.KindStandard, &stubBridge{})

	assert.ErrorIs(t, r.Initialize(stranger, assetAddr, 18), ErrNotBridge)
	require.NoError(t, r.Initialize(bridgeAddr, assetAddr, 18))

	assert.ErrorIs(t, r.Mint(stranger, holder, big.NewInt(1)), ErrNotBridge)
	assert.ErrorIs(t, r.Burn(stranger, holder, big.NewInt(1)), ErrNotBridge)
	assert.ErrorIs(t, r.UpdateInfo(stranger, "x", "X"), ErrNotBridge)
}

func TestInitializeOnce(t *testing.T) {
	r := NewRepresentation(repAddr, types.KindStandard, &stubBridge{})
	require.NoError(t, r.Initialize(bridgeAddr, assetAddr, 6))

	err := r.Initialize(bridgeAddr, assetAddr, 8)
	assert.ErrorIs(t, err, ErrAlreadyInitialized)
	assert.Equal(t, uint8(6), r.Decimals())
}

func TestMintRequiresInitialization(t *testing.T) {
	r := NewRepresentation(repAddr, types.KindStandard, &stubBridge{})

	err := r.Mint(bridgeAddr, holder, big.NewInt(1))
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestWithdrawBurnsBeforeNotifying(t *testing.T) {
	b := &stubBridge{}
	r := newActive(t, b)

	require.NoError(t, r.Withdraw(holder, stranger, big.NewInt(60)))
	assert.Equal(t, big.NewInt(40), r.BalanceOf(holder))
	assert.Equal(t, big.NewInt(40), r.TotalSupply())
	assert.Equal(t, 1, b.withdrawals)
}

func TestWithdrawRestoresBalanceOnRejection(t *testing.T) {
	b := &stubBridge{withdrawErr: errors.New("bridge rejects")}
	r := newActive(t, b)

	require.Error(t, r.Withdraw(holder, stranger, big.NewInt(60)))
	assert.Equal(t, big.NewInt(100), r.BalanceOf(holder))
	assert.Equal(t, big.NewInt(100), r.TotalSupply())
}

func TestWithdrawInsufficientBalanceNeverNotifies(t *testing.T) {
	b := &stubBridge{}
	r := newActive(t, b)

	require.ErrorIs(t, r.Withdraw(holder, stranger, big.NewInt(101)), ErrInsufficientBalance)
	assert.Equal(t, 0, b.withdrawals)
}

func TestMigrateRestoresBalanceOnRejection(t *testing.T) {
	b := &stubBridge{migrateErr: errors.New("bridge rejects")}
	r := newActive(t, b)

	require.Error(t, r.MigrateTo(holder, holder, big.NewInt(30)))
	assert.Equal(t, big.NewInt(100), r.BalanceOf(holder))
	assert.Equal(t, 1, b.migrations)
}

func TestERC20FeeOnTransfer(t *testing.T) {
	tok := NewFeeOnTransferERC20(assetAddr, "Fee Token", "FEE", 18, 250)
	tok.Mint(holder, big.NewInt(10000))

	require.NoError(t, tok.Transfer(holder, stranger, big.NewInt(10000)))
	assert.Equal(t, big.NewInt(9750), tok.BalanceOf(stranger))
	assert.Zero(t, tok.BalanceOf(holder).Sign())
}

func TestERC20TransferChecks(t *testing.T) {
	tok := NewERC20(assetAddr, "Token", "TOK", 18)
	tok.Mint(holder, big.NewInt(10))

	assert.ErrorIs(t, tok.Transfer(holder, stranger, big.NewInt(11)), ErrInsufficientBalance)
	assert.ErrorIs(t, tok.Transfer(holder, stranger, big.NewInt(0)), ErrBadAmount)
	assert.ErrorIs(t, tok.Transfer(holder, stranger, nil), ErrBadAmount)
}
