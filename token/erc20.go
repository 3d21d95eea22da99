package token

import (
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

var ErrInsufficientBalance = errors.New("token: insufficient balance")
var ErrBadAmount = errors.New("token: amount must be positive")

// Token is the asset-transfer surface the home bridge consumes. Transfers
// may deliver less than requested (fee-on-transfer assets), so custody
// accounting must always measure balance deltas, never trust the argument.
type Token interface {
	Address() common.Address
	Name() string
	Symbol() string
	Decimals() uint8
	BalanceOf(owner common.Address) *big.Int
	Transfer(from, to common.Address, amount *big.Int) error
}

// ERC20 is a plain in-ledger fungible asset.
type ERC20 struct {
	addr     common.Address
	name     string
	symbol   string
	decimals uint8

	mu       sync.Mutex
	balances map[common.Address]*big.Int

	// fee charged on every transfer, in basis points; the fee portion is
	// burned, so the recipient receives less than the sent amount
	transferFeeBps int64
}

func NewERC20(addr common.Address, name, symbol string, decimals uint8) *ERC20 {
	return &ERC20{
		addr:     addr,
		name:     name,
		symbol:   symbol,
		decimals: decimals,
		balances: make(map[common.Address]*big.Int),
	}
}

// NewFeeOnTransferERC20 returns a token that burns feeBps/10000 of every
// transfer before crediting the recipient.
func NewFeeOnTransferERC20(addr common.Address, name, symbol string, decimals uint8, feeBps int64) *ERC20 {
	t := NewERC20(addr, name, symbol, decimals)
	t.transferFeeBps = feeBps
	return t
}

func (t *ERC20) Address() common.Address { return t.addr }
func (t *ERC20) Name() string            { return t.name }
func (t *ERC20) Symbol() string          { return t.symbol }
func (t *ERC20) Decimals() uint8         { return t.decimals }

func (t *ERC20) BalanceOf(owner common.Address) *big.Int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if b, ok := t.balances[owner]; ok {
		return new(big.Int).Set(b)
	}
	return new(big.Int)
}

// Mint credits freshly created units, test/bootstrap helper.
func (t *ERC20) Mint(to common.Address, amount *big.Int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.credit(to, amount)
}

func (t *ERC20) Transfer(from, to common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrBadAmount
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	bal, ok := t.balances[from]
	if !ok || bal.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	bal.Sub(bal, amount)

	received := new(big.Int).Set(amount)
	if t.transferFeeBps > 0 {
		fee := new(big.Int).Mul(amount, big.NewInt(t.transferFeeBps))
		fee.Div(fee, big.NewInt(10000))
		received.Sub(received, fee)
	}
	t.credit(to, received)
	return nil
}

func (t *ERC20) credit(owner common.Address, amount *big.Int) {
	if b, ok := t.balances[owner]; ok {
		b.Add(b, amount)
		return
	}
	t.balances[owner] = new(big.Int).Set(amount)
}
