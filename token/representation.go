package token

import (
	"errors"
	"math/big"
	"sync"

	"gotokenbridge/types"

	"github.com/ethereum/go-ethereum/common"
)

var ErrNotBridge = errors.New("token: caller is not the bridge authority")
var ErrAlreadyInitialized = errors.New("token: representation already initialized")
var ErrNotInitialized = errors.New("token: representation not initialized")

// BridgeAuthority is the remote-bridge surface a representation contract
// needs: its identity for privilege checks, and the withdrawal/migration
// entry points it notifies after burning.
type BridgeAuthority interface {
	Address() common.Address
	Withdraw(caller, asset, to common.Address, amount *big.Int) error
	Migrate(caller, asset common.Address, target types.RepresentationKind, recipient common.Address, amount *big.Int) error
}

// Representation is the synthetic remote-side token backing one home asset.
// Deployed uninitialized at its deterministic address, it becomes active
// once the bridge records the home asset and decimals. Mint, Burn,
// Initialize and UpdateInfo are callable by the bridge only.
type Representation struct {
	addr   common.Address
	kind   types.RepresentationKind
	bridge BridgeAuthority

	mu          sync.Mutex
	initialized bool
	asset       common.Address
	decimals    uint8
	name        string
	symbol      string
	balances    map[common.Address]*big.Int
	totalSupply *big.Int
}

func NewRepresentation(addr common.Address, kind types.RepresentationKind, bridge BridgeAuthority) *Representation {
	return &Representation{
		addr:        addr,
		kind:        kind,
		bridge:      bridge,
		balances:    make(map[common.Address]*big.Int),
		totalSupply: new(big.Int),
	}
}

func (r *Representation) Address() common.Address        { return r.addr }
func (r *Representation) Kind() types.RepresentationKind { return r.kind }

func (r *Representation) Asset() common.Address {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.asset
}

func (r *Representation) Decimals() uint8 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.decimals
}

func (r *Representation) Name() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.name
}

func (r *Representation) Symbol() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.symbol
}

func (r *Representation) Initialized() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.initialized
}

func (r *Representation) BalanceOf(owner common.Address) *big.Int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.balances[owner]; ok {
		return new(big.Int).Set(b)
	}
	return new(big.Int)
}

func (r *Representation) TotalSupply() *big.Int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return new(big.Int).Set(r.totalSupply)
}

// Initialize binds the home asset and decimals, once.
func (r *Representation) Initialize(caller, asset common.Address, decimals uint8) error {
	if caller != r.bridge.Address() {
		return ErrNotBridge
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		return ErrAlreadyInitialized
	}
	r.initialized = true
	r.asset = asset
	r.decimals = decimals
	return nil
}

func (r *Representation) Mint(caller, to common.Address, amount *big.Int) error {
	if caller != r.bridge.Address() {
		return ErrNotBridge
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrBadAmount
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized {
		return ErrNotInitialized
	}
	if b, ok := r.balances[to]; ok {
		b.Add(b, amount)
	} else {
		r.balances[to] = new(big.Int).Set(amount)
	}
	r.totalSupply.Add(r.totalSupply, amount)
	return nil
}

func (r *Representation) Burn(caller, from common.Address, amount *big.Int) error {
	if caller != r.bridge.Address() {
		return ErrNotBridge
	}
	return r.burn(from, amount)
}

func (r *Representation) UpdateInfo(caller common.Address, name, symbol string) error {
	if caller != r.bridge.Address() {
		return ErrNotBridge
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.name = name
	r.symbol = symbol
	return nil
}

// Withdraw burns the holder's balance and notifies the bridge, which relays
// the release to the home ledger. Burn-then-notify is coupled here so the
// bridge never sees a withdrawal the representation has not paid for; if the
// notification is rejected the burn is restored and nothing moved.
func (r *Representation) Withdraw(holder, dest common.Address, amount *big.Int) error {
	if err := r.burn(holder, amount); err != nil {
		return err
	}
	if err := r.bridge.Withdraw(r.addr, r.Asset(), dest, amount); err != nil {
		r.restore(holder, amount)
		return err
	}
	return nil
}

// MigrateTo burns the holder's balance of this kind and asks the bridge to
// mint the other kind to the recipient. Remote-local, custody untouched.
func (r *Representation) MigrateTo(holder, recipient common.Address, amount *big.Int) error {
	if err := r.burn(holder, amount); err != nil {
		return err
	}
	if err := r.bridge.Migrate(r.addr, r.Asset(), r.kind.Other(), recipient, amount); err != nil {
		r.restore(holder, amount)
		return err
	}
	return nil
}

func (r *Representation) burn(from common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrBadAmount
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized {
		return ErrNotInitialized
	}
	b, ok := r.balances[from]
	if !ok || b.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	b.Sub(b, amount)
	r.totalSupply.Sub(r.totalSupply, amount)
	return nil
}

func (r *Representation) restore(owner common.Address, amount *big.Int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b, ok := r.balances[owner]; ok {
		b.Add(b, amount)
	} else {
		r.balances[owner] = new(big.Int).Set(amount)
	}
	r.totalSupply.Add(r.totalSupply, amount)
}
