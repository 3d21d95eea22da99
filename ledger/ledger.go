package ledger

import (
	"errors"
	"sync"

	"gotokenbridge/types"

	"github.com/ethereum/go-ethereum/common"
)

var ErrAddressOccupied = errors.New("ledger: address already occupied")
var ErrNoCode = errors.New("ledger: no contract at address")

// Contract is anything that occupies an address on a ledger.
type Contract interface {
	Address() common.Address
}

// Ledger is one independently-clocked address space. Each ledger processes
// one request at a time to completion; the occupancy check in Deploy is
// atomic within a ledger step, which is the only mutual exclusion the
// provisioning path relies on.
type Ledger struct {
	chain types.ChainType
	name  string

	mu        sync.RWMutex
	contracts map[common.Address]Contract

	// serializes public entry points of contracts hosted on this ledger
	stepMu sync.Mutex
}

func New(chain types.ChainType, name string) *Ledger {
	return &Ledger{
		chain:     chain,
		name:      name,
		contracts: make(map[common.Address]Contract),
	}
}

func (l *Ledger) Chain() types.ChainType { return l.chain }
func (l *Ledger) Name() string           { return l.name }

// Step runs fn as a single atomic ledger step. Contracts on the same ledger
// may call each other freely inside fn; a failed fn must leave no partial
// mutation behind (callers roll back their own writes).
func (l *Ledger) Step(fn func() error) error {
	l.stepMu.Lock()
	defer l.stepMu.Unlock()
	return fn()
}

func (l *Ledger) HasCode(addr common.Address) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.contracts[addr]
	return ok
}

func (l *Ledger) At(addr common.Address) (Contract, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	c, ok := l.contracts[addr]
	return c, ok
}

// Deploy registers a contract at its address. Fails if an account already
// occupies the target address, which is the defense against
// double-provisioning on the deterministic-address path.
func (l *Ledger) Deploy(c Contract) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.contracts[c.Address()]; ok {
		return ErrAddressOccupied
	}
	l.contracts[c.Address()] = c
	return nil
}
