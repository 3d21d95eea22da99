package bridge

import (
	"errors"
	"fmt"
	"log"
	"math/big"
	"sync"
	"time"

	"gotokenbridge/channel"
	"gotokenbridge/config"
	"gotokenbridge/ledger"
	"gotokenbridge/token"
	"gotokenbridge/types"

	"github.com/ethereum/go-ethereum/common"
)

// RemoteBridge is the single entry point on the remote ledger. It owns the
// provisioning-authority role: every representation contract is deployed at
// an address derived from this bridge's address, so only this bridge can
// ever occupy it. Counterpart binding is one-time; until it exists, deposit
// finalizations are rejected.
type RemoteBridge struct {
	addr      common.Address
	ledger    *ledger.Ledger
	messenger *channel.Messenger

	mu         sync.Mutex
	bound      bool
	homeBridge common.Address

	factories map[types.RepresentationKind]*RepresentationFactory

	events types.EventSink
}

func NewRemoteBridge(addr common.Address, l *ledger.Ledger, m *channel.Messenger, sink types.EventSink) *RemoteBridge {
	return &RemoteBridge{
		addr:      addr,
		ledger:    l,
		messenger: m,
		factories: map[types.RepresentationKind]*RepresentationFactory{
			types.KindStandard: NewStandardFactory(l),
			types.KindExtended: NewExtendedFactory(l),
		},
		events: sink,
	}
}

func (b *RemoteBridge) Address() common.Address { return b.addr }

// Init binds the sole trusted home-side counterpart, once. A second call
// fails regardless of the argument.
func (b *RemoteBridge) Init(homeBridge common.Address) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.bound {
		return ErrAlreadyBound
	}
	b.bound = true
	b.homeBridge = homeBridge

	b.emit(types.Event{Name: types.EventBindingInitialized, From: homeBridge})
	log.Printf("Remote bridge bound to home bridge %s", homeBridge.Hex())
	return nil
}

// HomeBridge returns the bound counterpart, zero address until Init.
func (b *RemoteBridge) HomeBridge() common.Address {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.homeBridge
}

// CalculateAddress predicts the deterministic representation address for an
// asset and kind, deployed or not.
func (b *RemoteBridge) CalculateAddress(asset common.Address, kind types.RepresentationKind) common.Address {
	return b.factories[kind].CalculateAddress(b.addr, asset)
}

// RepresentationAt returns the live representation for (asset, kind), or an
// error while it is still unprovisioned.
func (b *RemoteBridge) RepresentationAt(asset common.Address, kind types.RepresentationKind) (*token.Representation, error) {
	c, ok := b.ledger.At(b.CalculateAddress(asset, kind))
	if !ok {
		return nil, ErrNotRepresentation
	}
	rep, ok := c.(*token.Representation)
	if !ok {
		return nil, ErrNotRepresentation
	}
	return rep, nil
}

// HandleMessage accepts channel deliveries from the home ledger.
func (b *RemoteBridge) HandleMessage(origin common.Address, msg types.Message) error {
	switch msg.Selector {
	case types.SelectorFinalizeDeposit:
		return b.finalizeDeposit(origin, msg)
	case types.SelectorUpdateTokenInfo:
		return b.updateTokenInfo(origin, msg)
	default:
		return ErrUnknownSelector
	}
}

// finalizeDeposit provisions the representation on first use and mints the
// transferred amount. Idempotent on the provisioning step: a second deposit
// for the same (asset, kind) short-circuits deployment and mints directly.
func (b *RemoteBridge) finalizeDeposit(origin common.Address, msg types.Message) error {
	b.mu.Lock()
	bound, home := b.bound, b.homeBridge
	b.mu.Unlock()

	if !bound {
		return ErrNotBound
	}
	if origin != home {
		return ErrBadOrigin
	}

	amount, ok := new(big.Int).SetString(msg.Amount, 10)
	if !ok || amount.Sign() <= 0 {
		return ErrBadAmount
	}

	return b.ledger.Step(func() error {
		rep, err := b.provision(msg.Asset, msg.Kind, msg.Decimals)
		if err != nil {
			return err
		}
		if err := rep.Mint(b.addr, msg.To, amount); err != nil {
			return fmt.Errorf("minting %s representation of %s: %w", msg.Kind, msg.Asset.Hex(), err)
		}

		b.emit(types.Event{
			Name:   types.EventDepositFinalized,
			Asset:  msg.Asset,
			Kind:   msg.Kind,
			From:   msg.From,
			To:     msg.To,
			Amount: amount.String(),
		})
		log.Printf("Deposit finalized: minted %s %s of %s to %s", amount.String(), msg.Kind, msg.Asset.Hex(), msg.To.Hex())
		return nil
	})
}

// provision is deploy-if-absent keyed on address occupancy. Must run inside
// a ledger step.
func (b *RemoteBridge) provision(asset common.Address, kind types.RepresentationKind, decimals uint8) (*token.Representation, error) {
	factory := b.factories[kind]
	target := factory.CalculateAddress(b.addr, asset)

	if c, ok := b.ledger.At(target); ok {
		rep, ok := c.(*token.Representation)
		if !ok {
			return nil, ErrNotRepresentation
		}
		return rep, nil
	}

	rep, err := factory.Deploy(b, asset)
	if errors.Is(err, ledger.ErrAddressOccupied) {
		// expected steady state after the first deposit, not fatal
		return b.RepresentationAt(asset, kind)
	}
	if err != nil {
		return nil, err
	}
	if err := rep.Initialize(b.addr, asset, decimals); err != nil {
		return nil, err
	}
	log.Printf("Provisioned %s representation of %s at %s", kind, asset.Hex(), target.Hex())
	return rep, nil
}

// Withdraw relays a withdrawal notification home. The caller must be one of
// the two deterministically-derived representation addresses for the asset;
// that proves it legitimately represents the asset, no registry needed. The
// caller has already burned the holder's balance.
func (b *RemoteBridge) Withdraw(caller, asset, to common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrBadAmount
	}
	if _, err := b.callerKind(caller, asset); err != nil {
		return err
	}

	b.mu.Lock()
	bound, home := b.bound, b.homeBridge
	b.mu.Unlock()
	if !bound {
		return ErrNotBound
	}

	b.messenger.Send(types.Message{
		Selector: types.SelectorFinalizeWithdrawal,
		Target:   home,
		GasLimit: config.GAS_FINALIZE_WITHDRAWAL,
		Asset:    asset,
		To:       to,
		Amount:   amount.String(),
	})

	b.emit(types.Event{
		Name:   types.EventWithdrawalInitiated,
		Asset:  asset,
		To:     to,
		Amount: amount.String(),
	})
	log.Printf("Withdrawal initiated: %s of %s towards %s", amount.String(), asset.Hex(), to.Hex())
	return nil
}

// Migrate swaps minted balance between the two representation kinds of one
// asset. The caller must be one of the asset's representation addresses and
// the target must be the other one; the caller has already burned the source
// balance, so total remote-side supply for the asset is unchanged.
func (b *RemoteBridge) Migrate(caller, asset common.Address, target types.RepresentationKind, recipient common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrBadAmount
	}

	sourceKind, err := b.callerKind(caller, asset)
	if err != nil {
		return err
	}
	if target == sourceKind {
		return ErrMigrateToSelf
	}

	return b.ledger.Step(func() error {
		source, err := b.RepresentationAt(asset, sourceKind)
		if err != nil {
			return err
		}
		// first migration-target reference provisions the other kind,
		// inheriting the source decimals
		rep, err := b.provision(asset, target, source.Decimals())
		if err != nil {
			return err
		}
		if err := rep.Mint(b.addr, recipient, amount); err != nil {
			return err
		}

		b.emit(types.Event{
			Name:   types.EventRepresentationMigrated,
			Asset:  asset,
			Kind:   target,
			From:   caller,
			To:     recipient,
			Amount: amount.String(),
		})
		log.Printf("Migrated %s of %s from %s to %s representation", amount.String(), asset.Hex(), sourceKind, target)
		return nil
	})
}

func (b *RemoteBridge) updateTokenInfo(origin common.Address, msg types.Message) error {
	b.mu.Lock()
	bound, home := b.bound, b.homeBridge
	b.mu.Unlock()

	if !bound {
		return ErrNotBound
	}
	if origin != home {
		return ErrBadOrigin
	}

	return b.ledger.Step(func() error {
		// update whichever of the two representations currently have code,
		// no-op for an unprovisioned one
		for _, kind := range []types.RepresentationKind{types.KindStandard, types.KindExtended} {
			rep, err := b.RepresentationAt(msg.Asset, kind)
			if err != nil {
				continue
			}
			if err := rep.UpdateInfo(b.addr, msg.Name, msg.Symbol); err != nil {
				return err
			}
		}
		b.emit(types.Event{Name: types.EventTokenInfoUpdated, Asset: msg.Asset})
		return nil
	})
}

// callerKind resolves which representation kind the caller address is for
// the asset, or rejects it as unrelated.
func (b *RemoteBridge) callerKind(caller, asset common.Address) (types.RepresentationKind, error) {
	switch caller {
	case b.CalculateAddress(asset, types.KindStandard):
		return types.KindStandard, nil
	case b.CalculateAddress(asset, types.KindExtended):
		return types.KindExtended, nil
	}
	return 0, ErrNotRepresentation
}

func (b *RemoteBridge) emit(ev types.Event) {
	if b.events == nil {
		return
	}
	ev.Ts = time.Now().Unix()
	b.events.Emit(ev)
}
