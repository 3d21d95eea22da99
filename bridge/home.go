package bridge

import (
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

// HomeBridge custodies the locked asset balance on the home ledger, forwards
// deposit notifications to the remote bridge and releases custody on
// verified withdrawal. The custody map is mutated only by the two entry
// points below, keeping custodied(asset) == deposits(asset) - releases(asset)
// at all times.
type HomeBridge struct {
	addr      common.Address
	ledger    *ledger.Ledger
	messenger *channel.Messenger
	remote    common.Address // counterpart remote bridge, fixed at construction

	mu        sync.Mutex
	custody   map[common.Address]*big.Int
	deposited map[common.Address]*big.Int
	released  map[common.Address]*big.Int

	events types.EventSink
}

func NewHomeBridge(addr common.Address, l *ledger.Ledger, m *channel.Messenger, remote common.Address, sink types.EventSink) *HomeBridge {
	return &HomeBridge{
		addr:      addr,
		ledger:    l,
		messenger: m,
		remote:    remote,
		custody:   make(map[common.Address]*big.Int),
		deposited: make(map[common.Address]*big.Int),
		released:  make(map[common.Address]*big.Int),
		events:    sink,
	}
}

func (b *HomeBridge) Address() common.Address { return b.addr }

// DepositStandard locks the asset and notifies the remote bridge to mint the
// standard representation.
func (b *HomeBridge) DepositStandard(caller, asset, to common.Address, amount *big.Int) error {
	return b.deposit(types.KindStandard, caller, asset, to, amount)
}

// DepositExtended is the same for the extended representation; it rejects
// assets whose fractional precision the representation cannot express.
func (b *HomeBridge) DepositExtended(caller, asset, to common.Address, amount *big.Int) error {
	return b.deposit(types.KindExtended, caller, asset, to, amount)
}

func (b *HomeBridge) deposit(kind types.RepresentationKind, caller, asset, to common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrBadAmount
	}

	tok, err := b.tokenAt(asset)
	if err != nil {
		return err
	}
	// the remote representation cannot exceed the cap, so reject here,
	// before any custody change or message send
	if kind == types.KindExtended && tok.Decimals() > config.EXTENDED_DECIMALS_CAP {
		return ErrDecimalsCap
	}

	return b.ledger.Step(func() error {
		// measure the exact transferred delta, the requested amount is not
		// trustworthy for fee-on-transfer assets
		before := tok.BalanceOf(b.addr)
		if err := tok.Transfer(caller, b.addr, amount); err != nil {
			return fmt.Errorf("pulling %s of %s into custody: %w", amount.String(), asset.Hex(), err)
		}
		delta := new(big.Int).Sub(tok.BalanceOf(b.addr), before)
		if delta.Sign() <= 0 {
			return ErrNothingReceived
		}

		b.mu.Lock()
		addTo(b.custody, asset, delta)
		addTo(b.deposited, asset, delta)
		b.mu.Unlock()

		msgID := b.messenger.Send(types.Message{
			Selector: types.SelectorFinalizeDeposit,
			Target:   b.remote,
			GasLimit: config.GAS_FINALIZE_DEPOSIT,
			Kind:     kind,
			Asset:    asset,
			From:     caller,
			To:       to,
			Amount:   delta.String(),
			Decimals: tok.Decimals(),
		})

		b.emit(types.Event{
			Name:   types.EventDepositInitiated,
			Asset:  asset,
			Kind:   kind,
			From:   caller,
			To:     to,
			Amount: delta.String(),
		})
		log.Printf("Deposit initiated: %s %s of %s for %s (%s), message %s",
			kind, delta.String(), asset.Hex(), to.Hex(), tok.Symbol(), msgID)
		return nil
	})
}

// UpdateTokenInfo forwards the asset's human-readable name and symbol to the
// remote bridge. Informational only, callable by anyone, no custody effect.
func (b *HomeBridge) UpdateTokenInfo(asset common.Address) error {
	tok, err := b.tokenAt(asset)
	if err != nil {
		return err
	}

	b.messenger.Send(types.Message{
		Selector: types.SelectorUpdateTokenInfo,
		Target:   b.remote,
		GasLimit: config.GAS_UPDATE_TOKEN_INFO,
		Asset:    asset,
		Name:     tok.Name(),
		Symbol:   tok.Symbol(),
	})
	return nil
}

// HandleMessage accepts channel deliveries. Only a withdrawal finalization
// originating from the bound remote bridge releases custody; origin
// assertion is load-bearing for the custody invariant.
func (b *HomeBridge) HandleMessage(origin common.Address, msg types.Message) error {
	if msg.Selector != types.SelectorFinalizeWithdrawal {
		return ErrUnknownSelector
	}
	if origin != b.remote {
		return ErrBadOrigin
	}

	amount, ok := new(big.Int).SetString(msg.Amount, 10)
	if !ok || amount.Sign() <= 0 {
		return ErrBadAmount
	}

	return b.ledger.Step(func() error {
		tok, err := b.tokenAt(msg.Asset)
		if err != nil {
			return err
		}

		b.mu.Lock()
		cust, ok := b.custody[msg.Asset]
		if !ok || cust.Cmp(amount) < 0 {
			b.mu.Unlock()
			// unreachable given remote-side burn discipline; a protocol
			// violation, never clamp
			return ErrCustodyUnderflow
		}
		b.mu.Unlock()

		if err := tok.Transfer(b.addr, msg.To, amount); err != nil {
			return fmt.Errorf("releasing %s of %s: %w", amount.String(), msg.Asset.Hex(), err)
		}

		b.mu.Lock()
		cust.Sub(cust, amount)
		addTo(b.released, msg.Asset, amount)
		b.mu.Unlock()

		b.emit(types.Event{
			Name:   types.EventWithdrawalFinalized,
			Asset:  msg.Asset,
			To:     msg.To,
			Amount: amount.String(),
		})
		log.Printf("Withdrawal finalized: %s of %s released to %s", amount.String(), msg.Asset.Hex(), msg.To.Hex())
		return nil
	})
}

// Custodied returns the locked balance for an asset.
func (b *HomeBridge) Custodied(asset common.Address) *big.Int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if c, ok := b.custody[asset]; ok {
		return new(big.Int).Set(c)
	}
	return new(big.Int)
}

func (b *HomeBridge) TotalDeposited(asset common.Address) *big.Int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if c, ok := b.deposited[asset]; ok {
		return new(big.Int).Set(c)
	}
	return new(big.Int)
}

func (b *HomeBridge) TotalReleased(asset common.Address) *big.Int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if c, ok := b.released[asset]; ok {
		return new(big.Int).Set(c)
	}
	return new(big.Int)
}

// Assets lists every asset that has ever been custodied.
func (b *HomeBridge) Assets() []common.Address {
	b.mu.Lock()
	defer b.mu.Unlock()
	assets := make([]common.Address, 0, len(b.deposited))
	for a := range b.deposited {
		assets = append(assets, a)
	}
	return assets
}

func (b *HomeBridge) tokenAt(asset common.Address) (token.Token, error) {
	c, ok := b.ledger.At(asset)
	if !ok {
		return nil, ErrUnknownAsset
	}
	tok, ok := c.(token.Token)
	if !ok {
		return nil, ErrUnknownAsset
	}
	return tok, nil
}

func (b *HomeBridge) emit(ev types.Event) {
	if b.events == nil {
		return
	}
	ev.Ts = time.Now().Unix()
	b.events.Emit(ev)
}

func addTo(m map[common.Address]*big.Int, key common.Address, amount *big.Int) {
	if v, ok := m[key]; ok {
		v.Add(v, amount)
		return
	}
	m[key] = new(big.Int).Set(amount)
}
