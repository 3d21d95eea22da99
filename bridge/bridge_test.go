package bridge

import (
	"math/big"
	"sync"
	"testing"

	"gotokenbridge/channel"
	"gotokenbridge/ledger"
	"gotokenbridge/token"
	"gotokenbridge/types"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

var (
	homeBridgeAddr   = common.HexToAddress("0x1000000000000000000000000000000000000010")
	remoteBridgeAddr = common.HexToAddress("0x4200000000000000000000000000000000000010")
	alice            = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob              = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
	carol            = common.HexToAddress("0x00000000000000000000000000000000000ca501")
)

type collectSink struct {
	mu     sync.Mutex
	events []types.Event
}

func (s *collectSink) Emit(ev types.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *collectSink) names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.events))
	for _, ev := range s.events {
		names = append(names, ev.Name)
	}
	return names
}

type testEnv struct {
	homeLedger   *ledger.Ledger
	remoteLedger *ledger.Ledger
	homeOut      *channel.Channel
	remoteOut    *channel.Channel
	dispatcher   *channel.Dispatcher
	home         *HomeBridge
	remote       *RemoteBridge
	sink         *collectSink
}

// newTestEnv wires a bound bridge pair over in-process channels.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		homeLedger:   ledger.New(types.CHAINKEY_HOME, "home"),
		remoteLedger: ledger.New(types.CHAINKEY_REMOTE, "remote"),
		homeOut:      channel.New(),
		remoteOut:    channel.New(),
		dispatcher:   channel.NewDispatcher(),
		sink:         &collectSink{},
	}

	env.home = NewHomeBridge(
		homeBridgeAddr, env.homeLedger,
		channel.NewMessenger(env.homeOut, homeBridgeAddr, types.CHAINKEY_HOME, types.CHAINKEY_REMOTE),
		remoteBridgeAddr, env.sink,
	)
	env.remote = NewRemoteBridge(
		remoteBridgeAddr, env.remoteLedger,
		channel.NewMessenger(env.remoteOut, remoteBridgeAddr, types.CHAINKEY_REMOTE, types.CHAINKEY_HOME),
		env.sink,
	)
	env.dispatcher.Register(env.home)
	env.dispatcher.Register(env.remote)

	require.NoError(t, env.remote.Init(homeBridgeAddr))
	return env
}

// newToken registers an asset on the home ledger and funds alice.
func (e *testEnv) newToken(t *testing.T, addr common.Address, decimals uint8, feeBps int64) *token.ERC20 {
	t.Helper()

	var tok *token.ERC20
	if feeBps > 0 {
		tok = token.NewFeeOnTransferERC20(addr, "Test Asset", "TST", decimals, feeBps)
	} else {
		tok = token.NewERC20(addr, "Test Asset", "TST", decimals)
	}
	require.NoError(t, e.homeLedger.Deploy(tok))
	tok.Mint(alice, amt("1000000000000000000000"))
	return tok
}

func amt(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad test amount " + s)
	}
	return v
}

// relayAll synchronously delivers every queued message in both directions,
// returning delivery errors in order.
func (e *testEnv) relayAll() []error {
	var errs []error
	for {
		msg, ok := e.homeOut.Pop()
		if !ok {
			msg, ok = e.remoteOut.Pop()
		}
		if !ok {
			return errs
		}
		if err := e.dispatcher.Deliver(msg); err != nil {
			errs = append(errs, err)
		}
	}
}
