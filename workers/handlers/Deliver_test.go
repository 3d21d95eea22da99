package handlers

import (
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"gotokenbridge/bridge"
	"gotokenbridge/channel"
	"gotokenbridge/config"
	"gotokenbridge/ledger"
	"gotokenbridge/token"
	"gotokenbridge/types"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testHomeAddr   = common.HexToAddress("0x1000000000000000000000000000000000000010")
	testRemoteAddr = common.HexToAddress("0x4200000000000000000000000000000000000010")
	testAsset      = common.HexToAddress("0x00000000000000000000000000000000000a55e7")
	depositor      = common.HexToAddress("0x000000000000000000000000000000000000a11c")
	intruder       = common.HexToAddress("0x000000000000000000000000000000000000beef")
)

type nopSink struct{}

func (nopSink) Emit(types.Event) {}

// newPair builds a bound bridge pair with one funded home asset and wires the
// handler globals, so the ingestion endpoint dispatches into it.
func newPair(t *testing.T) (*bridge.HomeBridge, *bridge.RemoteBridge, *channel.Channel) {
	t.Helper()

	homeLedger := ledger.New(types.CHAINKEY_HOME, "home")
	remoteLedger := ledger.New(types.CHAINKEY_REMOTE, "remote")
	homeOut := channel.New()
	remoteOut := channel.New()

	home := bridge.NewHomeBridge(testHomeAddr, homeLedger,
		channel.NewMessenger(homeOut, testHomeAddr, types.CHAINKEY_HOME, types.CHAINKEY_REMOTE),
		testRemoteAddr, nopSink{})
	remote := bridge.NewRemoteBridge(testRemoteAddr, remoteLedger,
		channel.NewMessenger(remoteOut, testRemoteAddr, types.CHAINKEY_REMOTE, types.CHAINKEY_HOME),
		nopSink{})
	require.NoError(t, remote.Init(testHomeAddr))

	tok := token.NewERC20(testAsset, "Asset", "AST", 8)
	tok.Mint(depositor, big.NewInt(1_000_000))
	require.NoError(t, homeLedger.Deploy(tok))

	dispatcher := channel.NewDispatcher()
	dispatcher.Register(home)
	dispatcher.Register(remote)
	Init(home, remote, dispatcher)

	return home, remote, homeOut
}

func TestDeliverRoundTrip(t *testing.T) {
	config.Config.Bridge.ChannelSecret = "relay-secret"
	home, remote, homeOut := newPair(t)

	srv := httptest.NewServer(http.HandlerFunc(Deliver))
	defer srv.Close()

	require.NoError(t, home.DepositStandard(depositor, testAsset, depositor, big.NewInt(1000)))
	msg, ok := homeOut.Pop()
	require.True(t, ok)

	transport := &channel.RPCTransport{Endpoints: []string{srv.URL}, Secret: "relay-secret"}
	require.NoError(t, transport.Deliver(msg))

	rep, err := remote.RepresentationAt(testAsset, types.KindStandard)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1000), rep.BalanceOf(depositor))
}

func TestDeliverRejectsUnauthenticatedCaller(t *testing.T) {
	config.Config.Bridge.ChannelSecret = "relay-secret"
	_, remote, _ := newPair(t)

	srv := httptest.NewServer(http.HandlerFunc(Deliver))
	defer srv.Close()

	// the wire origin claims to be the bound home bridge, but the caller
	// cannot prove it is the counterpart relay
	forged := types.Message{
		ID:          "forged",
		Selector:    types.SelectorFinalizeDeposit,
		SourceChain: types.CHAINKEY_HOME,
		DestChain:   types.CHAINKEY_REMOTE,
		Origin:      testHomeAddr,
		Target:      testRemoteAddr,
		GasLimit:    config.GAS_FINALIZE_DEPOSIT,
		Kind:        types.KindStandard,
		Asset:       testAsset,
		From:        intruder,
		To:          intruder,
		Amount:      "1000000",
		Decimals:    8,
	}

	for _, secret := range []string{"", "wrong-secret"} {
		transport := &channel.RPCTransport{Endpoints: []string{srv.URL}, Secret: secret}
		err := transport.Deliver(forged)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unauthorized")
	}

	// nothing was provisioned, let alone minted
	_, err := remote.RepresentationAt(testAsset, types.KindStandard)
	assert.ErrorIs(t, err, bridge.ErrNotRepresentation)
}

func TestDeliverClosedWithoutSecret(t *testing.T) {
	config.Config.Bridge.ChannelSecret = ""
	_, remote, _ := newPair(t)

	srv := httptest.NewServer(http.HandlerFunc(Deliver))
	defer srv.Close()

	msg := types.Message{
		ID:       "while-closed",
		Selector: types.SelectorFinalizeDeposit,
		Origin:   testHomeAddr,
		Target:   testRemoteAddr,
		Kind:     types.KindStandard,
		Asset:    testAsset,
		Amount:   "5",
		Decimals: 8,
	}

	transport := &channel.RPCTransport{Endpoints: []string{srv.URL}}
	err := transport.Deliver(msg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unauthorized")

	_, err = remote.RepresentationAt(testAsset, types.KindStandard)
	assert.ErrorIs(t, err, bridge.ErrNotRepresentation)
}

func TestDeliverRejectionIsFinal(t *testing.T) {
	config.Config.Bridge.ChannelSecret = "relay-secret"
	newPair(t)

	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		Deliver(w, r)
	}))
	defer srv.Close()

	// authenticated, but the origin is not the bound counterpart, so the
	// remote handler rejects it; the transport must not retry
	stray := types.Message{
		ID:       "stray",
		Selector: types.SelectorFinalizeDeposit,
		Origin:   intruder,
		Target:   testRemoteAddr,
		Kind:     types.KindStandard,
		Asset:    testAsset,
		Amount:   "5",
		Decimals: 8,
	}

	transport := &channel.RPCTransport{Endpoints: []string{srv.URL}, Secret: "relay-secret"}
	err := transport.Deliver(stray)
	require.Error(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt64(&calls))
}

func TestDeliverFailsOverAcrossEndpoints(t *testing.T) {
	config.Config.Bridge.ChannelSecret = "relay-secret"
	home, remote, homeOut := newPair(t)

	dead := httptest.NewServer(http.HandlerFunc(Deliver))
	dead.Close()
	live := httptest.NewServer(http.HandlerFunc(Deliver))
	defer live.Close()

	require.NoError(t, home.DepositStandard(depositor, testAsset, depositor, big.NewInt(700)))
	msg, ok := homeOut.Pop()
	require.True(t, ok)

	transport := &channel.RPCTransport{Endpoints: []string{dead.URL, live.URL}, Secret: "relay-secret"}
	require.NoError(t, transport.Deliver(msg))

	rep, err := remote.RepresentationAt(testAsset, types.KindStandard)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(700), rep.BalanceOf(depositor))
}
