package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"gotokenbridge/bridge"
	"gotokenbridge/channel"
	"gotokenbridge/config"
	"gotokenbridge/ledger"
	"gotokenbridge/redis"
	"gotokenbridge/token"
	"gotokenbridge/types"
	"gotokenbridge/workers"
	"gotokenbridge/workers/handlers"

	"github.com/ethereum/go-ethereum/common"
)

func main() {
	log.Print("Starting custody bridge pair")

	f, err := os.OpenFile(fmt.Sprintf("logs/log_%s.txt", time.Now().Format("2006-01-02")), os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file for writing: %v", err)
	}
	defer f.Close()

	log.SetOutput(f)

	config.Init()

	// connect to Redis, without the journal do not continue
	redis.Init()

	homeLedger := ledger.New(types.CHAINKEY_HOME, "home")
	remoteLedger := ledger.New(types.CHAINKEY_REMOTE, "remote")

	// one channel per direction
	homeOut := channel.New()
	remoteOut := channel.New()

	homeAddr := common.HexToAddress(config.Config.Bridge.HomeAddress)
	remoteAddr := common.HexToAddress(config.Config.Bridge.RemoteAddress)

	sink := redis.Sink{}

	home := bridge.NewHomeBridge(
		homeAddr, homeLedger,
		channel.NewMessenger(homeOut, homeAddr, types.CHAINKEY_HOME, types.CHAINKEY_REMOTE),
		remoteAddr, sink,
	)
	remote := bridge.NewRemoteBridge(
		remoteAddr, remoteLedger,
		channel.NewMessenger(remoteOut, remoteAddr, types.CHAINKEY_REMOTE, types.CHAINKEY_HOME),
		sink,
	)

	// one-time counterpart binding, before any message can be delivered
	if err := remote.Init(homeAddr); err != nil {
		log.Fatalf("error binding remote bridge: %v", err)
	}

	// register configured home-ledger assets
	for _, a := range config.Config.Assets {
		addr := common.HexToAddress(a.Address)
		var tok *token.ERC20
		if a.TransferFeeBps > 0 {
			tok = token.NewFeeOnTransferERC20(addr, a.Name, a.Symbol, a.Decimals, a.TransferFeeBps)
		} else {
			tok = token.NewERC20(addr, a.Name, a.Symbol, a.Decimals)
		}
		if err := homeLedger.Deploy(tok); err != nil {
			log.Fatalf("error registering asset %s: %v", a.Address, err)
		}
		log.Printf("Registered home asset %s (%s, %d decimals)", addr.Hex(), a.Symbol, a.Decimals)
	}

	dispatcher := channel.NewDispatcher()
	dispatcher.Register(home)
	dispatcher.Register(remote)

	local := &channel.LocalTransport{Dispatcher: dispatcher}
	var toRemote channel.Transport = local
	var toHome channel.Transport = local
	if len(config.Config.Bridge.CounterpartRPC) > 0 {
		// without the shared secret the counterpart would refuse every
		// delivery, and our own ingestion endpoint stays closed
		if config.Config.Bridge.ChannelSecret == "" {
			log.Fatal("channel_secret is required for split-process operation")
		}
		rpc := &channel.RPCTransport{
			Endpoints: config.Config.Bridge.CounterpartRPC,
			Secret:    config.Config.Bridge.ChannelSecret,
		}
		switch config.Config.Bridge.Role {
		case "home":
			toRemote = rpc
		case "remote":
			toHome = rpc
		}
	}

	handlers.Init(home, remote, dispatcher)

	// there are 4 worker threads:
	// * relay home->remote deposits and metadata
	// * relay remote->home withdrawal releases
	// * custody conservation audit
	// * API serving HTTP(S) server (serves as main worker thread)
	go workers.Worker_relay("home->remote", homeOut, toRemote)
	go workers.Worker_relay("remote->home", remoteOut, toHome)
	go workers.Worker_audit(home)

	workers.Worker_HTTP()
}
