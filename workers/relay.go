package workers

import (
	"log"
	"time"

	"gotokenbridge/channel"
	"gotokenbridge/redis"
	"gotokenbridge/types"

	"github.com/google/uuid"
)

// set by the HTTP worker on shutdown, other workers poll it
var WorkerShutdown bool

// Worker_relay pumps one channel direction: pops in-flight messages,
// journals them, and hands them to the transport. One attempt per message;
// a rejected delivery goes to the failed set and stays there.
func Worker_relay(name string, ch *channel.Channel, transport channel.Transport) {
	log.Printf("Starting relay %s", name)

	for !WorkerShutdown {
		msg, ok := ch.Pop()
		if !ok {
			time.Sleep(500 * time.Millisecond)
			continue
		}

		op := newOperation(msg)

		if err := redis.UpsertBridgeOperation(op); err != nil {
			// journal is best effort, delivery still proceeds
			log.Printf("Cannot create bridge operation record, Redis error: %s", err.Error())
		}

		err := transport.Deliver(msg)

		prevStatus := op.Status
		if err != nil {
			log.Printf("Relay %s: delivery of %s %s rejected: %s", name, msg.Selector, msg.ID, err.Error())
			op.Status = "failed"
			op.Message = err.Error()
		} else {
			op.Status = "delivered"
		}

		if err := redis.ChangeBridgeOperationStatus(op, prevStatus); err != nil {
			log.Printf("Cannot update bridge operation status, Redis error: %s", err.Error())
		}
	}

	log.Printf("Relay %s stopped", name)
}

// newOperation opens the journal record for an in-flight message. Kind is
// only meaningful for deposit finalization; other selectors leave it empty so
// journal consumers can tell "standard" apart from "not applicable".
func newOperation(msg types.Message) *types.BridgeOperation {
	op := &types.BridgeOperation{
		ID:            uuid.New().String(),
		Status:        "initiated",
		Selector:      string(msg.Selector),
		SourceChain:   int(msg.SourceChain),
		DestChain:     int(msg.DestChain),
		TsFound:       time.Now().Unix(),
		Asset:         msg.Asset.Hex(),
		Amount:        msg.Amount,
		SourceAddress: msg.From.Hex(),
		DestAddress:   msg.To.Hex(),
		MessageID:     msg.ID,
	}
	if msg.Selector == types.SelectorFinalizeDeposit {
		op.Kind = msg.Kind.String()
	}
	return op
}
