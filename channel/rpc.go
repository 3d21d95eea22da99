package channel

import (
	"fmt"
	"log"

	"gotokenbridge/config"
	"gotokenbridge/types"

	"github.com/ybbus/jsonrpc"
)

// DeliverMethod is the JSON-RPC method a counterpart process exposes for
// message ingestion.
const DeliverMethod = "bridge_deliver"

// AuthHeader carries the shared channel secret on every delivery call. The
// ingestion endpoint only honors the wire origin of requests bearing it;
// anything else is rejected before dispatch.
const AuthHeader = "X-Bridge-Auth"

// WithClient runs f against each endpoint in turn until one succeeds.
func WithClient[T any](endpoints []string, opts *jsonrpc.RPCClientOpts, f func(client jsonrpc.RPCClient) (T, error)) (res T, err error) {
	for _, url := range endpoints {
		client := jsonrpc.NewClientWithOpts(url, opts)

		res, err = f(client)
		if err == nil {
			return
		}
		log.Println(fmt.Sprintf("Error calling %s: %s", url, err.Error()))
	}
	return
}

// RPCTransport delivers channel messages to a counterpart bridge process
// over JSON-RPC, failing over across its endpoint list. Transport errors are
// retried; a rejection answered by the counterpart handler is final.
type RPCTransport struct {
	Endpoints []string
	// Secret authenticates this process to the counterpart's ingestion
	// endpoint.
	Secret string
}

func (t *RPCTransport) Deliver(msg types.Message) error {
	opts := &jsonrpc.RPCClientOpts{
		CustomHeaders: map[string]string{AuthHeader: t.Secret},
	}

	var lastErr error
	for i := 0; i < config.RPC_RETRIES; i++ {
		resp, err := WithClient(t.Endpoints, opts, func(client jsonrpc.RPCClient) (*jsonrpc.RPCResponse, error) {
			return client.Call(DeliverMethod, msg)
		})
		if err != nil {
			lastErr = err
			continue
		}
		if resp.Error != nil {
			return fmt.Errorf("counterpart rejected delivery: %s", resp.Error.Message)
		}
		return nil
	}
	return lastErr
}
