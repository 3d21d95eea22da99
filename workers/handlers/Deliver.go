package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"gotokenbridge/channel"
	"gotokenbridge/config"
	"gotokenbridge/types"
)

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
	ID      json.RawMessage `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

// Deliver ingests a cross-domain message relayed by a counterpart process
// over JSON-RPC and hands it to the local dispatcher. The message's asserted
// origin comes off the wire, so it is only trusted after the caller proves it
// is the authenticated counterpart relay; with no channel secret configured
// ingestion is disabled entirely.
func Deliver(w http.ResponseWriter, r *http.Request) {
	secret := config.Config.Bridge.ChannelSecret
	if secret == "" ||
		subtle.ConstantTimeCompare([]byte(r.Header.Get(channel.AuthHeader)), []byte(secret)) != 1 {
		log.Printf("Rejected unauthenticated delivery from %s", r.RemoteAddr)
		responseJSON(w, &rpcResponse{JSONRPC: "2.0", Error: &rpcError{Code: -32001, Message: "unauthorized"}}, http.StatusOK)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		responseJSON(w, &rpcResponse{JSONRPC: "2.0", Error: &rpcError{Code: -32700, Message: "cannot read request"}}, http.StatusOK)
		return
	}

	var req rpcRequest
	if err := json.Unmarshal(body, &req); err != nil {
		responseJSON(w, &rpcResponse{JSONRPC: "2.0", Error: &rpcError{Code: -32700, Message: "parse error"}}, http.StatusOK)
		return
	}

	if req.Method != channel.DeliverMethod {
		responseJSON(w, &rpcResponse{JSONRPC: "2.0", ID: req.ID, Error: &rpcError{Code: -32601, Message: "method not found"}}, http.StatusOK)
		return
	}

	// the client sends a single struct param either bare or wrapped in an array
	var msg types.Message
	if err := json.Unmarshal(req.Params, &msg); err != nil {
		var wrapped []types.Message
		if err := json.Unmarshal(req.Params, &wrapped); err != nil || len(wrapped) != 1 {
			responseJSON(w, &rpcResponse{JSONRPC: "2.0", ID: req.ID, Error: &rpcError{Code: -32602, Message: "invalid params"}}, http.StatusOK)
			return
		}
		msg = wrapped[0]
	}

	if err := Dispatcher.Deliver(msg); err != nil {
		log.Printf("Ingested message %s rejected: %s", msg.ID, err.Error())
		responseJSON(w, &rpcResponse{JSONRPC: "2.0", ID: req.ID, Error: &rpcError{Code: -32000, Message: err.Error()}}, http.StatusOK)
		return
	}

	responseJSON(w, &rpcResponse{JSONRPC: "2.0", ID: req.ID, Result: "ok"}, http.StatusOK)
}
