package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
)

type MigrateRequest struct {
	Asset     string `json:"asset"`
	Kind      string `json:"kind"` // source kind whose balance is migrated
	Holder    string `json:"holder"`
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
}

// Migrate swaps a holder's balance between the two representation kinds of
// one asset. Remote-local only, home custody is untouched.
func Migrate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		responseJSON(w, &APIResponse{Status: "error", Message: "Error reading request body"}, http.StatusBadRequest)
		return
	}

	var req MigrateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		responseJSON(w, &APIResponse{Status: "error", Message: "Cannot unmarshal input JSON"}, http.StatusBadRequest)
		return
	}

	asset, ok := parseAddress(req.Asset)
	if !ok {
		responseJSON(w, &APIResponse{Status: "error", Field: "asset", Message: "Invalid asset address"}, http.StatusBadRequest)
		return
	}
	holder, ok := parseAddress(req.Holder)
	if !ok {
		responseJSON(w, &APIResponse{Status: "error", Field: "holder", Message: "Invalid holder address"}, http.StatusBadRequest)
		return
	}
	recipient, ok := parseAddress(req.Recipient)
	if !ok {
		responseJSON(w, &APIResponse{Status: "error", Field: "recipient", Message: "Invalid recipient address"}, http.StatusBadRequest)
		return
	}
	amount, ok := parseAmount(req.Amount)
	if !ok {
		responseJSON(w, &APIResponse{Status: "error", Field: "amount", Message: "Amount must be a positive decimal string"}, http.StatusBadRequest)
		return
	}
	kind, ok := parseKind(req.Kind)
	if !ok {
		responseJSON(w, &APIResponse{Status: "error", Field: "kind", Message: "Kind must be standard or extended"}, http.StatusBadRequest)
		return
	}

	rep, err := Remote.RepresentationAt(asset, kind)
	if err != nil {
		responseJSON(w, &APIResponse{Status: "error", Message: "No representation provisioned for asset"}, http.StatusUnprocessableEntity)
		return
	}

	if err := rep.MigrateTo(holder, recipient, amount); err != nil {
		log.Printf("Error migrating %s of %s: %s", req.Amount, req.Asset, err.Error())
		responseJSON(w, &APIResponse{Status: "error", Message: err.Error()}, http.StatusUnprocessableEntity)
		return
	}

	responseJSON(w, &APIOperationResponse{Status: "ok"}, http.StatusOK)
}
