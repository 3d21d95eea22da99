package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"gotokenbridge/types"
)

type DepositRequest struct {
	Asset  string `json:"asset"`
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
	Kind   string `json:"kind"`
}

func Deposit(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("Error reading request body: %s", err.Error())
		responseJSON(w, &APIResponse{
			Status:  "error",
			Message: "Error reading request body",
		}, http.StatusBadRequest)
		return
	}

	var req DepositRequest
	err = json.Unmarshal(body, &req)
	if err != nil {
		log.Printf("Error unmarshalling request body: %s\n", err.Error())
		responseJSON(w, &APIResponse{
			Status:  "error",
			Message: "Cannot unmarshal input JSON",
		}, http.StatusBadRequest)
		return
	}

	asset, ok := parseAddress(req.Asset)
	if !ok {
		responseJSON(w, &APIResponse{Status: "error", Field: "asset", Message: "Invalid asset address"}, http.StatusBadRequest)
		return
	}
	from, ok := parseAddress(req.From)
	if !ok {
		responseJSON(w, &APIResponse{Status: "error", Field: "from", Message: "Invalid depositor address"}, http.StatusBadRequest)
		return
	}
	to, ok := parseAddress(req.To)
	if !ok {
		responseJSON(w, &APIResponse{Status: "error", Field: "to", Message: "Invalid recipient address"}, http.StatusBadRequest)
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

	if kind == types.KindExtended {
		err = Home.DepositExtended(from, asset, to, amount)
	} else {
		err = Home.DepositStandard(from, asset, to, amount)
	}
	if err != nil {
		log.Printf("Error depositing %s of %s: %s", req.Amount, req.Asset, err.Error())
		responseJSON(w, &APIResponse{
			Status:  "error",
			Message: err.Error(),
		}, http.StatusUnprocessableEntity)
		return
	}

	responseJSON(w, &APIOperationResponse{Status: "ok"}, http.StatusOK)
}
