package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
)

type TokenInfoRequest struct {
	Asset string `json:"asset"`
}

// TokenInfo pushes the asset's name/symbol to the remote representations.
// Informational only, callable by anyone.
func TokenInfo(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		responseJSON(w, &APIResponse{Status: "error", Message: "Error reading request body"}, http.StatusBadRequest)
		return
	}

	var req TokenInfoRequest
	if err := json.Unmarshal(body, &req); err != nil {
		responseJSON(w, &APIResponse{Status: "error", Message: "Cannot unmarshal input JSON"}, http.StatusBadRequest)
		return
	}

	asset, ok := parseAddress(req.Asset)
	if !ok {
		responseJSON(w, &APIResponse{Status: "error", Field: "asset", Message: "Invalid asset address"}, http.StatusBadRequest)
		return
	}

	if err := Home.UpdateTokenInfo(asset); err != nil {
		log.Printf("Error forwarding token info for %s: %s", req.Asset, err.Error())
		responseJSON(w, &APIResponse{Status: "error", Message: err.Error()}, http.StatusUnprocessableEntity)
		return
	}

	responseJSON(w, &APIOperationResponse{Status: "ok"}, http.StatusOK)
}
