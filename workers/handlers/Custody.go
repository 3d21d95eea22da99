package handlers

import (
	"net/http"

	"github.com/go-chi/chi"
)

// Custody reports the home-side accounting for one asset.
func Custody(w http.ResponseWriter, r *http.Request) {
	asset, ok := parseAddress(chi.URLParam(r, "asset"))
	if !ok {
		responseJSON(w, &APIResponse{Status: "error", Field: "asset", Message: "Invalid asset address"}, http.StatusBadRequest)
		return
	}

	responseJSON(w, &APICustodyResponse{
		Status:    "ok",
		Asset:     asset.Hex(),
		Custodied: Home.Custodied(asset).String(),
		Deposited: Home.TotalDeposited(asset).String(),
		Released:  Home.TotalReleased(asset).String(),
	}, http.StatusOK)
}

// Supply reports the remote-side minted supply for one (asset, kind) pair,
// including the deterministic address whether or not it is provisioned yet.
func Supply(w http.ResponseWriter, r *http.Request) {
	asset, ok := parseAddress(chi.URLParam(r, "asset"))
	if !ok {
		responseJSON(w, &APIResponse{Status: "error", Field: "asset", Message: "Invalid asset address"}, http.StatusBadRequest)
		return
	}
	kind, ok := parseKind(r.URL.Query().Get("kind"))
	if !ok {
		responseJSON(w, &APIResponse{Status: "error", Field: "kind", Message: "Kind must be standard or extended"}, http.StatusBadRequest)
		return
	}

	resp := &APISupplyResponse{
		Status:      "ok",
		Asset:       asset.Hex(),
		Kind:        kind.String(),
		Address:     Remote.CalculateAddress(asset, kind).Hex(),
		TotalSupply: "0",
	}

	if rep, err := Remote.RepresentationAt(asset, kind); err == nil {
		resp.Provisioned = true
		resp.TotalSupply = rep.TotalSupply().String()
	}

	responseJSON(w, resp, http.StatusOK)
}
