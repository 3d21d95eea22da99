package handlers

import (
	"encoding/json"
	"math/big"
	"net/http"

	"gotokenbridge/types"

	ethav "github.com/KOREAN139/ethereum-address-validator"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
)

func responseJSON(w http.ResponseWriter, data interface{}, code int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(data)
}

// parseAddress validates a user-supplied hex address and returns its
// canonical form.
func parseAddress(raw string) (common.Address, bool) {
	if err := ethav.Validate(common.HexToAddress(raw).Hex()); err != nil {
		return common.Address{}, false
	}
	return common.HexToAddress(raw), true
}

// parseAmount accepts decimal or 0x-hex base-unit amounts, capped at 256
// bits like an on-chain balance.
func parseAmount(raw string) (*big.Int, bool) {
	amount, ok := math.ParseBig256(raw)
	if !ok || amount.Sign() <= 0 {
		return nil, false
	}
	return amount, true
}

func parseKind(raw string) (types.RepresentationKind, bool) {
	switch raw {
	case "standard":
		return types.KindStandard, true
	case "extended":
		return types.KindExtended, true
	}
	return 0, false
}
