package workers

import (
	"log"
	"math/big"
	"time"

	"gotokenbridge/bridge"
	"gotokenbridge/config"
	"gotokenbridge/redis"
	"gotokenbridge/types"
)

// Worker_audit periodically re-checks custody conservation: for every asset
// ever deposited, custodied == total deposited - total released must hold,
// and the journal's view of delivered withdrawals must not exceed releases.
// A mismatch means a protocol violation somewhere, worth waking someone up.
func Worker_audit(home *bridge.HomeBridge) {
	for !WorkerShutdown {
		time.Sleep(time.Duration(config.Config.Bridge.AuditInterval) * time.Second)

		for _, asset := range home.Assets() {
			custodied := home.Custodied(asset)
			deposited := home.TotalDeposited(asset)
			released := home.TotalReleased(asset)

			expect := new(big.Int).Sub(deposited, released)
			if custodied.Cmp(expect) != 0 {
				log.Printf("AUDIT ERROR: custody drift for %s: custodied %s, deposited %s, released %s",
					asset.Hex(), custodied.String(), deposited.String(), released.String())
			}
		}

		// journal reconciliation: delivered withdrawal releases per asset
		delivered, err := redis.FindAllBridgeOperationsByStatus("delivered")
		if err != nil {
			log.Printf("Error reading delivered operations: %s", err.Error())
			continue
		}

		releasedByAsset := map[string]*big.Int{}
		for _, op := range delivered {
			if op.Selector != string(types.SelectorFinalizeWithdrawal) {
				continue
			}
			amount, ok := new(big.Int).SetString(op.Amount, 10)
			if !ok {
				continue
			}
			if sum, ok := releasedByAsset[op.Asset]; ok {
				sum.Add(sum, amount)
			} else {
				releasedByAsset[op.Asset] = amount
			}
		}

		for _, asset := range home.Assets() {
			journaled, ok := releasedByAsset[asset.Hex()]
			if !ok {
				continue
			}
			if journaled.Cmp(home.TotalReleased(asset)) > 0 {
				log.Printf("AUDIT ERROR: journal shows %s released for %s, bridge released %s",
					journaled.String(), asset.Hex(), home.TotalReleased(asset).String())
			}
		}
	}
}
