package types

import (
	"github.com/ethereum/go-ethereum/common"
)

// home ledger is id 0, remote ledger is id 1

type ChainType int

const CHAINKEY_HOME ChainType = 0
const CHAINKEY_REMOTE ChainType = 1

// Representation kind selects which of the two interchangeable token
// variants backs a bridged asset on the remote ledger.
type RepresentationKind int

const (
	KindStandard RepresentationKind = iota
	KindExtended
)

func (k RepresentationKind) String() string {
	if k == KindExtended {
		return "extended"
	}
	return "standard"
}

// Other returns the counterpart kind, used by migration.
func (k RepresentationKind) Other() RepresentationKind {
	if k == KindStandard {
		return KindExtended
	}
	return KindStandard
}

// cross-domain message selectors
type Selector string

const (
	SelectorFinalizeDeposit    Selector = "finalizeDeposit"
	SelectorFinalizeWithdrawal Selector = "finalizeWithdrawal"
	SelectorUpdateTokenInfo    Selector = "updateTokenInfo"
)

// Message is a fire-and-forget cross-domain notification. Origin is stamped
// by the sender-bound messenger at send time and asserted on delivery; the
// payload producer cannot choose it.
type Message struct {
	ID          string             `json:"id"`
	Selector    Selector           `json:"selector"`
	SourceChain ChainType          `json:"sourceChain"`
	DestChain   ChainType          `json:"destChain"`
	Origin      common.Address     `json:"origin"` // asserted sender, set by the channel
	Target      common.Address     `json:"target"` // receiving handler
	GasLimit    uint64             `json:"gasLimit"`

	Kind     RepresentationKind `json:"kind"`
	Asset    common.Address     `json:"asset"`
	From     common.Address     `json:"from"`
	To       common.Address     `json:"to"`
	Amount   string             `json:"amount"` // decimal string, base units
	Decimals uint8              `json:"decimals"`
	Name     string             `json:"name"`
	Symbol   string             `json:"symbol"`
}

// Bridge operation is a single journaled protocol step (deposit, withdrawal
// or metadata push) having a status
type BridgeOperation struct {
	ID            string
	Status        string
	Selector      string
	Kind          string
	SourceChain   int
	DestChain     int
	TsFound       int64
	Asset         string
	Amount        string // amount in base units of the asset
	SourceAddress string
	DestAddress   string
	MessageID     string // cross-domain message carrying this operation
	Message       string // messages that help to track processing/errors
}

// event names emitted for observability/indexing
const (
	EventDepositInitiated       = "DepositInitiated"
	EventDepositFinalized       = "DepositFinalized"
	EventWithdrawalInitiated    = "WithdrawalInitiated"
	EventWithdrawalFinalized    = "WithdrawalFinalized"
	EventBindingInitialized     = "BindingInitialized"
	EventRepresentationMigrated = "RepresentationMigrated"
	EventTokenInfoUpdated       = "TokenInfoUpdated"
)

// Event is a protocol observation record.
type Event struct {
	Name   string
	Asset  common.Address
	Kind   RepresentationKind
	From   common.Address
	To     common.Address
	Amount string
	Ts     int64
}

// EventSink receives protocol events. Implementations must not block the
// emitting ledger step.
type EventSink interface {
	Emit(ev Event)
}
