package bridge

import "errors"

// Protocol violations. All are surfaced synchronously to the caller or
// handler as a rejected call with no bridge state change.
//
// ErrNothingReceived is the one case where the caller may still be out of
// pocket: a token whose transfer fee consumes the full amount has already
// debited the depositor by the time the zero delta is measured. The bridge
// holds nothing, sends nothing, and cannot return what it never received.
var (
	ErrAlreadyBound      = errors.New("bridge: counterpart already bound")
	ErrNotBound          = errors.New("bridge: counterpart not bound")
	ErrBadOrigin         = errors.New("bridge: message origin is not the bound counterpart")
	ErrUnknownSelector   = errors.New("bridge: unknown message selector")
	ErrUnknownAsset      = errors.New("bridge: no token at asset address")
	ErrBadAmount         = errors.New("bridge: amount must be positive")
	ErrNothingReceived   = errors.New("bridge: transfer delivered nothing to custody")
	ErrDecimalsCap       = errors.New("bridge: asset decimals exceed the extended representation cap")
	ErrCustodyUnderflow  = errors.New("bridge: release exceeds custodied balance")
	ErrNotRepresentation = errors.New("bridge: caller is not a representation of the asset")
	ErrMigrateToSelf     = errors.New("bridge: migration target equals the source representation")
)
