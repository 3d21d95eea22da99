package bridge

import (
	"gotokenbridge/evm"
	"gotokenbridge/ledger"
	"gotokenbridge/token"
	"gotokenbridge/types"

	"github.com/ethereum/go-ethereum/common"
)

// code identity tags, one per representation kind; changing a tag changes
// every derived address for that kind
const (
	standardCodeTag = "representation/standard/v1"
	extendedCodeTag = "representation/extended/v1"
)

// RepresentationFactory deploys representation contracts of one kind at
// their deterministic addresses, salted by the home-asset identifier.
// Idempotent by construction: the ledger refuses a second deployment at an
// occupied address.
type RepresentationFactory struct {
	kind     types.RepresentationKind
	codeHash common.Hash
	ledger   *ledger.Ledger
}

func NewStandardFactory(l *ledger.Ledger) *RepresentationFactory {
	return &RepresentationFactory{
		kind:     types.KindStandard,
		codeHash: evm.CodeIdentityHash(standardCodeTag),
		ledger:   l,
	}
}

func NewExtendedFactory(l *ledger.Ledger) *RepresentationFactory {
	return &RepresentationFactory{
		kind:     types.KindExtended,
		codeHash: evm.CodeIdentityHash(extendedCodeTag),
		ledger:   l,
	}
}

func (f *RepresentationFactory) Kind() types.RepresentationKind { return f.kind }
func (f *RepresentationFactory) CodeHash() common.Hash          { return f.codeHash }

// CalculateAddress predicts where the representation for an asset lives,
// whether or not it has been deployed yet.
func (f *RepresentationFactory) CalculateAddress(deployer, asset common.Address) common.Address {
	return evm.DeriveAddress(deployer, evm.AssetSalt(asset), f.codeHash)
}

// Deploy provisions the representation for an asset, uninitialized.
// Returns ledger.ErrAddressOccupied when it already exists.
func (f *RepresentationFactory) Deploy(authority token.BridgeAuthority, asset common.Address) (*token.Representation, error) {
	addr := f.CalculateAddress(authority.Address(), asset)
	rep := token.NewRepresentation(addr, f.kind, authority)
	if err := f.ledger.Deploy(rep); err != nil {
		return nil, err
	}
	return rep, nil
}
