package evm

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// DeriveAddress computes the deterministic address of a to-be-deployed
// contract, CREATE2 style:
//
//	keccak256(0xff ++ deployer ++ salt ++ codeHash)[12:]
//
// The same function is used on the factory deployment path and on every
// caller's prediction path; any divergence would break all downstream
// identity assumptions, so nobody else hashes these fields by hand.
func DeriveAddress(deployer common.Address, salt common.Hash, codeHash common.Hash) common.Address {
	bz := crypto.Keccak256(
		[]byte{0xff},
		deployer.Bytes(),
		salt.Bytes(),
		codeHash.Bytes(),
	)
	return common.BytesToAddress(bz[12:])
}

// AssetSalt left-pads a home-asset identifier into the 32-byte CREATE2 salt.
func AssetSalt(asset common.Address) common.Hash {
	return common.BytesToHash(asset.Bytes())
}

// CodeIdentityHash derives a fixed code-identity hash from a code tag. Each
// representation factory carries exactly one tag, so the (asset, kind) pair
// maps to exactly one remote address.
func CodeIdentityHash(tag string) common.Hash {
	return crypto.Keccak256Hash([]byte(tag))
}
