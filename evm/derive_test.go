package evm

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
)

func TestDeriveAddressMatchesCreate2Scheme(t *testing.T) {
	deployer := common.HexToAddress("0x4200000000000000000000000000000000000010")
	salt := AssetSalt(common.HexToAddress("0x00000000000000000000000000000000000000aa"))
	codeHash := CodeIdentityHash("representation/standard/v1")

	got := DeriveAddress(deployer, salt, codeHash)

	raw := crypto.Keccak256(
		append([]byte{0xff},
			append(deployer.Bytes(),
				append(salt.Bytes(), codeHash.Bytes()...)...)...),
	)
	assert.Equal(t, common.BytesToAddress(raw[12:]), got)
}

func TestDeriveAddressIsStableAndDistinct(t *testing.T) {
	deployer := common.HexToAddress("0x4200000000000000000000000000000000000010")
	asset := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	std := CodeIdentityHash("representation/standard/v1")
	ext := CodeIdentityHash("representation/extended/v1")

	a := DeriveAddress(deployer, AssetSalt(asset), std)
	assert.Equal(t, a, DeriveAddress(deployer, AssetSalt(asset), std))

	// each input perturbs the result
	assert.NotEqual(t, a, DeriveAddress(deployer, AssetSalt(asset), ext))
	other := common.HexToAddress("0x00000000000000000000000000000000000000bb")
	assert.NotEqual(t, a, DeriveAddress(deployer, AssetSalt(other), std))
	otherDeployer := common.HexToAddress("0x1000000000000000000000000000000000000010")
	assert.NotEqual(t, a, DeriveAddress(otherDeployer, AssetSalt(asset), std))
}
