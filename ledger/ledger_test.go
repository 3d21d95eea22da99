package ledger

import (
	"testing"

	"gotokenbridge/types"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeContract struct {
	addr common.Address
}

func (c *fakeContract) Address() common.Address { return c.addr }

func TestDeployRefusesOccupiedAddress(t *testing.T) {
	l := New(types.CHAINKEY_REMOTE, "remote")
	addr := common.HexToAddress("0x00000000000000000000000000000000000000cc")

	assert.False(t, l.HasCode(addr))
	require.NoError(t, l.Deploy(&fakeContract{addr: addr}))
	assert.True(t, l.HasCode(addr))

	err := l.Deploy(&fakeContract{addr: addr})
	assert.ErrorIs(t, err, ErrAddressOccupied)

	c, ok := l.At(addr)
	require.True(t, ok)
	assert.Equal(t, addr, c.Address())
}
