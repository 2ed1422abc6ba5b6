package fpp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/floatpool/go-fpp/secp256k1"
)

func TestCommitDeterministic(t *testing.T) {
	r, err := secp256k1.RandomScalar()
	require.NoError(t, err)

	c1, err := Commit(10, r)
	require.NoError(t, err)
	c2, err := Commit(10, r)
	require.NoError(t, err)

	require.True(t, c1.Point.Equal(c2.Point))
}

func TestCommitHiding(t *testing.T) {
	r1, err := secp256k1.RandomScalar()
	require.NoError(t, err)
	r2, err := secp256k1.RandomScalar()
	require.NoError(t, err)

	c1, err := Commit(10, r1)
	require.NoError(t, err)
	c2, err := Commit(10, r2)
	require.NoError(t, err)

	require.False(t, c1.Point.Equal(c2.Point))
}

func TestCommitRoundTrip(t *testing.T) {
	c, err := Commit(42, nil)
	require.NoError(t, err)

	require.True(t, c.Verify())
	require.True(t, VerifyCommitment(c.Point, c.Value, c.Blinder))

	// Wrong value fails.
	require.False(t, VerifyCommitment(c.Point, c.Value+1, c.Blinder))

	// Any change to the blinder fails.
	mutated := c.Blinder.Bytes()
	mutated[31] ^= 0x01
	require.False(t, VerifyCommitment(c.Point, c.Value, secp256k1.ScalarFromBytes(mutated)))
}

func TestCommitZeroValue(t *testing.T) {
	c, err := Commit(0, nil)
	require.NoError(t, err)
	require.True(t, c.Verify())
	require.False(t, c.Point.IsInfinity())
}

func TestMintedCoinCommitmentVerifies(t *testing.T) {
	priv, err := secp256k1.RandomScalar()
	require.NoError(t, err)

	coin, err := Mint("coin-1", 100, 1.5, secp256k1.BaseMul(priv), time.Now())
	require.NoError(t, err)

	require.True(t, coin.Commitment.Verify())
	require.Len(t, coin.Secret, SecretSize)
	require.False(t, coin.Spent)
	require.Nil(t, coin.Nullifier)
}
