package secp256k1

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScalarReduction(t *testing.T) {
	// N + 5 reduces to 5.
	s := NewScalar(new(big.Int).Add(N, big.NewInt(5)))
	require.True(t, s.Equal(ScalarFromUint64(5)))

	// Negative input is corrected into [0, N).
	neg := NewScalar(big.NewInt(-1))
	require.Equal(t, 0, neg.BigInt().Cmp(new(big.Int).Sub(N, big.NewInt(1))))
}

func TestScalarArithmetic(t *testing.T) {
	a, err := RandomScalar()
	require.NoError(t, err)
	b, err := RandomScalar()
	require.NoError(t, err)

	require.True(t, a.Add(b).Sub(b).Equal(a))
	require.True(t, a.Add(a.Negate()).IsZero())

	inv, err := b.Inverse()
	require.NoError(t, err)
	require.True(t, a.Mul(b).Mul(inv).Equal(a))
}

func TestScalarBytesFixedWidth(t *testing.T) {
	s := ScalarFromUint64(1)
	b := s.Bytes()
	require.Len(t, b, ScalarSize)
	require.True(t, ScalarFromBytes(b).Equal(s))
}

func TestRandomScalarFresh(t *testing.T) {
	a, err := RandomScalar()
	require.NoError(t, err)
	b, err := RandomScalar()
	require.NoError(t, err)
	require.False(t, a.Equal(b))
	require.False(t, a.IsZero())
}
