package fpp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// DecoySelection is the anonymity set assembled for a spend: the decoys
// drawn from the pool, the full ring with the real inputs spliced in at
// random positions, and a 0..100 score reflecting how close the achieved
// ring came to the target.
type DecoySelection struct {
	Decoys         []*Coin
	Ring           []*Coin
	RingSize       int
	AnonymityScore int
}

// SelectDecoys pads the real inputs with decoys up to targetRingSize.
// Decoys are drawn uniformly, never weighted: weighting by any observable
// attribute would itself distinguish real inputs from padding. A shrunken
// pool is not an error here — the caller decides whether the achieved
// ring meets its policy minimum and fails hard if not.
func SelectDecoys(pool *Pool, realInputIDs []string, targetRingSize int, now time.Time) (*DecoySelection, error) {
	if targetRingSize <= 0 {
		return nil, ErrInvalidTarget
	}

	exclude := make(map[string]bool, len(realInputIDs))
	realCoins := make([]*Coin, 0, len(realInputIDs))
	for _, id := range realInputIDs {
		c, err := pool.Lookup(id)
		if err != nil {
			return nil, err
		}
		exclude[id] = true
		realCoins = append(realCoins, c)
	}

	eligible := pool.eligibleDecoys(exclude, now)

	needed := targetRingSize - len(realCoins)
	if needed < 0 {
		needed = 0
	}
	if needed > len(eligible) {
		needed = len(eligible)
	}

	decoys, err := uniformSample(eligible, needed)
	if err != nil {
		return nil, err
	}

	ring := append([]*Coin(nil), decoys...)
	for _, c := range realCoins {
		pos, err := cryptoIntn(len(ring) + 1)
		if err != nil {
			return nil, err
		}
		ring = append(ring, nil)
		copy(ring[pos+1:], ring[pos:])
		ring[pos] = c
	}

	ringSize := len(ring)
	score := ringSize * 100 / targetRingSize
	if score > 100 {
		score = 100
	}

	return &DecoySelection{
		Decoys:         decoys,
		Ring:           ring,
		RingSize:       ringSize,
		AnonymityScore: score,
	}, nil
}

// uniformSample draws count coins without replacement via a partial
// Fisher-Yates shuffle over a copy of the candidates.
func uniformSample(coins []*Coin, count int) ([]*Coin, error) {
	pool := append([]*Coin(nil), coins...)
	for i := 0; i < count; i++ {
		j, err := cryptoIntn(len(pool) - i)
		if err != nil {
			return nil, err
		}
		pool[i], pool[i+j] = pool[i+j], pool[i]
	}
	return pool[:count:count], nil
}

// cryptoIntn returns a uniform value in [0, n) from crypto/rand.
func cryptoIntn(n int) (int, error) {
	if n <= 1 {
		return 0, nil
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("fpp: secure randomness unavailable: %w", err)
	}
	return int(v.Int64()), nil
}
