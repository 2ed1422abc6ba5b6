package fpp

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"math"
	"time"
)

// GravityConstant scales every coin's selection weight. Shared scaling
// does not change relative selection probability; it exists so weights
// stay in a readable range for operators.
const GravityConstant = 10.0

// Weight computes the gravity weight of a coin at the given time:
// mass · √(ageDays + 1) · GravityConstant. Older and heavier coins are
// proportionally more likely to be chosen as spend inputs.
func Weight(c *Coin, now time.Time) float64 {
	ageDays := now.Sub(c.CreatedAt).Hours() / 24
	if ageDays < 0 {
		ageDays = 0
	}
	return c.Mass * math.Sqrt(ageDays+1) * GravityConstant
}

// lcg stretches a single seed into a cheap sequence of draws. It is
// deliberately not a CSPRNG: the unpredictability of a selection comes
// entirely from the seed, which must be secure in production.
type lcg struct {
	state uint64
}

func (l *lcg) next() uint64 {
	l.state = l.state*6364136223846793005 + 1442695040888963407
	return l.state
}

// float64 returns a draw in [0, 1) with 53 bits of the state.
func (l *lcg) float64() float64 {
	return float64(l.next()>>11) / (1 << 53)
}

// intn returns a draw in [0, n).
func (l *lcg) intn(n int) int {
	return int(l.next() % uint64(n))
}

// SelectWeighted picks count coins with probability proportional to their
// gravity weight, seeding the draw sequence from crypto/rand.
func SelectWeighted(coins []*Coin, count int, now time.Time) ([]*Coin, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return nil, fmt.Errorf("fpp: secure randomness unavailable: %w", err)
	}
	return SelectWeightedSeeded(coins, count, binary.BigEndian.Uint64(b[:]), now), nil
}

// SelectWeightedSeeded is the deterministic form of SelectWeighted: the
// same seed over the same coins reproduces the same draw, which is what
// the statistical tests rely on. Sampling is without replacement — each
// draw walks the remaining candidates accumulating weight until the
// cursor is passed, removes the winner, and recomputes the total. If
// count covers the whole list, the list is returned unchanged.
func SelectWeightedSeeded(coins []*Coin, count int, seed uint64, now time.Time) []*Coin {
	if count >= len(coins) {
		return append([]*Coin(nil), coins...)
	}

	rng := lcg{state: seed}
	remaining := append([]*Coin(nil), coins...)
	selected := make([]*Coin, 0, count)

	for len(selected) < count {
		total := 0.0
		for _, c := range remaining {
			total += Weight(c, now)
		}

		idx := len(remaining) - 1
		if total > 0 {
			cursor := rng.float64() * total
			acc := 0.0
			for i, c := range remaining {
				acc += Weight(c, now)
				if acc > cursor {
					idx = i
					break
				}
			}
		} else {
			// All-zero weights degenerate to a uniform draw.
			idx = rng.intn(len(remaining))
		}

		selected = append(selected, remaining[idx])
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}

	return selected
}
