// Package fpp implements the cryptographic transaction core of the
// floating-point privacy protocol: Pedersen-committed coins, one-way
// nullifiers and key images, gravity-weighted coin selection, decoy ring
// construction, an LSAG ring signature, and the assembly of a complete
// privacy transaction ready for submission to the ledger.
//
// The core is pure computation over immutable inputs. Pool snapshots are
// passed explicitly into every call; spend-state, persistence, and
// nullifier bookkeeping belong to the ledger, not to this package.
package fpp

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/floatpool/go-fpp/secp256k1"
)

// SecretSize is the width of a coin spend secret.
const SecretSize = 32

// Coin is a fixed-denomination value token. A coin is minted unspent with
// a fresh secret; the nullifier stays nil until the coin is spent, at
// which point it is derived once and the coin is marked spent. The secret
// is sensitive until spend and never required afterwards.
type Coin struct {
	ID          string
	Value       uint64
	Commitment  *Commitment
	Nullifier   []byte
	Mass        float64
	CreatedAt   time.Time
	LockedUntil time.Time
	Spent       bool
	Owner       *secp256k1.Point
	Secret      []byte
}

// Mint creates an unspent coin with a fresh spend secret and a Pedersen
// commitment to its value.
func Mint(id string, value uint64, mass float64, owner *secp256k1.Point, now time.Time) (*Coin, error) {
	secret, err := NewSecret()
	if err != nil {
		return nil, err
	}

	commitment, err := Commit(value, nil)
	if err != nil {
		return nil, err
	}

	return &Coin{
		ID:         id,
		Value:      value,
		Commitment: commitment,
		Mass:       mass,
		CreatedAt:  now,
		Owner:      owner,
		Secret:     secret,
	}, nil
}

// NewSecret draws a fresh 32-byte spend secret from crypto/rand.
func NewSecret() ([]byte, error) {
	secret := make([]byte, SecretSize)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("fpp: secure randomness unavailable: %w", err)
	}
	return secret, nil
}

// SpendableAt reports whether the coin can be used as a transaction input
// at the given time: unspent, holding its secret, and past any lock.
func (c *Coin) SpendableAt(now time.Time) bool {
	return !c.Spent && len(c.Secret) > 0 && !now.Before(c.LockedUntil)
}

// MarkSpent derives the coin's nullifier and marks it spent. Calling it
// on an already-spent coin returns the existing nullifier unchanged; the
// nullifier is a deterministic function of (id, secret) and is computed
// at most once per coin.
func (c *Coin) MarkSpent() ([]byte, error) {
	if c.Spent {
		return c.Nullifier, nil
	}
	if len(c.Secret) == 0 {
		return nil, ErrMissingSecret
	}
	c.Nullifier = Nullifier(c.ID, c.Secret)
	c.Spent = true
	return c.Nullifier, nil
}

// Pool is a snapshot of the coin set visible to the builder. It is plain
// data passed by the wallet collaborator; the core never mutates it and
// holds no global pool state.
type Pool struct {
	Coins []*Coin
}

// Lookup returns the coin with the given id, or ErrUnknownCoin.
func (p *Pool) Lookup(id string) (*Coin, error) {
	for _, c := range p.Coins {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownCoin, id)
}

// eligibleDecoys returns the unspent, unlocked coins not excluded by id.
// Lock state matters here too: a locked coin cannot appear in a ring the
// ledger would accept, so including one would shrink the effective
// anonymity set.
func (p *Pool) eligibleDecoys(exclude map[string]bool, now time.Time) []*Coin {
	var out []*Coin
	for _, c := range p.Coins {
		if c.Spent || exclude[c.ID] || now.Before(c.LockedUntil) {
			continue
		}
		out = append(out, c)
	}
	return out
}
