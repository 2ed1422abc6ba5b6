package fpp

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"golang.org/x/crypto/sha3"

	"github.com/floatpool/go-fpp/secp256k1"
)

const (
	txMessageDomain = "fpp/tx-message/v1"
	txHashDomain    = "fpp/tx-hash/v1"
)

// PrivacyTransaction is the complete transfer artifact handed to the
// ledger: one nullifier and one fresh output per input (the denomination
// is fixed, so the swap is value-conserving 1:1), the ring signature over
// the binding message, and the proof placeholder. Immutable once built;
// the ledger consumes it exactly once.
type PrivacyTransaction struct {
	InputNullifiers   [][]byte
	OutputCommitments []*secp256k1.Point
	Outputs           []*EncryptedOutput
	Signature         *RingSignature
	Proof             *ProofPlaceholder
	MerkleRoot        []byte
	Deadline          time.Time
	AnonymityScore    int
	Hash              []byte
}

// BuildTransaction assembles a privacy transaction spending inputs to
// recipientPub. It performs no I/O and never retries: the result is
// either a complete artifact or a structured error. The context is
// consulted between stages, so an abandoned build stops cleanly without
// a partially-built artifact escaping; there is no artificial latency in
// the core — any pacing belongs to the calling harness.
func BuildTransaction(ctx context.Context, inputs []*Coin, pool *Pool,
	recipientPub *secp256k1.Point, priv *secp256k1.Scalar,
	merkleRoot []byte, deadline time.Time) (*PrivacyTransaction, error) {

	now := time.Now()

	if len(inputs) == 0 {
		return nil, ErrNoInputs
	}
	inputIDs := make([]string, len(inputs))
	for i, c := range inputs {
		if _, err := pool.Lookup(c.ID); err != nil {
			return nil, err
		}
		if c.Spent {
			return nil, fmt.Errorf("%w: %s", ErrCoinSpent, c.ID)
		}
		if now.Before(c.LockedUntil) {
			return nil, fmt.Errorf("%w: %s", ErrCoinLocked, c.ID)
		}
		if len(c.Secret) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrMissingSecret, c.ID)
		}
		inputIDs[i] = c.ID
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Anonymity set. A pool too thin to reach the policy minimum is a
	// hard failure, not a silently degraded ring.
	sel, err := SelectDecoys(pool, inputIDs, DefaultRingSize, now)
	if err != nil {
		return nil, err
	}
	if sel.RingSize < MinRingSize {
		return nil, fmt.Errorf("%w: got %d, minimum %d", ErrRingBelowMinimum, sel.RingSize, MinRingSize)
	}
	if sel.RingSize > MaxRingSize {
		return nil, fmt.Errorf("%w: got %d, maximum %d", ErrRingAboveMaximum, sel.RingSize, MaxRingSize)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Spend markers.
	nullifiers := make([][]byte, len(inputs))
	for i, c := range inputs {
		nullifiers[i] = Nullifier(c.ID, c.Secret)
	}

	// One fresh commitment and encrypted payload per input.
	outputCommitments := make([]*secp256k1.Point, len(inputs))
	outputs := make([]*EncryptedOutput, len(inputs))
	for i, c := range inputs {
		commitment, err := Commit(c.Value, nil)
		if err != nil {
			return nil, err
		}

		secret, err := NewSecret()
		if err != nil {
			return nil, err
		}

		enc, err := EncryptOutput(secret, recipientPub, commitment.Point)
		if err != nil {
			return nil, err
		}

		outputCommitments[i] = commitment.Point
		outputs[i] = enc
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	proof, err := NewProofPlaceholder(nullifiers, outputCommitments, merkleRoot)
	if err != nil {
		return nil, err
	}

	// Shuffle the signer's public key into the decoy-derived key list.
	members := make([]*secp256k1.Point, 0, len(sel.Decoys)+1)
	for _, d := range sel.Decoys {
		members = append(members, d.Commitment.Point)
	}
	signerIdx, err := cryptoIntn(len(members) + 1)
	if err != nil {
		return nil, err
	}
	members = append(members, nil)
	copy(members[signerIdx+1:], members[signerIdx:])
	members[signerIdx] = secp256k1.BaseMul(priv)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	message := signingMessage(proof, recipientPub, merkleRoot, deadline, nullifiers)
	sig, err := Sign(message, priv, members, signerIdx)
	if err != nil {
		return nil, err
	}

	tx := &PrivacyTransaction{
		InputNullifiers:   nullifiers,
		OutputCommitments: outputCommitments,
		Outputs:           outputs,
		Signature:         sig,
		Proof:             proof,
		MerkleRoot:        append([]byte(nil), merkleRoot...),
		Deadline:          deadline,
		AnonymityScore:    sel.AnonymityScore,
	}
	tx.Hash = tx.contentHash()
	return tx, nil
}

// Verify runs the ledger-facing structural and cryptographic checks:
// 1:1 value conservation across inputs and outputs, payload commitments
// matching the published output commitments, proof placeholder integrity,
// and the ring signature chain. All failures are collected.
func (tx *PrivacyTransaction) Verify() *VerifyResult {
	var errs []error

	if len(tx.InputNullifiers) != len(tx.OutputCommitments) ||
		len(tx.InputNullifiers) != len(tx.Outputs) {
		errs = append(errs, ErrValueConservation)
	} else {
		for i, out := range tx.Outputs {
			if !out.Commitment.Equal(tx.OutputCommitments[i]) {
				errs = append(errs, fmt.Errorf("%w: output %d", ErrCommitmentMismatch, i))
			}
		}
	}

	proof, err := NewProofPlaceholder(tx.InputNullifiers, tx.OutputCommitments, tx.MerkleRoot)
	if err != nil {
		errs = append(errs, err)
	} else if !bytes.Equal(proof.Bytes(), tx.Proof.Bytes()) {
		errs = append(errs, ErrProofMismatch)
	}

	sigResult := tx.Signature.Verify()
	errs = append(errs, sigResult.Errors...)

	return &VerifyResult{Valid: len(errs) == 0, Errors: errs}
}

// signingMessage binds the ring signature to the proof, recipient, Merkle
// root, timing bound, and every input nullifier.
func signingMessage(proof *ProofPlaceholder, recipientPub *secp256k1.Point,
	merkleRoot []byte, deadline time.Time, nullifiers [][]byte) []byte {

	h := sha3.New256()
	h.Write([]byte(txMessageDomain))
	h.Write(proof.Bytes())
	h.Write(recipientPub.Encode())

	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(deadline.Unix()))
	h.Write(ts[:])

	h.Write(merkleRoot)
	for _, nf := range nullifiers {
		h.Write(nf)
	}
	return h.Sum(nil)
}

// contentHash derives the transaction id from everything the ledger will
// see.
func (tx *PrivacyTransaction) contentHash() []byte {
	h := sha3.New256()
	h.Write([]byte(txHashDomain))
	for _, nf := range tx.InputNullifiers {
		h.Write(nf)
	}
	for _, p := range tx.OutputCommitments {
		h.Write(p.Encode())
	}
	for _, out := range tx.Outputs {
		h.Write(out.EphemeralPub.Encode())
		h.Write(out.EncryptedSecret)
		h.Write(out.MAC)
	}
	h.Write(tx.Signature.Serialize())
	h.Write(tx.Proof.Bytes())
	h.Write(tx.MerkleRoot)

	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(tx.Deadline.Unix()))
	h.Write(ts[:])

	return h.Sum(nil)
}
