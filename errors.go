package fpp

import (
	"errors"
	"fmt"
)

// Precondition violations. These indicate caller bugs and are returned as
// hard failures, never retried.
var (
	ErrNoInputs              = errors.New("fpp: transaction requires at least one input coin")
	ErrMissingSecret         = errors.New("fpp: input coin has no spend secret")
	ErrCoinSpent             = errors.New("fpp: coin is already spent")
	ErrCoinLocked            = errors.New("fpp: coin is locked")
	ErrUnknownCoin           = errors.New("fpp: coin not present in pool snapshot")
	ErrRingTooSmall          = errors.New("fpp: ring must have at least two members")
	ErrRingBelowMinimum      = errors.New("fpp: ring smaller than the policy minimum")
	ErrRingAboveMaximum      = errors.New("fpp: ring larger than the policy maximum")
	ErrSignerIndexOutOfRange = errors.New("fpp: signer index out of range")
	ErrSignerKeyMismatch     = errors.New("fpp: ring member at signer index does not match private key")
	ErrInvalidTarget         = errors.New("fpp: target ring size must be positive")
)

// Verification failures. These are expected under adversarial input and
// are carried inside a VerifyResult rather than returned as Go errors.
var (
	ErrComponentLengthMismatch = errors.New("fpp: signature component lengths do not match ring size")
	ErrLoopNotClosed           = errors.New("fpp: challenge chain does not close back to c[0]")
	ErrInvalidMAC              = errors.New("fpp: output MAC verification failed")
	ErrValueConservation       = errors.New("fpp: input and output counts do not conserve value")
	ErrCommitmentMismatch      = errors.New("fpp: output payload commitment does not match published commitment")
	ErrProofMismatch           = errors.New("fpp: proof placeholder does not bind transaction content")
)

// ChainBreakError reports the ring position at which the recomputed
// challenge chain diverges from the published one.
type ChainBreakError struct {
	Index int
}

func (e *ChainBreakError) Error() string {
	return fmt.Sprintf("fpp: challenge chain broken at index %d", e.Index)
}

// VerifyResult is the structured outcome of a verification. A failed
// verification is a normal result, not an error; callers branch on Valid
// and can distinguish malformed input from cryptographic failure by the
// error values collected in Errors.
type VerifyResult struct {
	Valid  bool
	Errors []error
}

func failedResult(errs ...error) *VerifyResult {
	return &VerifyResult{Valid: false, Errors: errs}
}
