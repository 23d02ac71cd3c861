package types

import "errors"

// Error categories. Package-level sentinels wrap one of these with
// fmt.Errorf("%w: ...") so callers can classify failures with errors.Is.
// Every failure aborts the triggering call in full; there is no partial
// commit anywhere in the relay core.
var (
	// ErrValidation covers malformed or mismatched header encodings.
	ErrValidation = errors.New("header validation failed")

	// ErrAuthorization covers unregistered chains, unauthorized modules and
	// signers outside the current validator set.
	ErrAuthorization = errors.New("not authorized")

	// ErrContinuity covers unknown parents, duplicate block hashes and
	// duplicate or self chain registrations.
	ErrContinuity = errors.New("chain continuity violated")

	// ErrProof covers failed inclusion proofs and root recomputations.
	ErrProof = errors.New("proof verification failed")
)
