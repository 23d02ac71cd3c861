package validation

import (
	"fmt"

	"github.com/tos-network/grelay/types"
)

// Sentinel errors, each wrapping its category sentinel so callers can
// classify with errors.Is.
var (
	errSelfRegistration = fmt.Errorf("%w: validation: cannot register the local chain", types.ErrContinuity)
	errChainExists      = fmt.Errorf("%w: validation: chain already registered", types.ErrContinuity)
	errUnknownChain     = fmt.Errorf("%w: validation: chain not registered", types.ErrAuthorization)
	errNoValidators     = fmt.Errorf("%w: validation: empty initial validator set", types.ErrValidation)

	errFieldCount    = fmt.Errorf("%w: validation: header field counts differ", types.ErrValidation)
	errShortHeader   = fmt.Errorf("%w: validation: header has too few fields", types.ErrValidation)
	errFieldMismatch = fmt.Errorf("%w: validation: header serializations disagree", types.ErrValidation)
	errMissingSeal   = fmt.Errorf("%w: validation: extension field shorter than seal", types.ErrValidation)
	errInvalidSeal   = fmt.Errorf("%w: validation: seal recovery failed", types.ErrValidation)
	errUnknownParent = fmt.Errorf("%w: validation: parent header not stored", types.ErrContinuity)
	errUnknownSigner = fmt.Errorf("%w: validation: signer is not a current validator", types.ErrAuthorization)
)
