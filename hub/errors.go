package hub

import (
	"fmt"

	"github.com/tos-network/grelay/types"
)

// Sentinel errors, each wrapping its category sentinel so callers can
// classify with errors.Is.
var (
	errSelfChain    = fmt.Errorf("%w: hub: cannot register the local chain", types.ErrContinuity)
	errChainExists  = fmt.Errorf("%w: hub: chain already registered", types.ErrContinuity)
	errUnknownChain = fmt.Errorf("%w: hub: chain not registered", types.ErrAuthorization)
	errNotAuthority = fmt.Errorf("%w: hub: caller is not the chain's validation module", types.ErrAuthorization)
	errKnownBlock   = fmt.Errorf("%w: hub: roots already committed for block", types.ErrContinuity)
	errUnknownBlock = fmt.Errorf("%w: hub: no roots committed for block", types.ErrContinuity)

	// errHashMismatch means the submitting module handed over header bytes
	// that do not digest to the claimed block hash. A correctly functioning
	// module can never trigger it.
	errHashMismatch = fmt.Errorf("%w: hub: header bytes do not digest to block hash", types.ErrValidation)

	errEmptyProof     = fmt.Errorf("%w: hub: empty proof node list", types.ErrProof)
	errTxProof        = fmt.Errorf("%w: hub: transaction not included under stored root", types.ErrProof)
	errReceiptProof   = fmt.Errorf("%w: hub: receipt not included under stored root", types.ErrProof)
	errRootRecomputed = fmt.Errorf("%w: hub: recomputed root differs from stored root", types.ErrProof)
)
