package types

import "github.com/ethereum/go-ethereum/common"

// ProofKind identifies which stored root a successful proof check ran against.
type ProofKind uint8

const (
	ProofKindTx ProofKind = iota
	ProofKindReceipt
	ProofKindRoots
)

func (k ProofKind) String() string {
	switch k {
	case ProofKindTx:
		return "tx"
	case ProofKindReceipt:
		return "receipt"
	case ProofKindRoots:
		return "roots"
	}
	return "unknown"
}

// ChainRegisteredEvent is posted once when a remote chain is registered.
type ChainRegisteredEvent struct {
	ChainID common.Hash
}

// ValidatorChangeEvent is posted when a vote tally reaches the chain's
// threshold and toggles a validator's membership.
type ValidatorChangeEvent struct {
	ChainID   common.Hash
	Validator common.Address
	Added     bool // false = evicted
}

// ProofVerifiedEvent is posted on every successful proof check.
type ProofVerifiedEvent struct {
	ChainID   common.Hash
	BlockHash common.Hash
	Kind      ProofKind
}
