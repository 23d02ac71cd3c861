// Package params holds the wire-format constants of the relay protocol.
package params

const (
	// HeaderFieldCount is the number of ordered fields in a remote chain
	// block header serialization.
	HeaderFieldCount = 15

	// Fixed field positions inside the decoded header field sequence.
	ParentHashField  = 0  // hash of the parent header
	ProposerField    = 2  // validator-set change candidate (zero = no vote)
	TxRootField      = 4  // transaction trie root
	ReceiptRootField = 5  // receipt trie root
	NumberField      = 8  // block number
	ExtraField       = 12 // extension data; signed form carries a trailing seal

	// ExtraSealLength is the length of the secp256k1 seal appended to the
	// extension-data field of a signed header serialization.
	ExtraSealLength = 65
)

// VoteThreshold returns the quorum required to toggle a validator on a chain
// with n initial validators. Fixed at registration; never recomputed when the
// set later grows or shrinks through voting.
func VoteThreshold(n int) uint64 {
	return uint64(n/2 + 1)
}
