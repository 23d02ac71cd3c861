package hub

import (
	"bytes"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/trie"
	"golang.org/x/crypto/sha3"

	"github.com/tos-network/grelay/types"
)

// CheckTxProof verifies that value is recorded at path in the transaction
// trie whose root was committed for blockHash. Emits a ProofVerifiedEvent on
// success; any failure aborts the call with no event.
func (h *Hub) CheckTxProof(chainID, blockHash common.Hash, value []byte, proofNodes [][]byte, path []byte) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	roots, err := h.blockRoots(chainID, blockHash)
	if err != nil {
		return err
	}
	if err := verifyInclusion(roots.TxRoot, path, value, proofNodes); err != nil {
		return errTxProof
	}
	h.emitProof(chainID, blockHash, types.ProofKindTx)
	return nil
}

// CheckReceiptProof verifies that value is recorded at path in the receipt
// trie whose root was committed for blockHash.
func (h *Hub) CheckReceiptProof(chainID, blockHash common.Hash, value []byte, proofNodes [][]byte, path []byte) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	roots, err := h.blockRoots(chainID, blockHash)
	if err != nil {
		return err
	}
	if err := verifyInclusion(roots.ReceiptRoot, path, value, proofNodes); err != nil {
		return errReceiptProof
	}
	h.emitProof(chainID, blockHash, types.ProofKindReceipt)
	return nil
}

// CheckRootsProof asserts that digesting the first node of each supplied
// list reproduces the stored roots. This deliberately checks only root
// recomputation, not full-path inclusion: the first node of a well-formed
// proof is the root node itself.
func (h *Hub) CheckRootsProof(chainID, blockHash common.Hash, txNodes, receiptNodes [][]byte) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	roots, err := h.blockRoots(chainID, blockHash)
	if err != nil {
		return err
	}
	if len(txNodes) == 0 || len(receiptNodes) == 0 {
		return errEmptyProof
	}
	if keccak256(txNodes[0]) != roots.TxRoot {
		return errRootRecomputed
	}
	if keccak256(receiptNodes[0]) != roots.ReceiptRoot {
		return errRootRecomputed
	}
	h.emitProof(chainID, blockHash, types.ProofKindRoots)
	return nil
}

func (h *Hub) emitProof(chainID, blockHash common.Hash, kind types.ProofKind) {
	log.Debug("Proof verified", "chainid", chainID, "hash", blockHash, "kind", kind)
	h.proofFeed.Send(types.ProofVerifiedEvent{ChainID: chainID, BlockHash: blockHash, Kind: kind})
}

// errValueMismatch is internal to verifyInclusion; callers report the
// kind-specific sentinel instead.
var errValueMismatch = errors.New("proven value differs from claimed value")

// verifyInclusion runs a trie inclusion proof against root and requires the
// proven value to match value byte for byte.
func verifyInclusion(root common.Hash, path, value []byte, proofNodes [][]byte) error {
	if len(proofNodes) == 0 {
		return errValueMismatch
	}
	proven, err := trie.VerifyProof(root, path, newProofSet(proofNodes))
	if err != nil {
		return err
	}
	if !bytes.Equal(proven, value) {
		return errValueMismatch
	}
	return nil
}

// proofSet exposes a node list as the hash-keyed reader the trie proof
// verifier expects.
type proofSet struct {
	nodes map[common.Hash][]byte
}

func newProofSet(proofNodes [][]byte) *proofSet {
	set := &proofSet{nodes: make(map[common.Hash][]byte, len(proofNodes))}
	for _, node := range proofNodes {
		set.nodes[keccak256(node)] = node
	}
	return set
}

func (s *proofSet) Has(key []byte) (bool, error) {
	_, ok := s.nodes[common.BytesToHash(key)]
	return ok, nil
}

func (s *proofSet) Get(key []byte) ([]byte, error) {
	node, ok := s.nodes[common.BytesToHash(key)]
	if !ok {
		return nil, errors.New("proof node not supplied")
	}
	return node, nil
}

// keccak256 digests data with the legacy keccak the remote chains hash
// their headers and trie nodes with.
func keccak256(data []byte) (hash common.Hash) {
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write(data)
	hasher.(crypto.KeccakState).Read(hash[:])
	return hash
}
