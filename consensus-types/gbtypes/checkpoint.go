// Package gbtypes holds the hand-written consensus containers that the
// Gridbox state-transition core consumes. Serialization of full blocks and
// states is an external collaborator's concern; the small signing containers
// carry hand-written hash-tree-root patches because signatures and cache keys
// require them.
package gbtypes

import (
	ssz "github.com/ferranbt/fastssz"
	types "github.com/gridbox-network/grysm/consensus-types/primitives"
	"github.com/gridbox-network/grysm/encoding/bytesutil"
)

// Checkpoint is a Casper FFG epoch boundary reference: the epoch number and
// the block root of the epoch's first slot.
type Checkpoint struct {
	Epoch types.Epoch
	Root  []byte `ssz-size:"32"`
}

// Copy returns a deep copy of the checkpoint.
func (c *Checkpoint) Copy() *Checkpoint {
	if c == nil {
		return nil
	}
	return &Checkpoint{
		Epoch: c.Epoch,
		Root:  bytesutil.SafeCopyBytes(c.Root),
	}
}

// Equal reports whether both checkpoints reference the same epoch and root.
func (c *Checkpoint) Equal(other *Checkpoint) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.Epoch == other.Epoch && bytesutil.ToBytes32(c.Root) == bytesutil.ToBytes32(other.Root)
}

// HashTreeRoot ssz hashes the Checkpoint object
func (c *Checkpoint) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(c)
}

// HashTreeRootWith ssz hashes the Checkpoint object with a hasher
func (c *Checkpoint) HashTreeRootWith(hh *ssz.Hasher) error {
	indx := hh.Index()

	// Field (0) 'Epoch'
	hh.PutUint64(uint64(c.Epoch))

	// Field (1) 'Root'
	if len(c.Root) != 32 {
		return ssz.ErrBytesLength
	}
	hh.PutBytes(c.Root)

	hh.Merkleize(indx)
	return nil
}
