package state_native

import (
	"github.com/gridbox-network/grysm/encoding/bytesutil"
	"github.com/pkg/errors"
)

// RandaoMixes of block proposers on the beacon chain.
func (b *BeaconState) RandaoMixes() [][]byte {
	b.lock.RLock()
	defer b.lock.RUnlock()

	return bytesutil.SafeCopy2dBytes(b.randaoMixes)
}

// RandaoMixAtIndex retrieves a specific randao mix based on an
// input index value.
func (b *BeaconState) RandaoMixAtIndex(idx uint64) ([]byte, error) {
	b.lock.RLock()
	defer b.lock.RUnlock()

	if idx >= uint64(len(b.randaoMixes)) {
		return nil, errors.Errorf("randao mix index %d out of bounds %d", idx, len(b.randaoMixes))
	}
	return bytesutil.SafeCopyBytes(b.randaoMixes[idx]), nil
}

// RandaoMixesLength returns the length of the randao mixes slice.
func (b *BeaconState) RandaoMixesLength() int {
	b.lock.RLock()
	defer b.lock.RUnlock()

	return len(b.randaoMixes)
}
