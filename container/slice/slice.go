// Package slice implements set operations for specified data type
package slice

import (
	types "github.com/gridbox-network/grysm/consensus-types/primitives"
)

// SplitOffset returns (listsize * index) / chunks
//
// Spec pseudocode definition:
// def get_split_offset(list_size: int, chunks: int, index: int) -> int:
//    """
//    Returns a value such that for a list L, chunk count k and index i,
//    split(L, k)[i] == L[get_split_offset(len(L), k, i): get_split_offset(len(L), k, i+1)]
//    """
//    return (list_size * index) // chunks
func SplitOffset(listSize, chunks, index uint64) uint64 {
	return (listSize * index) / chunks
}

// IntersectionUint64 of any number of uint64 slices with time
// complexity of approximately O(n) leveraging a map to
// check for element existence off by a constant factor
// of underlying map efficiency.
func IntersectionUint64(s ...[]uint64) []uint64 {
	if len(s) == 0 {
		return []uint64{}
	}
	if len(s) == 1 {
		return s[0]
	}
	intersect := make([]uint64, 0)
	m := make(map[uint64]int)
	for _, k := range s[0] {
		m[k] = 1
	}
	for i, num := 1, len(s); i < num; i++ {
		for _, k := range s[i] {
			// Increment and check only if item is present in both, and no increment has happened yet.
			if _, found := m[k]; found && i == m[k] {
				m[k]++
				if m[k] == num {
					intersect = append(intersect, k)
				}
			}
		}
	}
	return intersect
}

// UnionUint64 of any number of uint64 slices with time
// complexity of approximately O(n) leveraging a map to
// check for element existence off by a constant factor
// of underlying map efficiency.
func UnionUint64(s ...[]uint64) []uint64 {
	if len(s) == 0 {
		return []uint64{}
	}
	if len(s) == 1 {
		return s[0]
	}
	set := make([]uint64, 0)
	m := make(map[uint64]bool)
	for i, num := 0, len(s); i < num; i++ {
		for _, k := range s[i] {
			if _, found := m[k]; !found {
				m[k] = true
				set = append(set, k)
			}
		}
	}
	return set
}

// SetUint64 returns a slice with only unique
// values from the provided list of indices.
func SetUint64(a []uint64) []uint64 {
	// Remove duplicates indices.
	intMap := map[uint64]bool{}
	cleanedIndices := make([]uint64, 0, len(a))
	for _, idx := range a {
		if intMap[idx] {
			continue
		}
		intMap[idx] = true
		cleanedIndices = append(cleanedIndices, idx)
	}
	return cleanedIndices
}

// IsUint64Sorted verifies if a uint64 slice is sorted in ascending order.
func IsUint64Sorted(a []uint64) bool {
	if len(a) == 0 {
		return true
	}
	for i := 1; i < len(a); i++ {
		if a[i-1] > a[i] {
			return false
		}
	}
	return true
}

// NotUint64 returns the uint64 in slice a that are
// not in slice b with time complexity of approximately
// O(n) leveraging a map to check for element existence
// off by a constant factor of underlying map efficiency.
func NotUint64(a, b []uint64) []uint64 {
	set := make([]uint64, 0)
	m := make(map[uint64]bool)

	for _, item := range a {
		m[item] = true
	}
	for _, item := range b {
		if _, found := m[item]; !found {
			set = append(set, item)
		}
	}
	return set
}

// IsInUint64 returns true if a is in b and False otherwise.
func IsInUint64(a uint64, b []uint64) bool {
	for _, v := range b {
		if v == a {
			return true
		}
	}
	return false
}

// UnionValidatorIndices of any number of validator index slices, preserving
// first-seen order, leveraging a map to check for element existence.
func UnionValidatorIndices(s ...[]types.ValidatorIndex) []types.ValidatorIndex {
	if len(s) == 0 {
		return []types.ValidatorIndex{}
	}
	if len(s) == 1 {
		return s[0]
	}
	set := make([]types.ValidatorIndex, 0)
	m := make(map[types.ValidatorIndex]bool)
	for i, num := 0, len(s); i < num; i++ {
		for _, k := range s[i] {
			if _, found := m[k]; !found {
				m[k] = true
				set = append(set, k)
			}
		}
	}
	return set
}
