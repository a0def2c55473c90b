package cache

import "errors"

var (
	// ErrNotFound for cache fetches that return a nil value.
	ErrNotFound = errors.New("not found in cache")
	// ErrNotCommittee will be returned when a cache object is not a pointer to
	// a Committees struct.
	ErrNotCommittee = errors.New("object is not a committee struct")
	// ErrNotProposerIndices will be returned when a cache object is not a pointer to
	// a ProposerIndices struct.
	ErrNotProposerIndices = errors.New("object is not a proposer indices struct")
	// ErrAlreadyInProgress appears when a cache entry is already marked as being
	// computed. The caller should wait on Get for the in progress data to resolve.
	ErrAlreadyInProgress = errors.New("already in progress")
	// ErrNonExistingSyncCommitteeKey when sync committee key (root) does not exist in cache.
	ErrNonExistingSyncCommitteeKey   = errors.New("does not exist sync committee key")
	errNotSyncCommitteeIndexPosition = errors.New("not syncCommitteeIndexPosition struct")
)
