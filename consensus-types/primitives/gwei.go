package types

// Gwei is a denomination of 1e9 units of the chain's minimal token denomination.
type Gwei uint64
