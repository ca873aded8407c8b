// Package bitset provides a lock-free segmented bitset for concurrent access.
//
// Architecture:
//   - Segmented design: 8KB segments (1024 uint64 words = 65536 bits each)
//   - Lock-free: atomic.Pointer for segment array, atomic.Uint64 for words
//   - Growth appends segments; existing segments are never reallocated, so
//     readers holding an older segment array still observe every later write
//
// Used internally for visibility masks (excluded vector IDs).
package bitset
