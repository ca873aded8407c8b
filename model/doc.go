// Package model defines core types used throughout vecseg.
//
// # Identity Types
//
//   - ID: zero-based global offset of a vector within a segment (uint64)
//
// # Result Types
//
//   - Neighbor: one (ID, Distance) pair
//   - SearchResult: one ordered neighbor list per query
//
// All result lists are ordered by the total order (distance, id): smaller
// distance first, ties broken by the smaller ID.
package model
