// Package library holds the game catalog vocabulary and the list filters.
//
// Filters is a value type; every mutator returns a new copy so the caller
// can hand the previous value to an in-flight request without it changing
// underneath. Values produces the GET /juegos query with only the non-empty
// fields set.
package library
