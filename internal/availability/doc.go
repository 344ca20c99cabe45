// Package availability contains the pure slot computation used by both the
// read path (slot listing) and the commit path (re-validation of a chosen slot).
//
// Every function is side-effect free: inputs are never mutated, a new slice is
// returned instead. Intervals are half-open [start, end) in minutes from midnight.
package availability
