// Package testutil provides small helpers shared by tests across packages:
// sequence collectors and ready-made query plans.
package testutil

import (
	"iter"

	"github.com/roach88/graphwalk/internal/interpreter"
)

// Collect drains a sequence into a slice.
func Collect[T any](seq iter.Seq[T]) []T {
	var out []T
	for v := range seq {
		out = append(out, v)
	}
	return out
}

// CollectRows drains a row sequence into a slice.
func CollectRows(rows iter.Seq[interpreter.Row]) []interpreter.Row {
	return Collect(rows)
}
