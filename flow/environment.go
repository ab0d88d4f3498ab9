// Part of the Crubit project, under the Apache License v2.0 with LLVM
// Exceptions. See /LICENSE for license information.
// SPDX-License-Identifier: Apache-2.0 WITH LLVM-exception

package flow

import "github.com/danakj/crubit/lattice"

// Environment maps tracked storage locations to their current flow values.
// An Environment is owned by exactly one program point during the fixed
// point; it is copied, never aliased, when propagated along a CFG edge.
type Environment struct {
	values map[Location]lattice.FlowValue
}

// NewEnvironment returns an empty environment.
func NewEnvironment() *Environment {
	return &Environment{values: make(map[Location]lattice.FlowValue)}
}

// Copy returns an independent copy.
func (e *Environment) Copy() *Environment {
	values := make(map[Location]lattice.FlowValue, len(e.values))
	for loc, v := range e.values {
		values[loc] = v
	}
	return &Environment{values: values}
}

// Get returns the tracked value for loc. ok is false if loc is untracked,
// in which case the caller derives a value from the declared type instead.
func (e *Environment) Get(loc Location) (lattice.FlowValue, bool) {
	v, ok := e.values[loc]
	return v, ok
}

// Set records the value of loc.
func (e *Environment) Set(loc Location, v lattice.FlowValue) {
	e.values[loc] = v
}

// Len returns the number of tracked locations.
func (e *Environment) Len() int {
	return len(e.values)
}

// JoinInto merges incoming into e pointwise at a control-flow confluence. A
// location present on only one side is treated as Top on the missing side
// before joining. It reports whether e changed, which is what re-queues a
// block in the fixed point.
func (e *Environment) JoinInto(incoming *Environment) bool {
	return e.combine(incoming, lattice.Join)
}

// WidenInto is the forced-convergence variant used once a loop back-edge has
// been taken too many times: any location on which the two sides disagree is
// promoted straight to Top. This loses precision but never soundness, and
// guarantees termination on arbitrarily complex control flow.
func (e *Environment) WidenInto(incoming *Environment) bool {
	return e.combine(incoming, func(a, b lattice.FlowValue) lattice.FlowValue {
		if a == b {
			return a
		}
		return lattice.Top
	})
}

func (e *Environment) combine(incoming *Environment, merge func(a, b lattice.FlowValue) lattice.FlowValue) bool {
	changed := false
	for loc, old := range e.values {
		inc, ok := incoming.values[loc]
		if !ok {
			inc = lattice.Top
		}
		if merged := merge(old, inc); merged != old {
			e.values[loc] = merged
			changed = true
		}
	}
	for loc, inc := range incoming.values {
		if _, ok := e.values[loc]; ok {
			continue
		}
		e.values[loc] = merge(lattice.Top, inc)
		changed = true
	}
	return changed
}
