// Part of the Crubit project, under the Apache License v2.0 with LLVM
// Exceptions. See /LICENSE for license information.
// SPDX-License-Identifier: Apache-2.0 WITH LLVM-exception

// Package lattice defines the value domains of the nullability analysis: the
// declared NullabilityKind carried by pointer types, and the flow-sensitive
// FlowValue refined per program point, together with their merge operators.
package lattice

import "fmt"

// NullabilityKind is the declared, static nullability annotation of a single
// pointer position in a type. It is a property of the type alone and is never
// refined by the analysis.
type NullabilityKind uint8

const (
	// Unspecified means no annotation is present. It is treated as unknown,
	// not as safe.
	Unspecified NullabilityKind = iota
	// Nonnull marks a pointer declared to never be null.
	Nonnull
	// Nullable marks a pointer declared to possibly be null.
	Nullable
)

// String returns the annotation spelling used in diagnostics.
func (k NullabilityKind) String() string {
	switch k {
	case Unspecified:
		return "unspecified"
	case Nonnull:
		return "nonnull"
	case Nullable:
		return "nullable"
	default:
		return fmt.Sprintf("NullabilityKind(%d)", uint8(k))
	}
}

// FlowValue is the flow-sensitive refinement of a single pointer position at
// a particular program point.
type FlowValue uint8

const (
	// Top means the pointer may or may not be null. It is the value of any
	// position whose declared kind is Unspecified or Nullable and for which
	// no narrowing has occurred, and the result of merging disagreeing
	// branches.
	Top FlowValue = iota
	// DefinitelyNonnull means the pointer is proven non-null here.
	DefinitelyNonnull
	// DefinitelyNull means the pointer is proven null here.
	DefinitelyNull
)

// String returns a short human-readable form for error messages.
func (v FlowValue) String() string {
	switch v {
	case Top:
		return "unknown"
	case DefinitelyNonnull:
		return "definitely non-null"
	case DefinitelyNull:
		return "definitely null"
	default:
		return fmt.Sprintf("FlowValue(%d)", uint8(v))
	}
}

// Join is the conservative merge of two flow values at a control-flow
// confluence: equal values survive, disagreement degrades to Top.
func Join(a, b FlowValue) FlowValue {
	if a == b {
		return a
	}
	return Top
}

// Narrow returns the value a truth test of a pointer expression proves on
// one of its branches: DefinitelyNonnull on the edge where the test held,
// DefinitelyNull on the edge where it failed.
func Narrow(testHolds bool) FlowValue {
	if testHolds {
		return DefinitelyNonnull
	}
	return DefinitelyNull
}

// SatisfiesNonnull reports whether v proves non-nullness. Top and
// DefinitelyNull both fail: an unannotated pointer gets no benefit of the
// doubt at a site that requires a non-null value.
func SatisfiesNonnull(v FlowValue) bool {
	return v == DefinitelyNonnull
}

// FromDeclared seeds a flow value from a declared kind: a Nonnull-declared
// source is trusted to be non-null, everything else starts unknown.
func FromDeclared(k NullabilityKind) FlowValue {
	if k == Nonnull {
		return DefinitelyNonnull
	}
	return Top
}
