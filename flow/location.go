// Part of the Crubit project, under the Apache License v2.0 with LLVM
// Exceptions. See /LICENSE for license information.
// SPDX-License-Identifier: Apache-2.0 WITH LLVM-exception

// Package flow implements the flow-sensitive half of the nullability
// analysis: the per-program-point environment of pointer values, the
// transfer function for each statement and expression kind, and the worklist
// fixed point that drives them over a function's control-flow graph.
package flow

import "github.com/danakj/crubit/ir"

// Location identifies a storage slot the environment can track: a variable,
// or a member chain rooted at one. Locations are comparable values so they
// can key the environment map.
type Location interface {
	isLocation()
}

// VarLoc is the storage of a local variable or parameter.
type VarLoc struct {
	Var *ir.VarDecl
}

func (VarLoc) isLocation() {}

// FieldLoc is a member of a tracked location, reached by value access.
// Members reached through `->` are not tracked: the pointee may be aliased,
// and the analysis does not do alias reasoning.
type FieldLoc struct {
	Base  Location
	Field *ir.FieldDecl
}

func (FieldLoc) isLocation() {}

// LocationOf maps an expression to the storage location it names, if it
// names one stably. Parentheses are transparent. Expressions without a
// stable location (call results, casts, arrow chains) return ok=false;
// their values flow through the expression tree but are not narrowed or
// assigned into the environment.
func LocationOf(e ir.Expr) (Location, bool) {
	switch x := e.(type) {
	case *ir.VarRef:
		return VarLoc{Var: x.Var}, true
	case *ir.Paren:
		return LocationOf(x.Inner)
	case *ir.FieldAccess:
		if x.Arrow {
			return nil, false
		}
		base, ok := LocationOf(x.Base)
		if !ok {
			return nil, false
		}
		return FieldLoc{Base: base, Field: x.Field}, true
	default:
		return nil, false
	}
}
