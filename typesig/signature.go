// Part of the Crubit project, under the Apache License v2.0 with LLVM
// Exceptions. See /LICENSE for license information.
// SPDX-License-Identifier: Apache-2.0 WITH LLVM-exception

// Package typesig computes the structural nullability signature of a type:
// the flattened, order-preserving vector of declared nullability kinds for
// every pointer position reachable through the type's own pointer and
// template structure. The signature is a pure function of the type, so it is
// memoized per type identity for the life of an analysis session.
package typesig

import (
	"fmt"
	"strings"
	"sync"

	"github.com/danakj/crubit/config"
	"github.com/danakj/crubit/ir"
	"github.com/danakj/crubit/lattice"
)

// Vector is an ordered sequence of declared nullability kinds, one entry per
// pointer position in a type's structural signature.
type Vector []lattice.NullabilityKind

// Equal reports whether two vectors have the same length and elements.
func (v Vector) Equal(other Vector) bool {
	if len(v) != len(other) {
		return false
	}
	for i := range v {
		if v[i] != other[i] {
			return false
		}
	}
	return true
}

// String renders the vector the way the assertion directive spells it.
func (v Vector) String() string {
	parts := make([]string, len(v))
	for i, k := range v {
		parts[i] = k.String()
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

// Cache memoizes signatures per type identity for one analysis session.
// Construction and teardown are tied to the session; there is no global
// state. A Cache is safe for concurrent use by the per-function workers.
type Cache struct {
	mu   sync.Mutex
	sigs map[string]Vector
}

// NewCache returns an empty signature cache.
func NewCache() *Cache {
	return &Cache{sigs: make(map[string]Vector)}
}

// Signature returns the structural nullability signature of t.
//
// The structural rule, applied recursively:
//   - a pointer type contributes its own declared kind followed by the
//     signature of its pointee;
//   - a template instantiation contributes the concatenated signatures of its
//     type arguments in declaration order (non-type arguments contribute
//     nothing);
//   - any other type, including a concrete struct reached by member access,
//     contributes nothing; ordinary data members are not unfolded;
//   - references and cv-qualifiers are transparent.
//
// Types nested beyond config.MaxTypeNestingDepth are rejected with an error.
func (c *Cache) Signature(t ir.Type) (Vector, error) {
	key := t.Key()

	c.mu.Lock()
	sig, ok := c.sigs[key]
	c.mu.Unlock()
	if ok {
		return sig, nil
	}

	sig, err := build(t, 0)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.sigs[key] = sig
	c.mu.Unlock()
	return sig, nil
}

func build(t ir.Type, depth int) (Vector, error) {
	if depth > config.MaxTypeNestingDepth {
		return nil, fmt.Errorf("type %q exceeds maximum nesting depth %d", t.Key(), config.MaxTypeNestingDepth)
	}

	switch u := t.(type) {
	case *ir.Pointer:
		rest, err := build(u.Pointee, depth+1)
		if err != nil {
			return nil, err
		}
		return append(Vector{u.Kind}, rest...), nil
	case *ir.Reference:
		return build(u.Inner, depth+1)
	case *ir.Qualified:
		return build(u.Inner, depth+1)
	case *ir.Struct:
		var sig Vector
		for _, arg := range u.Args {
			ta, ok := arg.(ir.TypeArg)
			if !ok {
				continue
			}
			part, err := build(ta.T, depth+1)
			if err != nil {
				return nil, err
			}
			sig = append(sig, part...)
		}
		return sig, nil
	case *ir.TemplateParamRef:
		return nil, fmt.Errorf("unsubstituted template parameter %q in type", u.Name)
	case *ir.Builtin, *ir.Function:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown type %T", t)
	}
}

// FirstKind returns the declared kind of the outermost pointer of t, if t is
// a pointer type once references and qualifiers are stripped.
func FirstKind(t ir.Type) (lattice.NullabilityKind, bool) {
	if p, ok := ir.StripTransparent(t).(*ir.Pointer); ok {
		return p.Kind, true
	}
	return lattice.Unspecified, false
}
