// Part of the Crubit project, under the Apache License v2.0 with LLVM
// Exceptions. See /LICENSE for license information.
// SPDX-License-Identifier: Apache-2.0 WITH LLVM-exception

package flow

import (
	"context"
	"fmt"

	"github.com/danakj/crubit/config"
	"github.com/danakj/crubit/diagnostic"
	"github.com/danakj/crubit/ir"
	"github.com/danakj/crubit/lattice"
	"github.com/danakj/crubit/typesig"
)

// AnalyzeFunc runs the nullability analysis of one function body to a
// dataflow fixed point and returns the diagnostics it proves. Function
// declarations without a body, and uninstantiated template patterns (whose
// contracts are checked at each call site against the substituted
// signature), yield no diagnostics.
//
// The analysis is a single deterministic pass to fixed point: an explicit
// worklist propagates environments forward over the CFG, joining at
// confluences and widening at edges re-entered more than
// config.WidenVisitLimit times, then one harvest pass over the stabilized
// block inputs collects every diagnostic exactly once.
func AnalyzeFunc(ctx context.Context, fn *ir.FuncDecl, sigs *typesig.Cache) ([]diagnostic.Diagnostic, error) {
	if fn.Body == nil || len(fn.Body.Blocks) == 0 || len(fn.TemplateParams) > 0 {
		return nil, nil
	}

	blocks := fn.Body.Blocks
	for i, b := range blocks {
		if b.Index != i {
			return nil, fmt.Errorf("malformed CFG: block at position %d has index %d", i, b.Index)
		}
		if len(b.Succs) > 2 {
			return nil, fmt.Errorf("malformed CFG: block %d has %d successors", i, len(b.Succs))
		}
	}

	// Parameters are seeded from their declared kinds: a non-null-declared
	// parameter starts proven, everything else starts unknown.
	seed := NewEnvironment()
	for _, p := range fn.Params {
		if k, ok := typesig.FirstKind(p.Type); ok {
			seed.Set(VarLoc{Var: p}, lattice.FromDeclared(k))
		}
	}

	tr := &transfer{fn: fn, sigs: sigs}

	in := make([]*Environment, len(blocks))
	visits := make([]int, len(blocks))
	in[0] = seed
	worklist := []int{0}
	inWorklist := make([]bool, len(blocks))
	inWorklist[0] = true

	budget := 0
	for len(worklist) > 0 {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("fixed point interrupted: %w", ctx.Err())
		default:
		}

		idx := worklist[0]
		worklist = worklist[1:]
		inWorklist[idx] = false

		if budget++; budget > config.MaxBlockVisitBudget {
			return nil, fmt.Errorf("fixed point exceeded %d block visits", config.MaxBlockVisitBudget)
		}

		env := in[idx].Copy()
		if err := tr.block(env, blocks[idx]); err != nil {
			return nil, err
		}

		for branch, succ := range blocks[idx].Succs {
			edgeEnv := env
			if len(blocks[idx].Succs) > 1 {
				edgeEnv = env.Copy()
			}
			if cond := blocks[idx].Cond(); cond != nil {
				if loc, positive, ok := refinement(cond); ok {
					holds := positive
					if branch == 1 {
						holds = !holds
					}
					edgeEnv.Set(loc, lattice.Narrow(holds))
				}
			}

			changed := false
			if in[succ.Index] == nil {
				in[succ.Index] = edgeEnv.Copy()
				changed = true
			} else if visits[succ.Index] >= config.WidenVisitLimit {
				changed = in[succ.Index].WidenInto(edgeEnv)
			} else {
				changed = in[succ.Index].JoinInto(edgeEnv)
			}
			if changed {
				visits[succ.Index]++
				if !inWorklist[succ.Index] {
					worklist = append(worklist, succ.Index)
					inWorklist[succ.Index] = true
				}
			}
		}
	}

	// Harvest pass: every reachable block is re-run exactly once over its
	// stabilized input with a live reporter.
	rep := diagnostic.NewReporter()
	tr.rep = rep
	if fn.IsConstructor {
		if err := tr.inits(in[0].Copy()); err != nil {
			return nil, err
		}
	}
	for i, b := range blocks {
		if in[i] == nil {
			continue
		}
		if err := tr.block(in[i].Copy(), b); err != nil {
			return nil, err
		}
	}
	return rep.Diagnostics(), nil
}

// refinement interprets a branch condition as a truth test of a pointer
// expression's storage location. On the edge where the test holds the
// location is proven non-null; on the other edge it is proven null. Only the
// tested location itself is refined: aliases are untouched.
func refinement(cond ir.Expr) (loc Location, positive bool, ok bool) {
	switch x := cond.(type) {
	case *ir.Paren:
		return refinement(x.Inner)
	case *ir.Unary:
		if x.Op != ir.Not {
			return nil, false, false
		}
		loc, positive, ok = refinement(x.Operand)
		return loc, !positive, ok
	case *ir.Binary:
		var tested ir.Expr
		switch {
		case isNullLit(x.X):
			tested = x.Y
		case isNullLit(x.Y):
			tested = x.X
		default:
			return nil, false, false
		}
		loc, ok = LocationOf(tested)
		// `p != nullptr` proves non-null on the true edge; `p == nullptr`
		// proves null there.
		return loc, x.Op == ir.Ne, ok
	default:
		if !isPointerTyped(cond) {
			return nil, false, false
		}
		loc, ok = LocationOf(cond)
		return loc, true, ok
	}
}

func isNullLit(e ir.Expr) bool {
	for {
		switch x := e.(type) {
		case *ir.NullLit:
			return true
		case *ir.Paren:
			e = x.Inner
		default:
			return false
		}
	}
}

func isPointerTyped(e ir.Expr) bool {
	t, err := typesig.StaticType(e)
	if err != nil {
		return false
	}
	_, ok := typesig.FirstKind(t)
	return ok
}
