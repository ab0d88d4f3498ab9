// Part of the Crubit project, under the Apache License v2.0 with LLVM
// Exceptions. See /LICENSE for license information.
// SPDX-License-Identifier: Apache-2.0 WITH LLVM-exception

package flow

import (
	"fmt"

	"github.com/danakj/crubit/diagnostic"
	"github.com/danakj/crubit/ir"
	"github.com/danakj/crubit/lattice"
	"github.com/danakj/crubit/typesig"
)

// transfer evaluates statements and expressions against an environment,
// mutating it and reporting contract violations. During the fixed-point
// iteration rep is nil and only environment effects matter; the diagnostic
// harvest pass re-runs each block once over its stabilized input with a live
// reporter.
type transfer struct {
	fn   *ir.FuncDecl
	sigs *typesig.Cache
	rep  *diagnostic.Reporter
}

func (t *transfer) reportf(pos ir.Pos, format string, args ...any) {
	if t.rep != nil {
		t.rep.Reportf(pos, format, args...)
	}
}

// require checks that v proves non-nullness at a site that demands it. On
// failure it reports at pos and returns DefinitelyNonnull so a single defect
// does not cascade into further diagnostics inside the same expression.
func (t *transfer) require(v lattice.FlowValue, pos ir.Pos, format string, args ...any) lattice.FlowValue {
	if lattice.SatisfiesNonnull(v) {
		return v
	}
	args = append(args, v)
	t.reportf(pos, format+", but the pointer here is %s", args...)
	return lattice.DefinitelyNonnull
}

// block runs the transfer functions of every node in b against env. When b
// is a branch block its trailing condition expression is evaluated here for
// its checks; the narrowing it implies is applied per edge by the driver.
func (t *transfer) block(env *Environment, b *ir.Block) error {
	for _, node := range b.Nodes {
		switch n := node.(type) {
		case ir.Stmt:
			if err := t.stmt(env, n); err != nil {
				return err
			}
		case ir.Expr:
			if _, err := t.eval(env, n); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown CFG node %T at %s", node, node.Pos())
		}
	}
	return nil
}

func (t *transfer) stmt(env *Environment, s ir.Stmt) error {
	switch n := s.(type) {
	case *ir.DeclStmt:
		if n.Init == nil {
			if _, ok := typesig.FirstKind(n.Var.Type); ok {
				env.Set(VarLoc{Var: n.Var}, lattice.Top)
			}
			return nil
		}
		v, err := t.eval(env, n.Init)
		if err != nil {
			return err
		}
		if _, ok := typesig.FirstKind(n.Var.Type); ok {
			env.Set(VarLoc{Var: n.Var}, v)
		}
		return nil

	case *ir.ExprStmt:
		_, err := t.eval(env, n.X)
		return err

	case *ir.Return:
		if n.Result == nil {
			return nil
		}
		v, err := t.eval(env, n.Result)
		if err != nil {
			return err
		}
		if k, ok := typesig.FirstKind(t.fn.Return); ok && k == lattice.Nonnull {
			t.require(v, n.Pos(), "returning from a function declared to return non-null")
		}
		return nil

	default:
		return fmt.Errorf("unknown statement %T at %s", s, s.Pos())
	}
}

// inits checks a constructor's member-initializer list: each initializer
// binding to a non-null-declared member or constructor parameter demands a
// proven non-null argument, the same rule as an ordinary call argument.
func (t *transfer) inits(env *Environment) error {
	for _, init := range t.fn.Inits {
		switch init.Kind {
		case ir.MemberInit:
			if len(init.Args) != 1 {
				return fmt.Errorf("member initializer for %q has %d arguments at %s", init.Field.Name, len(init.Args), init.Pos())
			}
			v, err := t.eval(env, init.Args[0])
			if err != nil {
				return err
			}
			if k, ok := typesig.FirstKind(init.Field.Type); ok && k == lattice.Nonnull {
				t.require(v, init.Pos(), "initializing non-null member %q", init.Field.Name)
			}
		case ir.BaseInit, ir.DelegatingInit:
			if err := t.checkArgs(env, init.Target, nil, init.Args, init.Pos()); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown constructor initializer kind %d at %s", init.Kind, init.Pos())
		}
	}
	return nil
}

// checkArgs evaluates call arguments and enforces non-null binding against
// the callee's declared parameter kinds, substituted through bindings when
// the callee belongs to a template.
func (t *transfer) checkArgs(env *Environment, callee *ir.FuncDecl, bindings []ir.TemplateArg, args []ir.Expr, callPos ir.Pos) error {
	if len(args) != len(callee.Params) {
		return fmt.Errorf("call to %q with %d arguments for %d parameters at %s", callee.Name, len(args), len(callee.Params), callPos)
	}
	for i, arg := range args {
		v, err := t.eval(env, arg)
		if err != nil {
			return err
		}
		paramType, err := typesig.Substitute(callee.Params[i].Type, bindings)
		if err != nil {
			return err
		}
		if k, ok := typesig.FirstKind(paramType); ok && k == lattice.Nonnull {
			t.require(v, arg.Pos(), "passing argument %d of %q, declared non-null", i+1, callee.Name)
		}
	}
	return nil
}

// eval computes the flow value of an expression, applying every check its
// evaluation implies. Non-pointer expressions yield Top, which no rule
// consumes.
func (t *transfer) eval(env *Environment, e ir.Expr) (lattice.FlowValue, error) {
	switch x := e.(type) {
	case *ir.NullLit:
		return lattice.DefinitelyNull, nil

	case *ir.VarRef:
		if v, ok := env.Get(VarLoc{Var: x.Var}); ok {
			return v, nil
		}
		return t.derive(e)

	case *ir.Paren:
		return t.eval(env, x.Inner)

	case *ir.MaterializeTemp:
		return t.eval(env, x.Init)

	case *ir.AddrOf:
		if _, err := t.eval(env, x.Operand); err != nil {
			return lattice.Top, err
		}
		return lattice.DefinitelyNonnull, nil

	case *ir.Deref:
		v, err := t.eval(env, x.Operand)
		if err != nil {
			return lattice.Top, err
		}
		t.require(v, x.Pos(), "dereferencing a pointer")
		return t.derive(e)

	case *ir.Unary:
		v, err := t.eval(env, x.Operand)
		if err != nil {
			return lattice.Top, err
		}
		if x.Op == ir.Not {
			return lattice.Top, nil
		}
		// Pointer increment, decrement and unary plus all read through the
		// pointer's value and demand non-nullness.
		return t.require(v, x.Pos(), "applying pointer arithmetic"), nil

	case *ir.Binary:
		if _, err := t.eval(env, x.X); err != nil {
			return lattice.Top, err
		}
		if _, err := t.eval(env, x.Y); err != nil {
			return lattice.Top, err
		}
		return lattice.Top, nil

	case *ir.Cast:
		// The cast target's declared kinds govern later static signature
		// queries, but the flow value is the operand's: a cast of a local
		// with a known initializer is not re-derived from the target type
		// alone. This over-flags in rare cases and never under-flags.
		return t.eval(env, x.Operand)

	case *ir.Assign:
		if _, err := t.eval(env, x.LHS); err != nil {
			return lattice.Top, err
		}
		v, err := t.eval(env, x.RHS)
		if err != nil {
			return lattice.Top, err
		}
		if loc, ok := LocationOf(x.LHS); ok {
			env.Set(loc, v)
		}
		return v, nil

	case *ir.FieldAccess:
		bv, err := t.eval(env, x.Base)
		if err != nil {
			return lattice.Top, err
		}
		if x.Arrow {
			t.require(bv, x.Pos(), "accessing a member through a pointer")
		}
		if loc, ok := LocationOf(e); ok {
			if v, tracked := env.Get(loc); tracked {
				return v, nil
			}
		}
		return t.derive(e)

	case *ir.Call:
		if x.Recv != nil {
			rv, err := t.eval(env, x.Recv)
			if err != nil {
				return lattice.Top, err
			}
			if x.Arrow {
				t.require(rv, x.Pos(), "calling a member function through a pointer")
			}
		}
		bindings, err := typesig.CallBindings(x)
		if err != nil {
			return lattice.Top, err
		}
		if err := t.checkArgs(env, x.Callee, bindings, x.Args, x.Pos()); err != nil {
			return lattice.Top, err
		}
		return t.derive(e)

	case *ir.AssertNullability:
		if _, err := t.eval(env, x.Operand); err != nil {
			return lattice.Top, err
		}
		staticType, err := typesig.StaticType(x.Operand)
		if err != nil {
			return lattice.Top, err
		}
		actual, err := t.sigs.Signature(staticType)
		if err != nil {
			return lattice.Top, err
		}
		if expected := typesig.Vector(x.Expected); !actual.Equal(expected) {
			t.reportf(x.Pos(), "nullability assertion failed: expected %s, type %q has %s",
				expected, staticType.Key(), actual)
		}
		return lattice.Top, nil

	default:
		return lattice.Top, fmt.Errorf("unknown expression %T at %s", e, e.Pos())
	}
}

// derive produces the flow value a source expression carries from its
// declared static type alone: a non-null-declared source is trusted,
// everything else starts unknown.
func (t *transfer) derive(e ir.Expr) (lattice.FlowValue, error) {
	staticType, err := typesig.StaticType(e)
	if err != nil {
		return lattice.Top, err
	}
	if k, ok := typesig.FirstKind(staticType); ok {
		return lattice.FromDeclared(k), nil
	}
	return lattice.Top, nil
}
