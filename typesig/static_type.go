// Part of the Crubit project, under the Apache License v2.0 with LLVM
// Exceptions. See /LICENSE for license information.
// SPDX-License-Identifier: Apache-2.0 WITH LLVM-exception

package typesig

import (
	"fmt"

	"github.com/danakj/crubit/ir"
	"github.com/danakj/crubit/lattice"
)

// StaticType computes the declared static type of an expression. The result
// is fully substituted: member accesses and calls through template
// instantiations resolve their template parameter references against the
// receiver's actual arguments, so the signature of the result is stable no
// matter which expression the type is observed on.
func StaticType(e ir.Expr) (ir.Type, error) {
	switch x := e.(type) {
	case *ir.NullLit:
		return &ir.Builtin{Name: "nullptr_t"}, nil
	case *ir.VarRef:
		return x.Var.Type, nil
	case *ir.Paren:
		return StaticType(x.Inner)
	case *ir.MaterializeTemp:
		return StaticType(x.Init)
	case *ir.AddrOf:
		inner, err := StaticType(x.Operand)
		if err != nil {
			return nil, err
		}
		return &ir.Pointer{Kind: lattice.Nonnull, Pointee: inner}, nil
	case *ir.Deref:
		inner, err := StaticType(x.Operand)
		if err != nil {
			return nil, err
		}
		p, ok := ir.StripTransparent(inner).(*ir.Pointer)
		if !ok {
			return nil, fmt.Errorf("dereference of non-pointer type %q at %s", inner.Key(), x.Pos())
		}
		return p.Pointee, nil
	case *ir.Unary:
		if x.Op == ir.Not {
			return &ir.Builtin{Name: "bool"}, nil
		}
		return StaticType(x.Operand)
	case *ir.Binary:
		return &ir.Builtin{Name: "bool"}, nil
	case *ir.Cast:
		return x.Target, nil
	case *ir.Assign:
		return StaticType(x.LHS)
	case *ir.FieldAccess:
		recv, err := receiverStruct(x.Base, x.Arrow)
		if err != nil {
			return nil, err
		}
		return Substitute(x.Field.Type, recv.Args)
	case *ir.Call:
		bindings, err := CallBindings(x)
		if err != nil {
			return nil, err
		}
		return Substitute(x.Callee.Return, bindings)
	case *ir.AssertNullability:
		return &ir.Builtin{Name: "void"}, nil
	default:
		return nil, fmt.Errorf("unknown expression %T at %s", e, e.Pos())
	}
}

// CallBindings returns the template arguments that bind the callee's declared
// types at this call site: the receiver type's arguments for a method of a
// class template, otherwise the call's explicit instantiation arguments.
func CallBindings(call *ir.Call) ([]ir.TemplateArg, error) {
	if call.Recv != nil {
		recv, err := receiverStruct(call.Recv, call.Arrow)
		if err != nil {
			return nil, err
		}
		return recv.Args, nil
	}
	return call.TypeArgs, nil
}

// receiverStruct resolves the base expression of a member access or method
// call to the struct instance it is performed on.
func receiverStruct(base ir.Expr, arrow bool) (*ir.Struct, error) {
	t, err := StaticType(base)
	if err != nil {
		return nil, err
	}
	t = ir.StripTransparent(t)
	if arrow {
		p, ok := t.(*ir.Pointer)
		if !ok {
			return nil, fmt.Errorf("arrow access through non-pointer type %q at %s", t.Key(), base.Pos())
		}
		t = ir.StripTransparent(p.Pointee)
	}
	s, ok := t.(*ir.Struct)
	if !ok {
		return nil, fmt.Errorf("member access on non-struct type %q at %s", t.Key(), base.Pos())
	}
	return s, nil
}
