// Part of the Crubit project, under the Apache License v2.0 with LLVM
// Exceptions. See /LICENSE for license information.
// SPDX-License-Identifier: Apache-2.0 WITH LLVM-exception

package typesig

import (
	"fmt"

	"github.com/danakj/crubit/ir"
)

// Substitute replaces every template parameter reference in t with the
// corresponding actual argument, recursively, producing the concrete type an
// instantiation denotes. A reference that cannot be resolved against args is
// a front-end contract violation and yields an error.
func Substitute(t ir.Type, args []ir.TemplateArg) (ir.Type, error) {
	switch u := t.(type) {
	case *ir.TemplateParamRef:
		if u.Index < 0 || u.Index >= len(args) {
			return nil, fmt.Errorf("template parameter %q (index %d) has no matching argument", u.Name, u.Index)
		}
		ta, ok := args[u.Index].(ir.TypeArg)
		if !ok {
			return nil, fmt.Errorf("template parameter %q resolves to a non-type argument", u.Name)
		}
		return ta.T, nil
	case *ir.Pointer:
		pointee, err := Substitute(u.Pointee, args)
		if err != nil {
			return nil, err
		}
		return &ir.Pointer{Kind: u.Kind, Pointee: pointee}, nil
	case *ir.Reference:
		inner, err := Substitute(u.Inner, args)
		if err != nil {
			return nil, err
		}
		return &ir.Reference{Inner: inner}, nil
	case *ir.Qualified:
		inner, err := Substitute(u.Inner, args)
		if err != nil {
			return nil, err
		}
		return &ir.Qualified{Const: u.Const, Volatile: u.Volatile, Inner: inner}, nil
	case *ir.Struct:
		if len(u.Args) == 0 {
			return u, nil
		}
		newArgs := make([]ir.TemplateArg, len(u.Args))
		for i, arg := range u.Args {
			ta, ok := arg.(ir.TypeArg)
			if !ok {
				newArgs[i] = arg
				continue
			}
			sub, err := Substitute(ta.T, args)
			if err != nil {
				return nil, err
			}
			newArgs[i] = ir.TypeArg{T: sub}
		}
		return &ir.Struct{Decl: u.Decl, Args: newArgs}, nil
	case *ir.Function:
		params := make([]ir.Type, len(u.Params))
		for i, p := range u.Params {
			sub, err := Substitute(p, args)
			if err != nil {
				return nil, err
			}
			params[i] = sub
		}
		result, err := Substitute(u.Result, args)
		if err != nil {
			return nil, err
		}
		return &ir.Function{Params: params, Result: result}, nil
	case *ir.Builtin:
		return u, nil
	default:
		return nil, fmt.Errorf("unknown type %T", t)
	}
}
