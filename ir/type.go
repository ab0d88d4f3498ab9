// Part of the Crubit project, under the Apache License v2.0 with LLVM
// Exceptions. See /LICENSE for license information.
// SPDX-License-Identifier: Apache-2.0 WITH LLVM-exception

package ir

import (
	"fmt"
	"strings"

	"github.com/danakj/crubit/lattice"
)

// Type is the static type of an expression or declaration as supplied by the
// front end. Key returns a canonical identity string: two types describe the
// same type iff their keys are equal, which is what the signature cache is
// memoized on.
type Type interface {
	Key() string
	isType()
}

// Pointer is a pointer type with its declared nullability annotation.
type Pointer struct {
	Kind    lattice.NullabilityKind
	Pointee Type
}

// Key implements Type.
func (t *Pointer) Key() string {
	return fmt.Sprintf("ptr[%s](%s)", t.Kind, t.Pointee.Key())
}

func (t *Pointer) isType() {}

// Reference is an lvalue or rvalue reference. References are transparent to
// nullability signatures.
type Reference struct {
	Inner Type
}

// Key implements Type.
func (t *Reference) Key() string { return "ref(" + t.Inner.Key() + ")" }

func (t *Reference) isType() {}

// Qualified wraps a type in cv-qualifiers, which are likewise transparent.
type Qualified struct {
	Const    bool
	Volatile bool
	Inner    Type
}

// Key implements Type.
func (t *Qualified) Key() string {
	var b strings.Builder
	if t.Const {
		b.WriteString("const ")
	}
	if t.Volatile {
		b.WriteString("volatile ")
	}
	b.WriteString(t.Inner.Key())
	return b.String()
}

func (t *Qualified) isType() {}

// Builtin is a non-pointer scalar type (int, bool, void, ...).
type Builtin struct {
	Name string
}

// Key implements Type.
func (t *Builtin) Key() string { return t.Name }

func (t *Builtin) isType() {}

// Struct is a use of a class/struct type. For an instantiation of a template
// the Args hold the template arguments in declaration order; for a concrete
// (non-template) type Args is empty.
type Struct struct {
	Decl *StructDecl
	Args []TemplateArg
}

// Key implements Type.
func (t *Struct) Key() string {
	if len(t.Args) == 0 {
		return "struct[" + t.Decl.Name + "]"
	}
	keys := make([]string, len(t.Args))
	for i, a := range t.Args {
		keys[i] = a.argKey()
	}
	return fmt.Sprintf("struct[%s]<%s>", t.Decl.Name, strings.Join(keys, ","))
}

func (t *Struct) isType() {}

// TemplateParamRef refers to the Index-th parameter of the enclosing class or
// function template. It only appears inside template patterns and must be
// substituted away before a signature can be computed.
type TemplateParamRef struct {
	Index int
	Name  string
}

// Key implements Type.
func (t *TemplateParamRef) Key() string {
	return fmt.Sprintf("tparam[%d:%s]", t.Index, t.Name)
}

func (t *TemplateParamRef) isType() {}

// Function is a function type (as in pointer-to-function declarators).
// Function types are opaque to nullability signatures.
type Function struct {
	Params []Type
	Result Type
}

// Key implements Type.
func (t *Function) Key() string {
	keys := make([]string, len(t.Params))
	for i, p := range t.Params {
		keys[i] = p.Key()
	}
	return fmt.Sprintf("fn(%s)->%s", strings.Join(keys, ","), t.Result.Key())
}

func (t *Function) isType() {}

// TemplateArg is one template argument: a type or a non-type value.
type TemplateArg interface {
	argKey() string
	isTemplateArg()
}

// TypeArg is a type template argument.
type TypeArg struct {
	T Type
}

func (a TypeArg) argKey() string { return a.T.Key() }

func (a TypeArg) isTemplateArg() {}

// ValueArg is a non-type template argument; it contributes nothing to
// nullability signatures but is part of the type identity.
type ValueArg struct {
	Repr string
}

func (a ValueArg) argKey() string { return "#" + a.Repr }

func (a ValueArg) isTemplateArg() {}

// StripTransparent removes reference and cv-qualifier wrappers, which are
// invisible to the nullability rules.
func StripTransparent(t Type) Type {
	for {
		switch u := t.(type) {
		case *Reference:
			t = u.Inner
		case *Qualified:
			t = u.Inner
		default:
			return t
		}
	}
}
