// Part of the Crubit project, under the Apache License v2.0 with LLVM
// Exceptions. See /LICENSE for license information.
// SPDX-License-Identifier: Apache-2.0 WITH LLVM-exception

package ir

import "github.com/danakj/crubit/lattice"

// Expr is an expression node. Every expression carries the source position
// the front end assigned to it; diagnostics point at these positions.
type Expr interface {
	Node
	isExpr()
}

// NullLit is the null pointer literal.
type NullLit struct {
	P Pos
}

// Pos implements Node.
func (e *NullLit) Pos() Pos { return e.P }
func (e *NullLit) isExpr()  {}

// VarRef reads a local variable or parameter.
type VarRef struct {
	P   Pos
	Var *VarDecl
}

// Pos implements Node.
func (e *VarRef) Pos() Pos { return e.P }
func (e *VarRef) isExpr()  {}

// FieldAccess reads a data member, via `.` or, when Arrow is set, `->`.
// Arrow access dereferences the base and is therefore subject to the
// non-null requirement on it.
type FieldAccess struct {
	P     Pos
	Base  Expr
	Field *FieldDecl
	Arrow bool
}

// Pos implements Node.
func (e *FieldAccess) Pos() Pos { return e.P }
func (e *FieldAccess) isExpr()  {}

// Call invokes a function, method or constructor. For calls to function
// templates TypeArgs carries the explicit instantiation arguments; for
// method calls Recv is the receiver expression and Arrow marks `->` calls.
type Call struct {
	P        Pos
	Callee   *FuncDecl
	TypeArgs []TemplateArg
	Recv     Expr
	Arrow    bool
	Args     []Expr
}

// Pos implements Node.
func (e *Call) Pos() Pos { return e.P }
func (e *Call) isExpr()  {}

// Paren is an explicitly parenthesized sub-expression. It is transparent to
// every rule of the analysis.
type Paren struct {
	P     Pos
	Inner Expr
}

// Pos implements Node.
func (e *Paren) Pos() Pos { return e.P }
func (e *Paren) isExpr()  {}

// AddrOf takes the address of its operand. An address is never null.
type AddrOf struct {
	P       Pos
	Operand Expr
}

// Pos implements Node.
func (e *AddrOf) Pos() Pos { return e.P }
func (e *AddrOf) isExpr()  {}

// Deref dereferences a pointer.
type Deref struct {
	P       Pos
	Operand Expr
}

// Pos implements Node.
func (e *Deref) Pos() Pos { return e.P }
func (e *Deref) isExpr()  {}

// UnaryOp enumerates the unary operators the analysis distinguishes.
type UnaryOp uint8

const (
	// Not is logical negation, used in branch conditions.
	Not UnaryOp = iota + 1
	// Plus is unary plus applied to a pointer, a dereference-class use.
	Plus
	// PreInc, PreDec, PostInc and PostDec are pointer arithmetic, likewise
	// dereference-class.
	PreInc
	PreDec
	PostInc
	PostDec
)

// Unary applies a unary operator.
type Unary struct {
	P       Pos
	Op      UnaryOp
	Operand Expr
}

// Pos implements Node.
func (e *Unary) Pos() Pos { return e.P }
func (e *Unary) isExpr()  {}

// BinaryOp enumerates binary operators. Only the null-comparison forms
// influence narrowing.
type BinaryOp uint8

const (
	// Eq is `==`.
	Eq BinaryOp = iota + 1
	// Ne is `!=`.
	Ne
)

// Binary applies a binary operator.
type Binary struct {
	P    Pos
	Op   BinaryOp
	X, Y Expr
}

// Pos implements Node.
func (e *Binary) Pos() Pos { return e.P }
func (e *Binary) isExpr()  {}

// CastStyle distinguishes the written form of a cast; the analysis treats
// them identically.
type CastStyle uint8

const (
	// StaticCast is `static_cast<T>(e)`.
	StaticCast CastStyle = iota + 1
	// CStyleCast is `(T)e`.
	CStyleCast
	// ConstCast is `const_cast<T>(e)`.
	ConstCast
	// ImplicitCast is a front-end-inserted conversion.
	ImplicitCast
)

// Cast converts its operand to Target. The target type's declared kinds
// govern later static signature queries, but the expression's flow value is
// the operand's flow value, never re-derived from the target annotation.
type Cast struct {
	P       Pos
	Style   CastStyle
	Target  Type
	Operand Expr
}

// Pos implements Node.
func (e *Cast) Pos() Pos { return e.P }
func (e *Cast) isExpr()  {}

// MaterializeTemp marks the materialization of a temporary when a value is
// passed by value or bound to a const reference. The temporary inherits the
// flow value of its initializing expression.
type MaterializeTemp struct {
	P    Pos
	Init Expr
}

// Pos implements Node.
func (e *MaterializeTemp) Pos() Pos { return e.P }
func (e *MaterializeTemp) isExpr()  {}

// Assign writes RHS into the storage location named by LHS.
type Assign struct {
	P   Pos
	LHS Expr
	RHS Expr
}

// Pos implements Node.
func (e *Assign) Pos() Pos { return e.P }
func (e *Assign) isExpr()  {}

// AssertNullability is the compile-time test directive
// `__assert_nullability<K...>(e)`. It is consumed only by the checker: the
// literal kind list is compared against the structural signature of the
// operand's static type, and a mismatch is reported as a diagnostic. It
// performs no flow-sensitive reasoning.
type AssertNullability struct {
	P        Pos
	Expected []lattice.NullabilityKind
	Operand  Expr
}

// Pos implements Node.
func (e *AssertNullability) Pos() Pos { return e.P }
func (e *AssertNullability) isExpr()  {}
