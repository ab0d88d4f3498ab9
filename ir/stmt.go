// Part of the Crubit project, under the Apache License v2.0 with LLVM
// Exceptions. See /LICENSE for license information.
// SPDX-License-Identifier: Apache-2.0 WITH LLVM-exception

package ir

// Stmt is a statement node within a basic block.
type Stmt interface {
	Node
	isStmt()
}

// DeclStmt declares a local variable, optionally with an initializer.
type DeclStmt struct {
	P    Pos
	Var  *VarDecl
	Init Expr
}

// Pos implements Node.
func (s *DeclStmt) Pos() Pos { return s.P }
func (s *DeclStmt) isStmt()  {}

// ExprStmt evaluates an expression for its effects and checks.
type ExprStmt struct {
	P Pos
	X Expr
}

// Pos implements Node.
func (s *ExprStmt) Pos() Pos { return s.P }
func (s *ExprStmt) isStmt()  {}

// Return returns from the enclosing function. Result is nil for a bare
// `return` in a void function.
type Return struct {
	P      Pos
	Result Expr
}

// Pos implements Node.
func (s *Return) Pos() Pos { return s.P }
func (s *Return) isStmt()  {}
