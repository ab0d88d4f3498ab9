// Part of the Crubit project, under the Apache License v2.0 with LLVM
// Exceptions. See /LICENSE for license information.
// SPDX-License-Identifier: Apache-2.0 WITH LLVM-exception

// Package ir is the boundary contract between the external front end and the
// nullability engine. The front end parses source text and hands the engine a
// translation unit of declarations whose function bodies are control-flow
// graphs of typed statements and expressions; nothing in this package depends
// on how that parsing happened.
package ir

import "fmt"

// Pos is a source location supplied by the front end. Diagnostics are tagged
// with these values verbatim; the engine never reads the underlying file.
type Pos struct {
	File   string
	Line   int
	Column int
}

// String renders the location in the conventional file:line:col form.
func (p Pos) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Node is anything carrying a source location.
type Node interface {
	Pos() Pos
}

// A TranslationUnit is one front-end compilation's worth of declarations.
type TranslationUnit struct {
	Structs []*StructDecl
	Funcs   []*FuncDecl
}

// AllFuncs returns every function declaration in the unit, including struct
// methods and constructors, in declaration order.
func (tu *TranslationUnit) AllFuncs() []*FuncDecl {
	var funcs []*FuncDecl
	for _, s := range tu.Structs {
		funcs = append(funcs, s.Methods...)
	}
	return append(funcs, tu.Funcs...)
}

// TemplateParam is one parameter of a class or function template. Non-type
// parameters participate in instantiation but contribute nothing to
// nullability signatures.
type TemplateParam struct {
	Name   string
	IsType bool
}

// StructDecl declares a class or struct, possibly a template pattern.
type StructDecl struct {
	Name           string
	DeclPos        Pos
	TemplateParams []TemplateParam
	Fields         []*FieldDecl
	Methods        []*FuncDecl
}

// Pos implements Node.
func (s *StructDecl) Pos() Pos { return s.DeclPos }

// FieldDecl is a data member. Its type may reference the enclosing template's
// parameters via TemplateParamRef.
type FieldDecl struct {
	Name    string
	DeclPos Pos
	Type    Type
}

// Pos implements Node.
func (f *FieldDecl) Pos() Pos { return f.DeclPos }

// VarDecl is a local variable or parameter. The *VarDecl pointer itself is
// the storage-location identity used by the flow environment.
type VarDecl struct {
	Name    string
	DeclPos Pos
	Type    Type
}

// Pos implements Node.
func (v *VarDecl) Pos() Pos { return v.DeclPos }

// CtorInitKind discriminates the three constructor-initializer forms.
type CtorInitKind uint8

const (
	// MemberInit initializes a data member.
	MemberInit CtorInitKind = iota + 1
	// BaseInit invokes a base-class constructor.
	BaseInit
	// DelegatingInit invokes another constructor of the same class.
	DelegatingInit
)

// CtorInit is one entry of a constructor's member-initializer list. Field is
// set for MemberInit; Target is the invoked constructor for BaseInit and
// DelegatingInit.
type CtorInit struct {
	Kind    CtorInitKind
	InitPos Pos
	Field   *FieldDecl
	Target  *FuncDecl
	Args    []Expr
}

// Pos implements Node.
func (c *CtorInit) Pos() Pos { return c.InitPos }

// FuncDecl declares a function, method or constructor. Body is nil for
// declarations without a visible definition; such functions still participate
// in call-site checking through their declared parameter and return types.
type FuncDecl struct {
	Name           string
	DeclPos        Pos
	TemplateParams []TemplateParam
	Params         []*VarDecl
	Return         Type
	Parent         *StructDecl
	IsConstructor  bool
	Inits          []*CtorInit
	Body           *Graph
}

// Pos implements Node.
func (f *FuncDecl) Pos() Pos { return f.DeclPos }

// A Graph is the control-flow graph of one function body: basic blocks of
// statements and expressions. Block 0 is the entry. If a block has exactly
// two successors, its last node is the branch condition expression and
// Succs[0] is the edge taken when the condition holds.
type Graph struct {
	Blocks []*Block
}

// Entry returns the entry block, or nil for an empty graph.
func (g *Graph) Entry() *Block {
	if len(g.Blocks) == 0 {
		return nil
	}
	return g.Blocks[0]
}

// Block is a basic block. Index is the position within Graph.Blocks.
type Block struct {
	Index int
	Nodes []Node
	Succs []*Block
}

// Cond returns the branch condition governing a two-successor block, or nil.
func (b *Block) Cond() Expr {
	if len(b.Succs) != 2 || len(b.Nodes) == 0 {
		return nil
	}
	if e, ok := b.Nodes[len(b.Nodes)-1].(Expr); ok {
		return e
	}
	return nil
}
