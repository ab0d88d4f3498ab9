// Part of the Crubit project, under the Apache License v2.0 with LLVM
// Exceptions. See /LICENSE for license information.
// SPDX-License-Identifier: Apache-2.0 WITH LLVM-exception

package diagnostic

import (
	"cmp"
	"slices"

	"github.com/danakj/crubit/ir"
)

// Engine merges the diagnostics of independent function analyses into one
// stable, position-ordered report for the translation unit.
type Engine struct {
	diags []Diagnostic
}

// NewEngine returns an empty Engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Add appends diagnostics from one function analysis.
func (e *Engine) Add(diags ...Diagnostic) {
	e.diags = append(e.diags, diags...)
}

// Diagnostics returns all collected diagnostics sorted by file name, then
// line, then column, so the report is independent of analysis scheduling.
func (e *Engine) Diagnostics() []Diagnostic {
	slices.SortFunc(e.diags, func(a, b Diagnostic) int {
		if n := cmp.Compare(a.Position.File, b.Position.File); n != 0 {
			return n
		}
		if n := cmp.Compare(a.Position.Line, b.Position.Line); n != 0 {
			return n
		}
		return cmp.Compare(a.Position.Column, b.Position.Column)
	})
	return e.diags
}

// FlaggedPositions returns just the flagged source locations, sorted.
func (e *Engine) FlaggedPositions() []ir.Pos {
	diags := e.Diagnostics()
	positions := make([]ir.Pos, len(diags))
	for i, d := range diags {
		positions[i] = d.Position
	}
	return positions
}
