// Part of the Crubit project, under the Apache License v2.0 with LLVM
// Exceptions. See /LICENSE for license information.
// SPDX-License-Identifier: Apache-2.0 WITH LLVM-exception

// Package diagnostic collects the program points the analysis proves unsafe.
// The checker itself has no notion of exit codes, file I/O or message
// rendering; a front end consumes the flagged positions and formats them.
package diagnostic

import (
	"fmt"

	"github.com/danakj/crubit/ir"
)

// Diagnostic is one flagged program point: an operation that requires a
// non-null pointer but whose operand could not be proven non-null, or a
// failed nullability assertion.
type Diagnostic struct {
	Position ir.Pos
	Message  string
}

// String renders the diagnostic for logs and tests.
func (d Diagnostic) String() string {
	return d.Position.String() + ": " + d.Message
}

// Reporter accumulates the diagnostics of a single function analysis. Each
// violated requirement produces exactly one diagnostic at the offending
// expression's position; reporting the same position twice means the
// transfer rules double-checked a node, which is a bug in the engine, so the
// Reporter fails loudly rather than silently deduplicating.
type Reporter struct {
	seen  map[ir.Pos]bool
	diags []Diagnostic
}

// NewReporter returns an empty Reporter.
func NewReporter() *Reporter {
	return &Reporter{seen: make(map[ir.Pos]bool)}
}

// Reportf records a diagnostic at pos.
func (r *Reporter) Reportf(pos ir.Pos, format string, args ...any) {
	if r.seen[pos] {
		panic(fmt.Sprintf("duplicate diagnostic at %s", pos))
	}
	r.seen[pos] = true
	r.diags = append(r.diags, Diagnostic{Position: pos, Message: fmt.Sprintf(format, args...)})
}

// Diagnostics returns the recorded diagnostics in report order.
func (r *Reporter) Diagnostics() []Diagnostic {
	return r.diags
}
