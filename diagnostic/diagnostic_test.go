// Part of the Crubit project, under the Apache License v2.0 with LLVM
// Exceptions. See /LICENSE for license information.
// SPDX-License-Identifier: Apache-2.0 WITH LLVM-exception

package diagnostic_test

import (
	"testing"

	"github.com/danakj/crubit/diagnostic"
	"github.com/danakj/crubit/ir"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func at(file string, line, col int) ir.Pos {
	return ir.Pos{File: file, Line: line, Column: col}
}

func TestReporterKeepsReportOrder(t *testing.T) {
	t.Parallel()

	r := diagnostic.NewReporter()
	r.Reportf(at("a.cc", 9, 1), "second in %s", "file order")
	r.Reportf(at("a.cc", 3, 1), "first in file order")

	diags := r.Diagnostics()
	require.Len(t, diags, 2)
	require.Equal(t, at("a.cc", 9, 1), diags[0].Position)
	require.Equal(t, "second in file order", diags[0].Message)
	require.Equal(t, at("a.cc", 3, 1), diags[1].Position)
}

func TestReporterPanicsOnDuplicatePosition(t *testing.T) {
	t.Parallel()

	r := diagnostic.NewReporter()
	r.Reportf(at("a.cc", 3, 1), "one")
	require.PanicsWithValue(t, "duplicate diagnostic at a.cc:3:1", func() {
		r.Reportf(at("a.cc", 3, 1), "two")
	})
}

func TestEngineSortsByPosition(t *testing.T) {
	t.Parallel()

	e := diagnostic.NewEngine()
	e.Add(diagnostic.Diagnostic{Position: at("b.cc", 1, 1)})
	e.Add(
		diagnostic.Diagnostic{Position: at("a.cc", 5, 9)},
		diagnostic.Diagnostic{Position: at("a.cc", 5, 2)},
		diagnostic.Diagnostic{Position: at("a.cc", 2, 7)},
	)

	want := []ir.Pos{
		at("a.cc", 2, 7),
		at("a.cc", 5, 2),
		at("a.cc", 5, 9),
		at("b.cc", 1, 1),
	}
	require.Empty(t, cmp.Diff(want, e.FlaggedPositions()))
}

func TestDiagnosticString(t *testing.T) {
	t.Parallel()

	d := diagnostic.Diagnostic{Position: at("a.cc", 3, 14), Message: "dereferencing a pointer"}
	require.Equal(t, "a.cc:3:14: dereferencing a pointer", d.String())
}
