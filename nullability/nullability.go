// Part of the Crubit project, under the Apache License v2.0 with LLVM
// Exceptions. See /LICENSE for license information.
// SPDX-License-Identifier: Apache-2.0 WITH LLVM-exception

// Package nullability is the top-level driver of the pointer nullability
// verification: it runs the flow-sensitive analysis over every function body
// of a translation unit and aggregates the flagged program points.
//
// Function bodies are independent, so they are analyzed concurrently; each
// worker owns its environments while the type-signature cache is shared.
// Internal invariant violations abort the offending function's analysis with
// an error carrying the stack; they are never converted into a silent pass.
package nullability

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/danakj/crubit/config"
	"github.com/danakj/crubit/diagnostic"
	"github.com/danakj/crubit/flow"
	"github.com/danakj/crubit/ir"
	"github.com/danakj/crubit/typesig"
)

// Result is the outcome of checking one translation unit.
type Result struct {
	// Diagnostics are the flagged program points, ordered by position.
	Diagnostics []diagnostic.Diagnostic
	// Errors holds per-function analysis failures. A failed function
	// contributes no diagnostics; the other functions are unaffected.
	Errors []error
}

// funcResult carries one function's analysis outcome across the worker
// channel. The index restores declaration order regardless of scheduling.
type funcResult struct {
	diags []diagnostic.Diagnostic
	err   error
	index int
}

// CheckTranslationUnit analyzes every function body in tu and returns the
// union of their diagnostics, sorted by source position.
func CheckTranslationUnit(ctx context.Context, tu *ir.TranslationUnit, conf *config.Config) Result {
	if conf == nil {
		conf = config.New()
	}
	timeout := conf.Timeout
	if timeout == 0 {
		timeout = config.DefaultCheckTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	sigs := typesig.NewCache()
	funcs := tu.AllFuncs()

	results := make([]funcResult, 0, len(funcs))
	if conf.Sequential {
		for i, fn := range funcs {
			results = append(results, checkOne(ctx, fn, sigs, i))
		}
	} else {
		var wg sync.WaitGroup
		funcChan := make(chan funcResult)
		for i, fn := range funcs {
			wg.Add(1)
			go func(fn *ir.FuncDecl, index int) {
				defer wg.Done()
				funcChan <- checkOne(ctx, fn, sigs, index)
			}(fn, i)
		}

		// Close the channel once all workers are done so the receive loop
		// below terminates.
		go func() {
			wg.Wait()
			close(funcChan)
		}()

		for r := range funcChan {
			results = append(results, r)
		}
	}

	// Restore declaration order before aggregating so the error slice is
	// deterministic; the diagnostic engine orders diagnostics by position
	// on its own.
	ordered := make([]funcResult, len(funcs))
	for _, r := range results {
		ordered[r.index] = r
	}

	engine := diagnostic.NewEngine()
	var errs []error
	for _, r := range ordered {
		if r.err != nil {
			errs = append(errs, r.err)
			continue
		}
		engine.Add(r.diags...)
	}
	return Result{Diagnostics: engine.Diagnostics(), Errors: errs}
}

// CheckFunc analyzes a single function body against a caller-provided
// signature cache.
func CheckFunc(ctx context.Context, fn *ir.FuncDecl, sigs *typesig.Cache) ([]diagnostic.Diagnostic, error) {
	return flow.AnalyzeFunc(ctx, fn, sigs)
}

// checkOne wraps one function's analysis with panic containment: a panic in
// the engine is converted to an error with the stack attached rather than
// tearing down the whole run or, worse, dropping diagnostics silently.
func checkOne(ctx context.Context, fn *ir.FuncDecl, sigs *typesig.Cache, index int) (result funcResult) {
	result.index = index
	defer func() {
		if r := recover(); r != nil {
			result.diags = nil
			result.err = fmt.Errorf("INTERNAL PANIC analyzing %q: %s\n%s", fn.Name, r, string(debug.Stack()))
		}
	}()

	diags, err := flow.AnalyzeFunc(ctx, fn, sigs)
	if err != nil {
		err = fmt.Errorf("analyzing function %q at %s: %w", fn.Name, fn.Pos(), err)
	}
	return funcResult{diags: diags, err: err, index: index}
}
