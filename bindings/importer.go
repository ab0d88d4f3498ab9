// Part of the Crubit project, under the Apache License v2.0 with LLVM
// Exceptions. See /LICENSE for license information.
// SPDX-License-Identifier: Apache-2.0 WITH LLVM-exception

package bindings

import (
	"fmt"

	"github.com/danakj/crubit/ir"
	"github.com/danakj/crubit/typesig"
)

// Importer converts declarations into bindings IR, resolving each type's
// declared nullability signature through the shared cache.
type Importer struct {
	sigs *typesig.Cache
}

// NewImporter returns an Importer backed by the given signature cache.
func NewImporter(sigs *typesig.Cache) *Importer {
	return &Importer{sigs: sigs}
}

// ImportTranslationUnit imports every top-level declaration of tu. A
// declaration that cannot be translated is recorded as an UnsupportedItem;
// the remaining declarations are imported normally.
func (imp *Importer) ImportTranslationUnit(tu *ir.TranslationUnit) *IR {
	out := NewIR()
	for _, s := range tu.Structs {
		record, err := imp.importRecord(s)
		if err != nil {
			out.Unsupported = append(out.Unsupported, UnsupportedItem{
				Name:    s.Name,
				Message: err.Error(),
				Pos:     s.Pos(),
			})
			continue
		}
		out.Records.Store(record.Name, record)
	}
	for _, f := range tu.Funcs {
		fn, err := imp.importFunc(f)
		if err != nil {
			out.Unsupported = append(out.Unsupported, UnsupportedItem{
				Name:    f.Name,
				Message: err.Error(),
				Pos:     f.Pos(),
			})
			continue
		}
		out.Funcs.Store(fn.Name, fn)
	}
	return out
}

func (imp *Importer) importFunc(f *ir.FuncDecl) (Func, error) {
	if len(f.TemplateParams) > 0 {
		return Func{}, fmt.Errorf("function template %q is not supported; only instantiations can be imported", f.Name)
	}
	if f.IsConstructor {
		return Func{}, fmt.Errorf("constructor %q is not supported", f.Name)
	}

	out := Func{Name: f.Name, Pos: f.Pos()}
	for _, p := range f.Params {
		param, err := imp.importParam(p)
		if err != nil {
			return Func{}, fmt.Errorf("parameter %q: %w", p.Name, err)
		}
		out.Params = append(out.Params, param)
	}

	retSig, err := imp.signatureOf(f.Return)
	if err != nil {
		return Func{}, fmt.Errorf("return type: %w", err)
	}
	out.ReturnType = f.Return.Key()
	out.ReturnNullability = retSig
	return out, nil
}

func (imp *Importer) importParam(p *ir.VarDecl) (FuncParam, error) {
	if _, ok := ir.StripTransparent(p.Type).(*ir.Function); ok {
		return FuncParam{}, fmt.Errorf("parameter type %q is not supported", p.Type.Key())
	}
	sig, err := imp.signatureOf(p.Type)
	if err != nil {
		return FuncParam{}, err
	}
	return FuncParam{Name: p.Name, Type: p.Type.Key(), Nullability: sig}, nil
}

func (imp *Importer) importRecord(s *ir.StructDecl) (Record, error) {
	if len(s.TemplateParams) > 0 {
		return Record{}, fmt.Errorf("class template %q is not supported; only instantiations can be imported", s.Name)
	}

	out := Record{Name: s.Name, Pos: s.Pos()}
	for _, f := range s.Fields {
		sig, err := imp.signatureOf(f.Type)
		if err != nil {
			return Record{}, fmt.Errorf("field %q: %w", f.Name, err)
		}
		out.Fields = append(out.Fields, Field{Name: f.Name, Type: f.Type.Key(), Nullability: sig})
	}
	return out, nil
}

// signatureOf resolves a declared type's structural signature. A type still
// containing template parameter references is unsupported at this boundary
// rather than an internal error: the declaration was never instantiated.
func (imp *Importer) signatureOf(t ir.Type) (typesig.Vector, error) {
	sig, err := imp.sigs.Signature(t)
	if err != nil {
		return nil, fmt.Errorf("type %q is not supported: %w", t.Key(), err)
	}
	return sig, nil
}
