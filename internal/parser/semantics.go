/*
Author: Jeff Berkowitz
Copyright (C) 2023 Jeff Berkowitz

This file is part of y4lang.

y4lang is free software; you can redistribute it and/or
modify it under the terms of the GNU General Public License
as published by the Free Software Foundation, either version 3
of the License, or (at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see http://www.gnu.org/licenses/.
*/

package parser

import (
	"github.com/pdxjjb/y4lang/internal/asmfmt"
	"github.com/pdxjjb/y4lang/internal/auditor"
	"github.com/pdxjjb/y4lang/internal/diag"
	"github.com/pdxjjb/y4lang/internal/sem"
	"github.com/pdxjjb/y4lang/internal/symset"
	"github.com/pdxjjb/y4lang/internal/token"
	"github.com/pdxjjb/y4lang/opcode"
)

// resolveObjectAccess = Name [ "[" Expression "]" ], the address-
// producing (no Value dereference) form shared by every lvalue-style
// use: assignment targets, read/randomize/open/receive targets, and
// reference arguments. Rvalue use (Factor) adds its own Value opcode
// on top of emitObjectAddress directly, since the Name token there is
// already consumed by the Constant/ObjectAccess/ProcedureCall
// disambiguation.
func (p *Parser) resolveObjectAccess(stop symset.Set) (auditor.ObjectRecord, sem.Type) {
	name, ok := p.expectName(stop)
	if !ok {
		undef := auditor.ObjectRecord{Metadata: sem.Metadata{Kind: sem.Undefined, Type: sem.Universal}}
		return undef, sem.Universal
	}
	rec, levelDelta, _ := p.aud.Find(name)
	elementType := p.emitObjectAddress(stop, rec, levelDelta)
	return rec, elementType
}

// emitObjectAddress emits the Variable/ReferenceParameter opcode for an
// already-resolved object, followed by an optional Index, and reports
// the kind errors particular to a bare object access (procedure used as
// a value, array missing its index, index applied to a non-array).
func (p *Parser) emitObjectAddress(stop symset.Set, rec auditor.ObjectRecord, levelDelta int) sem.Type {
	if rec.Kind == sem.Procedure {
		p.ann.KindError(rec.Kind, diag.CodeBareProcedureAccess)
	}
	if rec.Kind != sem.Undefined {
		p.markOuterAccess(rec.Level)
	}

	opKind := opcode.Variable
	if rec.Kind == sem.ReferenceParameter {
		opKind = opcode.ReferenceParameter
	}
	p.asm.Emit(opKind, int64(levelDelta), int64(rec.Displacement))

	elementType := rec.Type
	if p.cur == token.LeftBracket {
		p.advance()
		idxType := p.parseExpression(stop.Union(symset.Of(token.RightBracket)))
		p.expect(token.RightBracket, stop)
		if rec.Kind != sem.Array {
			if rec.Kind != sem.Undefined {
				p.ann.KindError(rec.Kind, diag.CodeIndexOnNonArray)
			}
		} else {
			if idxType != sem.Universal && idxType != sem.Integer {
				p.ann.TypeError(idxType, diag.CodeArrayIndexRequiresInteger)
			}
			p.asm.Emit(opcode.Index, int64(rec.UpperBound))
		}
	} else if rec.Kind == sem.Array {
		p.ann.KindError(rec.Kind, diag.CodeArrayRequiresIndex)
	}
	return elementType
}

// parseCallTail = "(" [ Arg { "," Arg } ] ")", the shared tail of
// ProcedureCall once Name has already been consumed by the caller (a
// Statement, a Factor, or a ParallelStmt). Returns the callee's record
// (Kind Undefined if name didn't resolve) and its return type
// (Universal if the call itself is ill-formed, so a surrounding
// expression doesn't cascade further errors).
func (p *Parser) parseCallTail(stop symset.Set, name string) (auditor.ObjectRecord, sem.Type) {
	rec, levelDelta, found := p.aud.Find(name)
	return p.parseCallTailForRec(stop, rec, levelDelta, found)
}

// parseCallTailForRec is parseCallTail's core, taking an already-
// resolved callee (as ParallelStmt's target-friendliness check needs to
// do its own Find before the call parentheses even begin) so the name
// is never looked up twice.
//
// Arguments are parsed left to right (so token consumption and the
// per-argument kind/type checks against callee.Params follow source
// order), but each argument's code is assembled into its own scratch
// buffer first and the buffers are spliced into the real stream in
// reverse. A ParameterDefinition Defines its parameters left to right,
// so the first-declared parameter sits at the Auditor's least negative
// displacement (-1, closest to the callee's base register B); pushing
// the corresponding argument last, immediately before
// ProcedureInvocation, is what lands it there at run time.
func (p *Parser) parseCallTailForRec(stop symset.Set, rec auditor.ObjectRecord, levelDelta int, found bool) (auditor.ObjectRecord, sem.Type) {
	local := stop.Union(symset.Of(token.Comma, token.RightParanthesis))
	p.expect(token.LeftParanthesis, local)

	real := p.asm
	var argCode [][]int64
	i := 0
	if p.cur != token.RightParanthesis {
		for {
			p.asm = asmfmt.New()
			p.parseArg(local, rec, i, found)
			argCode = append(argCode, p.asm.Code())
			i++
			if p.cur != token.Comma {
				break
			}
			p.advance()
		}
	}
	p.asm = real
	for j := len(argCode) - 1; j >= 0; j-- {
		p.asm.AppendRaw(argCode[j])
	}
	p.expect(token.RightParanthesis, stop)

	if !found {
		return rec, sem.Universal
	}
	if rec.Kind != sem.Procedure {
		p.ann.KindError(rec.Kind, diag.CodeNotProcedure)
		return rec, sem.Universal
	}
	if len(rec.Params) != i {
		p.ann.KindError(rec.Kind, diag.CodeArgCountMismatch)
	}
	p.asm.Emit(opcode.ProcedureInvocation, int64(levelDelta), int64(rec.Label))
	p.markCall(rec)
	return rec, rec.ReturnType
}

// parseArg = Expression | "reference" ObjectAccess
func (p *Parser) parseArg(stop symset.Set, callee auditor.ObjectRecord, index int, calleeFound bool) {
	var expected *sem.ParameterRecord
	if calleeFound && callee.Kind == sem.Procedure && index < len(callee.Params) {
		expected = &callee.Params[index]
	}

	if p.cur == token.Reference {
		p.advance()
		objRec, elemType := p.resolveObjectAccess(stop)
		if expected == nil {
			return
		}
		if expected.Kind != sem.ReferenceParameter {
			p.ann.KindError(objRec.Kind, diag.CodeArgKindMismatch)
		}
		if objRec.Kind == sem.Constant {
			p.ann.KindError(objRec.Kind, diag.CodeConstantAsReference)
		}
		if expected.Type != sem.Universal && elemType != sem.Universal && elemType != expected.Type {
			p.ann.TypeError(elemType, diag.CodeProcedureArgumentType)
		}
		return
	}

	typ := p.parseExpression(stop)
	if expected == nil {
		return
	}
	if expected.Kind != sem.ValueParameter {
		p.ann.KindError(sem.ValueParameter, diag.CodeArgKindMismatch)
	}
	if expected.Type != sem.Universal && typ != sem.Universal && typ != expected.Type {
		p.ann.TypeError(typ, diag.CodeProcedureArgumentType)
	}
}

// markOuterAccess updates the innermost active procedure's
// HighestScopeUsed when an object defined at or above its own
// enclosing level is touched (spec §4.5's scope/displacement
// book-keeping).
func (p *Parser) markOuterAccess(definingLevel int) {
	if len(p.procStack) == 0 {
		return
	}
	ctx := p.procStack[len(p.procStack)-1]
	if definingLevel > ctx.enclosingLevel {
		return
	}
	if ctx.rec.HighestScopeUsed == sem.NoOuterScope || definingLevel < ctx.rec.HighestScopeUsed {
		ctx.rec.HighestScopeUsed = definingLevel
	}
}

// markIO sets the innermost active procedure's UsesIO flag. A no-op at
// the program's top level, outside any procedure.
func (p *Parser) markIO() {
	if len(p.procStack) == 0 {
		return
	}
	p.procStack[len(p.procStack)-1].rec.UsesIO = true
}

// markCall ORs the innermost active procedure's CallsParallelUnfriendly
// flag with the callee's own unfriendliness.
func (p *Parser) markCall(callee auditor.ObjectRecord) {
	if len(p.procStack) == 0 || callee.Kind != sem.Procedure || callee.Proc == nil {
		return
	}
	ctx := p.procStack[len(p.procStack)-1]
	unfriendly := callee.Proc.UsesIO || callee.Proc.HighestScopeUsed != sem.NoOuterScope || callee.Proc.CallsParallelUnfriendly
	ctx.rec.CallsParallelUnfriendly = ctx.rec.CallsParallelUnfriendly || unfriendly
}
