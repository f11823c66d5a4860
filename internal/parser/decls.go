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
	"github.com/pdxjjb/y4lang/internal/auditor"
	"github.com/pdxjjb/y4lang/internal/diag"
	"github.com/pdxjjb/y4lang/internal/sem"
	"github.com/pdxjjb/y4lang/internal/symset"
	"github.com/pdxjjb/y4lang/internal/token"
	"github.com/pdxjjb/y4lang/opcode"
)

// parseProgram is the grammar's start symbol: Program = Block.
func (p *Parser) parseProgram() {
	stop := symset.Of(token.EndOfText)
	p.aud.NewBlock()
	p.parseBlockBody(stop, opcode.Program, opcode.EndProgram, false, false)
	p.aud.EndBlock()
	p.expect(token.EndOfText, stop)
}

// parseBlockBody parses "{" DefinitionPart StatementPart "}" into the
// scope frame the caller has already pushed (NewBlock/EndBlock bracket
// this call from outside so that a procedure's parameters and body
// share one frame). begin/end are the opcode pair this particular kind
// of block uses; isProcedure controls whether end carries a
// paramsLength operand.
func (p *Parser) parseBlockBody(stop symset.Set, begin, end opcode.Op, isProcedure bool, hasReturnValue bool) {
	local := stop.Union(followDefinitionPart, followStatementPart, symset.Of(token.End))
	p.expect(token.Begin, local)

	beginSlot := p.emitPlaceholder(begin)
	p.parseDefinitionPart(stop.Union(followDefinitionPart))
	p.asm.ResolveArgument(beginSlot, p.aud.FrameObjectsLength())

	p.parseStatementPart(stop.Union(followStatementPart))

	if isProcedure {
		// EndProcedureBlock's one operand packs two facts the Translator
		// needs at return time: the parameter count (for unwinding the
		// caller's pushed arguments) and whether B+3 holds a live return
		// value. The encoding has no spare bit in a single integer
		// field, so a non-Void procedure's operand is encoded negative
		// (-(paramsLength+1), the +1 so a zero-parameter non-Void
		// procedure doesn't encode as 0 indistinguishably from Void).
		n := int64(p.aud.FrameParamsLength())
		if hasReturnValue {
			n = -(n + 1)
		}
		p.asm.Emit(end, n)
	} else {
		p.asm.Emit(end)
	}
	p.expect(token.End, stop)
}

// parseDefinitionPart = { ConstantDefinition ";" | VariableDefinition ";" | ProcedureDefinition }
func (p *Parser) parseDefinitionPart(stop symset.Set) {
	local := stop.Union(firstDefinition)
	for firstDefinition.Contains(p.cur) {
		switch p.cur {
		case token.Constant:
			p.parseConstantDefinition(local)
			p.expect(token.SemiColon, local)
		case token.Integer, token.Boolean, token.Channel:
			p.parseVariableDefinition(local)
			p.expect(token.SemiColon, local)
		case token.Procedure:
			p.parseProcedureDefinition(local)
		}
	}
}

// ConstantDefinition = "constant" Name "=" [ "-" ] Constant
func (p *Parser) parseConstantDefinition(stop symset.Set) {
	p.expect(token.Constant, stop)
	name, ok := p.expectName(stop)
	p.expect(token.Becomes, stop)

	negate := false
	if p.cur == token.Minus {
		negate = true
		p.advance()
	}
	typ, value := p.parseConstantLiteral(stop)
	if negate {
		if typ != sem.Universal && typ != sem.Integer {
			p.ann.TypeError(typ, diag.CodeConstantNegationRequiresInteger)
		}
		value = -value
	}
	if ok {
		p.aud.Define(name, sem.Constant, typ)
		p.setConstantValue(name, value)
	}
}

// setConstantValue fills in the Value field the generic Define call
// above leaves zeroed — Define doesn't take a value because most kinds
// don't have one.
func (p *Parser) setConstantValue(name string, value int) {
	rec, _, found := p.aud.Find(name)
	if !found {
		return
	}
	meta := rec.Metadata
	meta.Value = value
	p.aud.Update(rec.Handle, meta)
}

// VariableDefinition = TypeSymbol (ArrayDeclaration | VariableList)
func (p *Parser) parseVariableDefinition(stop symset.Set) {
	typ := p.parseTypeSymbol(stop)
	if p.cur == token.LeftBracket {
		p.parseArrayDeclaration(stop, typ)
		return
	}
	p.parseVariableList(stop, typ)
}

// ArrayDeclaration = "[" Constant "]" VariableList
func (p *Parser) parseArrayDeclaration(stop symset.Set, elementType sem.Type) {
	p.expect(token.LeftBracket, stop)
	boundType, bound := p.parseConstantLiteral(stop)
	p.expect(token.RightBracket, stop)

	if boundType != sem.Universal && boundType != sem.Integer {
		p.ann.TypeError(boundType, diag.CodeArrayBoundRequiresInteger)
	} else if bound <= 0 {
		p.ann.KindError(sem.Variable, diag.CodeArrayBoundNotPositive)
	}
	if bound < 1 {
		bound = 1 // keep the arena displacement arithmetic sane after a reported error
	}

	for {
		name, ok := p.expectName(stop.Union(symset.Of(token.Comma)))
		if ok {
			p.aud.DefineArray(name, elementType, bound)
		}
		if p.cur != token.Comma {
			break
		}
		p.advance()
	}
}

// VariableList = Name { "," Name }
func (p *Parser) parseVariableList(stop symset.Set, typ sem.Type) {
	for {
		name, ok := p.expectName(stop.Union(symset.Of(token.Comma)))
		if ok {
			p.aud.Define(name, sem.Variable, typ)
		}
		if p.cur != token.Comma {
			break
		}
		p.advance()
	}
}

// ProcedureDefinition = "@" [ "[" TypeSymbol Name "]" ] Name "(" [ ParameterDefinition ] ")" Block
func (p *Parser) parseProcedureDefinition(stop symset.Set) {
	p.expect(token.Procedure, stop)

	returnType := sem.Void
	returnVarName := ""
	if p.cur == token.LeftBracket {
		p.advance()
		returnType = p.parseTypeSymbol(stop)
		returnVarName, _ = p.expectName(stop)
		p.expect(token.RightBracket, stop)
	}

	procName, procNameOK := p.expectName(stop)
	var procRec auditor.ObjectRecord
	if procNameOK {
		procRec = p.aud.DefineProcedure(procName)
		meta := procRec.Metadata
		meta.ReturnType = returnType
		p.aud.Update(procRec.Handle, meta)
	}

	ctx := &procContext{name: procName, enclosingLevel: p.aud.Level(), rec: procRec.Proc}
	p.procStack = append(p.procStack, ctx)

	p.aud.NewBlock()
	if returnVarName != "" {
		p.aud.DefineReturnVariable(returnVarName, returnType)
	}

	p.expect(token.LeftParanthesis, stop)
	var params []sem.ParameterRecord
	if p.cur != token.RightParanthesis {
		params = p.parseParameterDefinition(stop.Union(symset.Of(token.RightParanthesis)))
	}
	p.expect(token.RightParanthesis, stop)

	if procNameOK {
		meta := p.aud.Get(procRec.Handle).Metadata
		meta.Params = params
		p.aud.Update(procRec.Handle, meta)
	}

	entryLabel := p.asm.CurrentAddress() + 2
	gotoSlot := p.emitPlaceholder(opcode.Goto)
	if procNameOK {
		meta := p.aud.Get(procRec.Handle).Metadata
		meta.Label = entryLabel
		p.aud.Update(procRec.Handle, meta)
	}

	p.parseBlockBody(stop, opcode.ProcedureBlock, opcode.EndProcedureBlock, true, returnVarName != "")
	p.aud.EndBlock()
	p.asm.ResolveAddress(gotoSlot, p.asm.CurrentAddress())

	p.procStack = p.procStack[:len(p.procStack)-1]
}

// ParameterDefinition = Parameter { "," Parameter }
//
// Defined left to right, so the first-declared parameter gets the
// Auditor's first (least negative) displacement, -1, per spec's
// activation-record invariant. The call site pushes arguments in the
// opposite order (last argument first — see semantics.go's
// parseCallTailForRec) so that the first argument, matching the first
// parameter, ends up closest to the callee's base register B.
func (p *Parser) parseParameterDefinition(stop symset.Set) []sem.ParameterRecord {
	var params []sem.ParameterRecord
	for {
		params = append(params, p.parseParameter(stop.Union(symset.Of(token.Comma))))
		if p.cur != token.Comma {
			break
		}
		p.advance()
	}
	return params
}

// Parameter = [ "reference" ] TypeSymbol Name
func (p *Parser) parseParameter(stop symset.Set) sem.ParameterRecord {
	kind := sem.ValueParameter
	if p.cur == token.Reference {
		kind = sem.ReferenceParameter
		p.advance()
	}
	typ := p.parseTypeSymbol(stop)
	name, ok := p.expectName(stop)
	if ok {
		p.aud.Define(name, kind, typ)
	}
	return sem.ParameterRecord{Type: typ, Kind: kind}
}

// TypeSymbol = "integer" | "boolean" | "channel"
func (p *Parser) parseTypeSymbol(stop symset.Set) sem.Type {
	switch p.cur {
	case token.Integer:
		p.advance()
		return sem.Integer
	case token.Boolean:
		p.advance()
		return sem.Boolean
	case token.Channel:
		p.advance()
		return sem.Channel
	}
	p.syntaxCheck(stop)
	return sem.Universal
}

// expectName consumes a Name token and returns its interned text. ok is
// false (and the returned text empty) if the current symbol wasn't a
// Name at all, in which case the caller should not try to Define/Find
// it.
func (p *Parser) expectName(stop symset.Set) (string, bool) {
	if p.cur != token.Name {
		p.syntaxCheck(stop)
		return "", false
	}
	text := p.names.Text(p.scan.Argument())
	p.advance()
	return text, true
}
