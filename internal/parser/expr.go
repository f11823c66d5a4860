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
	"github.com/pdxjjb/y4lang/internal/diag"
	"github.com/pdxjjb/y4lang/internal/sem"
	"github.com/pdxjjb/y4lang/internal/symset"
	"github.com/pdxjjb/y4lang/internal/token"
	"github.com/pdxjjb/y4lang/opcode"
)

// Expression = PrimExpr { ("&"|"|") PrimExpr }
func (p *Parser) parseExpression(stop symset.Set) sem.Type {
	local := stop.Union(symset.Of(token.And, token.Or))
	typ := p.parsePrimExpr(local)
	for p.cur == token.And || p.cur == token.Or {
		op := p.cur
		symbol := op.String()
		p.advance()
		rhs := p.parsePrimExpr(local)

		if typ != sem.Universal && typ != sem.Boolean {
			code := diag.CodeAndOperandNotBoolean
			if op == token.Or {
				code = diag.CodeOrOperandNotBoolean
			}
			p.ann.TypeErrorOp(typ, code, symbol)
		}
		if rhs != sem.Universal && rhs != sem.Boolean {
			code := diag.CodeAndOperandNotBoolean
			if op == token.Or {
				code = diag.CodeOrOperandNotBoolean
			}
			p.ann.TypeErrorOp(rhs, code, symbol)
		}
		if op == token.And {
			p.asm.Emit(opcode.And)
		} else {
			p.asm.Emit(opcode.Or)
		}
		typ = sem.Boolean
	}
	return typ
}

// PrimExpr = SimpleExpr [ ("<"|"<="|"=="|"!="|">"|">=") SimpleExpr ]
func (p *Parser) parsePrimExpr(stop symset.Set) sem.Type {
	relOps := symset.Of(token.Less, token.LessOrEqual, token.Equal, token.NotEqual, token.Greater, token.GreaterOrEqual)
	lhs := p.parseSimpleExpr(stop.Union(relOps))
	if !relOps.Contains(p.cur) {
		return lhs
	}
	op := p.cur
	symbol := op.String()
	p.advance()
	rhs := p.parseSimpleExpr(stop)

	switch op {
	case token.Equal, token.NotEqual:
		// A mismatched pair that also has a Void side (e.g. a Void
		// procedure call compared against a Boolean) fails both checks
		// at once; both are reported, mismatch first, matching spec's
		// ordering for that case.
		if lhs != sem.Universal && rhs != sem.Universal {
			if lhs != rhs {
				p.ann.TypeErrorOpUnlatched(lhs, diag.CodeEqualityTypeMismatch, symbol)
			}
			if lhs == sem.Void || rhs == sem.Void {
				p.ann.TypeErrorOpUnlatched(lhs, diag.CodeEqualityOperandIsVoid, symbol)
			}
		}
		if op == token.Equal {
			p.asm.Emit(opcode.Equal)
		} else {
			p.asm.Emit(opcode.NotEqual)
		}
	default:
		if lhs != sem.Universal && lhs != sem.Integer {
			p.ann.TypeErrorOp(lhs, diag.CodeRelationalLeftNotInteger, symbol)
		}
		if rhs != sem.Universal && rhs != sem.Integer {
			p.ann.TypeErrorOp(rhs, diag.CodeRelationalRightNotInteger, symbol)
		}
		p.asm.Emit(relationalOp(op))
	}
	return sem.Boolean
}

func relationalOp(k token.Kind) opcode.Op {
	switch k {
	case token.Less:
		return opcode.Less
	case token.LessOrEqual:
		return opcode.LessOrEqual
	case token.Greater:
		return opcode.Greater
	case token.GreaterOrEqual:
		return opcode.GreaterOrEqual
	}
	return opcode.Less
}

// SimpleExpr = [ "-" ] Term { ("+"|"-") Term }
func (p *Parser) parseSimpleExpr(stop symset.Set) sem.Type {
	local := stop.Union(symset.Of(token.Plus, token.Minus))

	negate := false
	if p.cur == token.Minus {
		negate = true
		p.advance()
	}
	typ := p.parseTerm(local)
	if negate {
		if typ != sem.Universal && typ != sem.Integer {
			p.ann.TypeError(typ, diag.CodeUnaryMinusRequiresInteger)
			typ = sem.Integer
		}
		p.asm.Emit(opcode.Minus)
	}

	for p.cur == token.Plus || p.cur == token.Minus {
		op := p.cur
		symbol := op.String()
		p.advance()
		rhs := p.parseTerm(local)

		if typ != sem.Universal && typ != sem.Integer {
			p.ann.TypeErrorOp(typ, diag.CodeAdditiveLeftNotInteger, symbol)
			typ = sem.Integer
		}
		if rhs != sem.Universal && rhs != sem.Integer {
			p.ann.TypeErrorOp(rhs, diag.CodeAdditiveRightNotInteger, symbol)
		}
		if op == token.Plus {
			p.asm.Emit(opcode.Add)
		} else {
			p.asm.Emit(opcode.Subtract)
		}
		typ = sem.Integer
	}
	return typ
}

// Term = Factor { ("*"|"/"|"%"|"^") Factor }
func (p *Parser) parseTerm(stop symset.Set) sem.Type {
	mulOps := symset.Of(token.Multiply, token.Divide, token.Modulo, token.Power)
	local := stop.Union(mulOps)
	typ := p.parseFactor(local)

	for mulOps.Contains(p.cur) {
		op := p.cur
		symbol := op.String()
		p.advance()
		rhs := p.parseFactor(local)

		if typ != sem.Universal && typ != sem.Integer {
			p.ann.TypeErrorOp(typ, diag.CodeMultiplicativeLeftNotInteger, symbol)
			typ = sem.Integer
		}
		if rhs != sem.Universal && rhs != sem.Integer {
			p.ann.TypeErrorOp(rhs, diag.CodeMultiplicativeRightNotInteger, symbol)
		}
		p.asm.Emit(mulOp(op))
		typ = sem.Integer
	}
	return typ
}

func mulOp(k token.Kind) opcode.Op {
	switch k {
	case token.Multiply:
		return opcode.Multiply
	case token.Divide:
		return opcode.Divide
	case token.Modulo:
		return opcode.Modulo
	case token.Power:
		return opcode.Power
	}
	return opcode.Multiply
}

// Factor = Constant | ObjectAccess | ProcedureCall | "(" Expression ")" | "!" Factor
//
// Constant, ObjectAccess and ProcedureCall all start with the same
// tokens (Numeral/true/false resolve Constant unambiguously, but a bare
// Name needs a lookahead on "(" plus a semantic check of the resolved
// object's Kind to tell a named constant, a variable/array access, and
// a procedure call apart).
func (p *Parser) parseFactor(stop symset.Set) sem.Type {
	switch p.cur {
	case token.Numeral, token.True, token.False:
		typ, value := p.parseConstantLiteral(stop)
		p.asm.Emit(opcode.Constant, int64(value))
		return typ

	case token.Not:
		p.advance()
		typ := p.parseFactor(stop)
		if typ != sem.Universal && typ != sem.Boolean {
			p.ann.TypeError(typ, diag.CodeNotRequiresBoolean)
		}
		p.asm.Emit(opcode.Not)
		return sem.Boolean

	case token.LeftParanthesis:
		p.advance()
		typ := p.parseExpression(stop.Union(symset.Of(token.RightParanthesis)))
		p.expect(token.RightParanthesis, stop)
		return typ

	case token.Name:
		return p.parseNameFactor(stop)
	}

	p.syntaxCheck(stop)
	return sem.Universal
}

// parseNameFactor resolves the Name-starting ambiguity between
// Constant, ObjectAccess and ProcedureCall described above.
func (p *Parser) parseNameFactor(stop symset.Set) sem.Type {
	name := p.names.Text(p.scan.Argument())
	p.advance()

	if p.cur == token.LeftParanthesis {
		_, returnType := p.parseCallTail(stop, name)
		return returnType
	}

	rec, levelDelta, found := p.aud.Find(name)
	if !found {
		return sem.Universal
	}
	switch rec.Kind {
	case sem.Constant:
		p.asm.Emit(opcode.Constant, int64(rec.Value))
		return rec.Type
	case sem.Procedure:
		p.ann.KindError(rec.Kind, diag.CodeBareProcedureAccess)
		return sem.Universal
	default:
		elementType := p.emitObjectAddress(stop, rec, levelDelta)
		p.asm.Emit(opcode.Value)
		return elementType
	}
}

// parseConstantLiteral = Numeral | "true" | "false" | Name
// This is the compile-time-only form (no code emitted): used for a
// ConstantDefinition's right-hand side and an array bound, where only
// the folded value matters.
func (p *Parser) parseConstantLiteral(stop symset.Set) (sem.Type, int) {
	switch p.cur {
	case token.Numeral:
		v := p.scan.Argument()
		p.advance()
		return sem.Integer, v
	case token.True:
		p.advance()
		return sem.Boolean, 1
	case token.False:
		p.advance()
		return sem.Boolean, 0
	case token.Name:
		name := p.names.Text(p.scan.Argument())
		p.advance()
		rec, _, found := p.aud.Find(name)
		if !found {
			return sem.Universal, 0
		}
		if rec.Kind != sem.Constant {
			p.ann.KindError(rec.Kind, diag.CodeNotProcedure)
			return sem.Universal, 0
		}
		return rec.Type, rec.Value
	}
	p.syntaxCheck(stop)
	return sem.Universal, 0
}
