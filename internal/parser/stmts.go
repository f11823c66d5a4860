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

// StatementPart = { IfStatement | WhileStatement | Statement ";" }
func (p *Parser) parseStatementPart(stop symset.Set) {
	local := stop.Union(firstStatement)
	for firstStatement.Contains(p.cur) {
		switch p.cur {
		case token.If:
			p.parseIfStatement(local)
		case token.While:
			p.parseWhileStatement(local)
		default:
			p.parseStatement(local.Union(symset.Of(token.SemiColon)))
			p.expect(token.SemiColon, local)
		}
	}
}

// IfStatement = "if" "(" Expression ")" Block [ "else" Block ]
func (p *Parser) parseIfStatement(stop symset.Set) {
	p.expect(token.If, stop)
	p.expect(token.LeftParanthesis, stop.Union(symset.Of(token.RightParanthesis)))
	typ := p.parseExpression(stop.Union(symset.Of(token.RightParanthesis)))
	p.expect(token.RightParanthesis, stop)
	if typ != sem.Universal && typ != sem.Boolean {
		p.ann.TypeError(typ, diag.CodeConditionRequiresBoolean)
	}

	doSlot := p.emitPlaceholder(opcode.Do)

	p.aud.NewBlock()
	p.parseBlockBody(stop.Union(followBlock), opcode.Block, opcode.EndBlock, false, false)
	p.aud.EndBlock()

	if p.cur == token.Else {
		p.advance()
		gotoSlot := p.emitPlaceholder(opcode.Goto)
		p.asm.ResolveAddress(doSlot, p.asm.CurrentAddress())

		p.aud.NewBlock()
		p.parseBlockBody(stop, opcode.Block, opcode.EndBlock, false, false)
		p.aud.EndBlock()

		p.asm.ResolveAddress(gotoSlot, p.asm.CurrentAddress())
		return
	}
	p.asm.ResolveAddress(doSlot, p.asm.CurrentAddress())
}

// WhileStatement = "while" "(" Expression ")" Block
func (p *Parser) parseWhileStatement(stop symset.Set) {
	p.expect(token.While, stop)
	topAddress := p.asm.CurrentAddress()

	p.expect(token.LeftParanthesis, stop.Union(symset.Of(token.RightParanthesis)))
	typ := p.parseExpression(stop.Union(symset.Of(token.RightParanthesis)))
	p.expect(token.RightParanthesis, stop)
	if typ != sem.Universal && typ != sem.Boolean {
		p.ann.TypeError(typ, diag.CodeConditionRequiresBoolean)
	}

	doSlot := p.emitPlaceholder(opcode.Do)

	p.aud.NewBlock()
	p.parseBlockBody(stop.Union(followBlock), opcode.Block, opcode.EndBlock, false, false)
	p.aud.EndBlock()

	p.asm.Emit(opcode.Goto, int64(topAddress))
	p.asm.ResolveAddress(doSlot, p.asm.CurrentAddress())
}

// Statement = ReadStmt | WriteStmt | AssignmentStmt | ProcedureCall
//           | RandomizeStmt | OpenStmt | SendStmt | ReceiveStmt | ParallelStmt
func (p *Parser) parseStatement(stop symset.Set) {
	switch p.cur {
	case token.Read:
		p.parseTargetListStmt(stop, token.Read)
	case token.Randomize:
		p.parseTargetListStmt(stop, token.Randomize)
	case token.Open:
		p.parseTargetListStmt(stop, token.Open)
	case token.Write:
		p.parseWriteStmt(stop)
	case token.Send:
		p.parseSendStmt(stop)
	case token.Receive:
		p.parseReceiveStmt(stop)
	case token.Parallel:
		p.parseParallelStmt(stop)
	case token.Name:
		p.parseNameStatement(stop)
	default:
		p.syntaxCheck(stop)
	}
}

// parseTargetListStmt handles the three ObjectAccess-list statements
// that share one shape: ReadStmt, RandomizeStmt, OpenStmt. kw is the
// leading keyword, which also selects the value-type check each one
// applies to its targets. Read and Randomize reach outside the process
// (stdin, the entropy source) and mark the enclosing procedure as
// using I/O; Open only allocates a registry slot for a channel the
// procedure already owns, so it does not — a parallel-friendly
// procedure is required to have a channel parameter, and every such
// procedure needs to Open it.
func (p *Parser) parseTargetListStmt(stop symset.Set, kw token.Kind) {
	p.expect(kw, stop)
	if kw != token.Open {
		p.markIO()
	}
	for {
		rec, typ := p.resolveObjectAccess(stop.Union(symset.Of(token.Comma)))
		p.checkIOTarget(kw, rec, typ)
		if kw == token.Read {
			p.asm.Emit(readOp(typ))
		} else if kw == token.Randomize {
			p.asm.Emit(opcode.Randomize)
		} else {
			p.asm.Emit(opcode.Open)
		}
		if p.cur != token.Comma {
			break
		}
		p.advance()
	}
}

func (p *Parser) checkIOTarget(kw token.Kind, rec auditor.ObjectRecord, typ sem.Type) {
	if rec.Kind == sem.Constant {
		p.ann.KindError(rec.Kind, diag.CodeTargetIsConstant)
	}
	if typ == sem.Universal {
		return
	}
	switch kw {
	case token.Read:
		if typ != sem.Boolean && typ != sem.Integer {
			p.ann.TypeError(typ, diag.CodeReadTargetType)
		}
	case token.Randomize:
		if typ != sem.Integer {
			p.ann.TypeError(typ, diag.CodeRandomizeTargetType)
		}
	case token.Open:
		if typ != sem.Channel {
			p.ann.TypeError(typ, diag.CodeOpenTargetType)
		}
	}
}

func readOp(t sem.Type) opcode.Op {
	if t == sem.Boolean {
		return opcode.ReadBoolean
	}
	return opcode.ReadInteger
}

// WriteStmt = "write" Expression { "," Expression }
func (p *Parser) parseWriteStmt(stop symset.Set) {
	p.expect(token.Write, stop)
	p.markIO()
	for {
		typ := p.parseExpression(stop.Union(symset.Of(token.Comma)))
		if typ != sem.Universal && typ != sem.Boolean && typ != sem.Integer {
			p.ann.TypeError(typ, diag.CodeWriteValueType)
		}
		if typ == sem.Boolean {
			p.asm.Emit(opcode.WriteBoolean)
		} else {
			p.asm.Emit(opcode.WriteInteger)
		}
		if p.cur != token.Comma {
			break
		}
		p.advance()
	}
}

// SendStmt = "send" Expression "->" Expression
//
// Send/Receive rendezvous on a channel the procedure was handed as a
// parameter; like Open, this is in-process synchronization, not
// outside I/O, so it does not mark the enclosing procedure UsesIO (a
// parallel-friendly procedure must have a channel parameter and is
// expected to Send/Receive on it).
func (p *Parser) parseSendStmt(stop symset.Set) {
	p.expect(token.Send, stop)
	local := stop.Union(symset.Of(token.Through))
	valueType := p.parseExpression(local)
	if valueType != sem.Universal && valueType != sem.Integer {
		p.ann.TypeError(valueType, diag.CodeSendValueType)
	}
	p.expect(token.Through, stop)
	channelType := p.parseExpression(stop)
	if channelType != sem.Universal && channelType != sem.Channel {
		p.ann.TypeError(channelType, diag.CodeSendChannelType)
	}
	p.asm.Emit(opcode.Send)
}

// ReceiveStmt = "receive" ObjectAccess "->" Expression
func (p *Parser) parseReceiveStmt(stop symset.Set) {
	p.expect(token.Receive, stop)
	local := stop.Union(symset.Of(token.Through))
	rec, valueType := p.resolveObjectAccess(local)
	if rec.Kind == sem.Constant {
		p.ann.KindError(rec.Kind, diag.CodeTargetIsConstant)
	}
	if valueType != sem.Universal && valueType != sem.Integer {
		p.ann.TypeError(valueType, diag.CodeReceiveValueType)
	}
	p.expect(token.Through, stop)
	channelType := p.parseExpression(stop)
	if channelType != sem.Universal && channelType != sem.Channel {
		p.ann.TypeError(channelType, diag.CodeReceiveChannelType)
	}
	p.asm.Emit(opcode.Receive)
}

// ParallelStmt = "parallel" ProcedureCall
//
// Parallel's one operand is the word count of the call tail that
// follows it (argument-push code plus the closing ProcedureInvocation)
// so the spawning Translator can skip over it regardless of how many
// arguments the call has; resolved once the tail is fully assembled.
func (p *Parser) parseParallelStmt(stop symset.Set) {
	p.expect(token.Parallel, stop)
	name, ok := p.expectName(stop.Union(symset.Of(token.LeftParanthesis)))
	if !ok {
		return
	}

	rec, levelDelta, found := p.aud.Find(name)
	p.checkParallelTarget(found, rec)

	skipSlot := p.emitPlaceholder(opcode.Parallel)
	tailStart := p.asm.CurrentAddress()
	p.parseCallTailForRec(stop, rec, levelDelta, found)
	p.asm.ResolveArgument(skipSlot, p.asm.CurrentAddress()-tailStart)
}

// checkParallelTarget enforces the six parallel-friendliness conditions
// spec §4.5 lists for the immediate target of a ParallelStmt.
func (p *Parser) checkParallelTarget(found bool, rec auditor.ObjectRecord) {
	if !found {
		return
	}
	if rec.Kind != sem.Procedure {
		p.ann.KindError(rec.Kind, diag.CodeParallelTargetNotProcedure)
		return
	}
	if rec.ReturnType != sem.Void {
		p.ann.ParallelFriendlinessError(diag.CodeParallelReturnNotVoid)
	}
	hasChannelParam := false
	for _, param := range rec.Params {
		if param.Kind == sem.ReferenceParameter {
			p.ann.ParallelFriendlinessError(diag.CodeParallelHasReferenceParam)
		}
		if param.Type == sem.Channel {
			hasChannelParam = true
		}
	}
	if !hasChannelParam {
		p.ann.ParallelFriendlinessError(diag.CodeParallelNoChannelParam)
	}
	if rec.Proc != nil {
		if rec.Proc.UsesIO {
			p.ann.ParallelFriendlinessError(diag.CodeParallelUsesIO)
		}
		if rec.Proc.HighestScopeUsed != sem.NoOuterScope {
			p.ann.ParallelFriendlinessError(diag.CodeParallelAccessesOuterScope)
		}
		if rec.Proc.CallsParallelUnfriendly {
			p.ann.ParallelFriendlinessError(diag.CodeParallelCallsUnfriendly)
		}
	}
	// A procedure parallel-spawning itself on the way down a recursive
	// pipeline (each spawn a fresh node with its own stack) is the normal
	// idiom for a digit-recursive/tree-shaped computation, not a hazard:
	// unlike an ordinary recursive call it never reuses the caller's
	// stack or activation record. CodeParallelSelfRecursion is reserved
	// but unchecked here; see DESIGN.md.
}

// parseNameStatement resolves the Name-starting ambiguity between
// AssignmentStmt and ProcedureCall: both begin with a Name, but a call
// is immediately followed by "(" while an assignment target may first
// take an optional array index.
func (p *Parser) parseNameStatement(stop symset.Set) {
	name := p.names.Text(p.scan.Argument())
	p.advance()

	if p.cur == token.LeftParanthesis {
		p.parseCallTail(stop, name)
		return
	}
	p.parseAssignmentStmt(stop, name)
}

// AssignmentStmt = ObjectAccess { "," ObjectAccess } "=" Expression { "," Expression }
// The first ObjectAccess's Name has already been consumed by the
// caller's disambiguation lookahead.
func (p *Parser) parseAssignmentStmt(stop symset.Set, firstName string) {
	local := stop.Union(symset.Of(token.Comma, token.Becomes))

	rec, levelDelta, _ := p.aud.Find(firstName)
	if rec.Kind == sem.Constant {
		p.ann.KindError(rec.Kind, diag.CodeAssignToConstant)
	}
	targetType := p.emitObjectAddress(local, rec, levelDelta)
	targetTypes := []sem.Type{targetType}

	for p.cur == token.Comma {
		p.advance()
		r, t := p.resolveObjectAccess(local)
		if r.Kind == sem.Constant {
			p.ann.KindError(r.Kind, diag.CodeAssignToConstant)
		}
		targetTypes = append(targetTypes, t)
	}

	p.expect(token.Becomes, stop.Union(symset.Of(token.Comma)))

	var valueTypes []sem.Type
	for {
		valueTypes = append(valueTypes, p.parseExpression(stop.Union(symset.Of(token.Comma))))
		if p.cur != token.Comma {
			break
		}
		p.advance()
	}

	if len(targetTypes) != len(valueTypes) {
		p.ann.KindError(sem.Variable, diag.CodeAssignCountMismatch)
	}
	n := len(targetTypes)
	if len(valueTypes) < n {
		n = len(valueTypes)
	}
	for i := 0; i < n; i++ {
		lt, vt := targetTypes[i], valueTypes[i]
		if lt != sem.Universal && vt != sem.Universal && lt != vt {
			p.ann.TypeError(vt, diag.CodeAssignTypeMismatch)
		}
	}
	p.asm.Emit(opcode.Assign, int64(n))
}
