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

// Package parser implements the single-pass recursive-descent parser
// (spec §4.5): grammar recognition, scope/kind/type checking, and
// intermediate-code emission, all woven together the way asm/parser.go
// interleaves token-state dispatch with MachineInstruction emission —
// generalized here to real recursive descent since this grammar, unlike
// the assembler's line-oriented mnemonic syntax, is not regular.
package parser

import (
	"github.com/sirupsen/logrus"

	"github.com/pdxjjb/y4lang/internal/asmfmt"
	"github.com/pdxjjb/y4lang/internal/auditor"
	"github.com/pdxjjb/y4lang/internal/diag"
	"github.com/pdxjjb/y4lang/internal/sem"
	"github.com/pdxjjb/y4lang/internal/symset"
	"github.com/pdxjjb/y4lang/internal/token"
	"github.com/pdxjjb/y4lang/opcode"
)

// procContext is the parser's per-active-procedure bookkeeping for the
// parallel-statement friendliness analysis (spec §4.5's "stack of
// currently-active procedure names").
type procContext struct {
	name           string
	enclosingLevel int // auditor.Level() at DefineProcedure time
	rec            *sem.ProcedureRecord
}

// Parser drives the scanner, annotator, auditor and assembler together
// to produce a complete code buffer from one source file.
type Parser struct {
	scan  *token.Scanner
	names *token.NameTable
	ann   *diag.Annotator
	aud   *auditor.Auditor
	asm   *asmfmt.Assembler
	log   *logrus.Entry

	cur       token.Kind
	procStack []*procContext
}

// Parse runs the parser to completion over scan, returning the
// assembled code buffer and the auditor (retained for diagnostics and
// tests that want to inspect the final symbol arena).
func Parse(scan *token.Scanner, names *token.NameTable, ann *diag.Annotator) (*asmfmt.Assembler, *auditor.Auditor) {
	p := &Parser{
		scan:  scan,
		names: names,
		ann:   ann,
		aud:   auditor.New(ann),
		asm:   asmfmt.New(),
		log:   logrus.WithField("component", "parser"),
	}
	p.advance()
	p.parseProgram()
	return p.asm, p.aud
}

func (p *Parser) advance() {
	p.scan.NextSymbol()
	p.cur = p.scan.CurrentSymbol()
}

// expect consumes sym if it is current, else reports a syntax error and
// recovers to stop.
func (p *Parser) expect(sym token.Kind, stop symset.Set) {
	if p.cur == sym {
		p.advance()
		return
	}
	p.syntaxCheck(stop)
}

// syntaxCheck is the panic-mode recovery primitive: if the current
// symbol is not in stop, it reports one syntax error (subject to the
// per-line dedup latch) and discards symbols until one in stop, or
// end-of-text, is reached.
func (p *Parser) syntaxCheck(stop symset.Set) {
	if stop.Contains(p.cur) {
		return
	}
	p.ann.SyntaxError()
	for !stop.Contains(p.cur) && p.cur != token.EndOfText {
		p.advance()
	}
}

// emitPlaceholder emits op with a single zero operand and returns the
// address of that operand slot, for a later ResolveAddress/
// ResolveArgument call once the real value is known.
func (p *Parser) emitPlaceholder(op opcode.Op) int {
	p.asm.Emit(op, 0)
	return p.asm.CurrentAddress() - 1
}
