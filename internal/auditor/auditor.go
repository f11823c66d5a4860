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

// Package auditor implements the Auditor (spec §4.3): scope and
// displacement bookkeeping for the parser, generalized from
// asm/sym.go's arena-of-entries symbol table (a slice grown by append,
// indexed by a stable integer handle, with a name->handle map in
// front) into the arena-of-object-records design spec §9 asks for, one
// arena shared across every nested scope instead of one flat table.
package auditor

import (
	"github.com/pdxjjb/y4lang/internal/diag"
	"github.com/pdxjjb/y4lang/internal/sem"
)

// Handle is a stable reference to an ObjectRecord, valid for the
// lifetime of the Auditor even after the defining block has ended.
type Handle int

const NoHandle Handle = -1

// ObjectRecord is one arena entry: the name it was defined under plus
// its semantic Metadata. Handle is its own index into Auditor.objects,
// carried on the record so callers can pass it around without also
// threading the Auditor.
type ObjectRecord struct {
	Handle Handle
	Name   string
	sem.Metadata
}

// frame is one lexical scope's name table plus its running
// displacement counters. Every Block nonterminal pushes one — the
// program's top block, a procedure body, and an if/while body alike —
// since the grammar lets each carry its own DefinitionPart. At run
// time each gets its own activation record too: If/While's Block
// opcode builds a lightweight static/dynamic-link/return-address
// triple inline (there being no ProcedureInvocation to have built one
// already), so a static-link hop counted here corresponds to exactly
// one hop through stack[B+0] at run time regardless of which kind of
// Block it crosses.
type frame struct {
	names         map[string]Handle
	nextParamDisp int // parameters count down from -1
	nextLocalDisp int // locals/arrays count up from +3, past the 3-slot call overhead
}

func newFrame() *frame {
	return &frame{names: make(map[string]Handle), nextParamDisp: -1, nextLocalDisp: 3}
}

// Auditor is the parser's symbol-table companion: NewBlock/EndBlock
// bracket a lexical scope, Define enters a name with its displacement
// already computed, Find resolves a name against the visible scope
// stack innermost-first.
type Auditor struct {
	objects   []ObjectRecord
	frames    []*frame
	annotator *diag.Annotator
}

func New(annotator *diag.Annotator) *Auditor {
	return &Auditor{annotator: annotator}
}

// NewBlock pushes a fresh scope. Level() after this call is one more
// than before.
func (a *Auditor) NewBlock() {
	a.frames = append(a.frames, newFrame())
}

// EndBlock pops the innermost scope. Objects defined in it remain in
// the arena — already-assigned displacements and handles stay valid —
// only their visibility to Find is removed.
func (a *Auditor) EndBlock() {
	a.frames = a.frames[:len(a.frames)-1]
}

// Level is the current nesting depth: 0 before any NewBlock, incrementing
// by one for every Block nonterminal entered — the program's top block,
// a procedure body, an if/while body — and back down on EndBlock.
func (a *Auditor) Level() int {
	return len(a.frames)
}

// FrameObjectsLength is the current (innermost) frame's non-parameter
// slot count so far: the operand for the Program/Block/ProcedureBlock
// opcode that allocates this frame. Call it once DefinitionPart has
// been fully parsed, before EndBlock.
func (a *Auditor) FrameObjectsLength() int {
	top := a.frames[len(a.frames)-1]
	return top.nextLocalDisp - 3
}

// FrameParamsLength is the current (innermost) frame's parameter slot
// count: the operand for EndProcedureBlock.
func (a *Auditor) FrameParamsLength() int {
	top := a.frames[len(a.frames)-1]
	return -top.nextParamDisp - 1
}

// Define enters name with the given Kind/Type into the innermost
// scope, computing its displacement. If name is already defined in
// this same scope, it reports CodeAmbiguousName and returns the
// existing record unchanged.
func (a *Auditor) Define(name string, kind sem.Kind, typ sem.Type) ObjectRecord {
	top := a.frames[len(a.frames)-1]
	if h, exists := top.names[name]; exists {
		a.annotator.ScopeError(diag.CodeAmbiguousName)
		return a.objects[h]
	}

	meta := sem.Metadata{Kind: kind, Type: typ, Level: a.Level(), Label: sem.NoLabel}
	switch {
	case kind.IsParameter():
		meta.Displacement = top.nextParamDisp
		top.nextParamDisp--
	case kind == sem.Variable:
		meta.Displacement = top.nextLocalDisp
		top.nextLocalDisp++
	case kind == sem.Procedure, kind == sem.Constant:
		// No runtime storage slot.
	}

	h := Handle(len(a.objects))
	rec := ObjectRecord{Handle: h, Name: name, Metadata: meta}
	a.objects = append(a.objects, rec)
	top.names[name] = h
	return rec
}

// DefineReturnVariable enters a procedure's return-value name at the
// fixed displacement B+3 (spec §4.6's activation-record layout) and
// advances the frame's local counter past it, so ordinary locals start
// at B+4 in a procedure that has a return variable.
func (a *Auditor) DefineReturnVariable(name string, typ sem.Type) ObjectRecord {
	top := a.frames[len(a.frames)-1]
	if h, exists := top.names[name]; exists {
		a.annotator.ScopeError(diag.CodeAmbiguousName)
		return a.objects[h]
	}
	meta := sem.Metadata{Kind: sem.ReturnParameter, Type: typ, Level: a.Level(), Displacement: 3, Label: sem.NoLabel}
	top.nextLocalDisp = 4

	h := Handle(len(a.objects))
	rec := ObjectRecord{Handle: h, Name: name, Metadata: meta}
	a.objects = append(a.objects, rec)
	top.names[name] = h
	return rec
}

// DefineArray is Define's array-specific sibling: it reserves
// upperBound contiguous local slots (valid indices 1..upperBound map to
// offsets 0..upperBound-1) starting at the current local displacement.
func (a *Auditor) DefineArray(name string, elementType sem.Type, upperBound int) ObjectRecord {
	top := a.frames[len(a.frames)-1]
	if h, exists := top.names[name]; exists {
		a.annotator.ScopeError(diag.CodeAmbiguousName)
		return a.objects[h]
	}
	meta := sem.Metadata{
		Kind:         sem.Array,
		Type:         elementType,
		Level:        a.Level(),
		UpperBound:   upperBound,
		Displacement: top.nextLocalDisp,
		Label:        sem.NoLabel,
	}
	top.nextLocalDisp += upperBound

	h := Handle(len(a.objects))
	rec := ObjectRecord{Handle: h, Name: name, Metadata: meta}
	a.objects = append(a.objects, rec)
	top.names[name] = h
	return rec
}

// DefineProcedure is Define's procedure-specific sibling: the caller
// fills in Params/ReturnType/Label/Proc once the header is known,
// since the name must be visible (for recursive calls) before its
// signature is fully parsed.
func (a *Auditor) DefineProcedure(name string) ObjectRecord {
	top := a.frames[len(a.frames)-1]
	if h, exists := top.names[name]; exists {
		a.annotator.ScopeError(diag.CodeAmbiguousName)
		return a.objects[h]
	}
	meta := sem.Metadata{Kind: sem.Procedure, Type: sem.Void, Level: a.Level(), Label: sem.NoLabel, Proc: &sem.ProcedureRecord{HighestScopeUsed: sem.NoOuterScope}}
	h := Handle(len(a.objects))
	rec := ObjectRecord{Handle: h, Name: name, Metadata: meta}
	a.objects = append(a.objects, rec)
	top.names[name] = h
	return rec
}

// Update overwrites the arena entry for an already-defined handle, used
// after DefineProcedure once the full signature is known or when the
// parser's friendliness analysis mutates a ProcedureRecord in place.
func (a *Auditor) Update(h Handle, meta sem.Metadata) {
	a.objects[h].Metadata = meta
}

// Get returns the current arena contents for h.
func (a *Auditor) Get(h Handle) ObjectRecord {
	return a.objects[h]
}

// Find resolves name against the visible scope stack, innermost frame
// first. levelsUp is 0 if found in the current (innermost) frame, 1 if
// one frame out, and so on — the number of static-link hops the code
// generator must emit to reach it. If name is visible nowhere, Find
// reports CodeUndefinedName itself and returns a synthesized Undefined
// record so downstream kind/type checks can short-circuit silently
// instead of cascading.
func (a *Auditor) Find(name string) (rec ObjectRecord, levelsUp int, found bool) {
	for i := len(a.frames) - 1; i >= 0; i-- {
		if h, ok := a.frames[i].names[name]; ok {
			return a.objects[h], len(a.frames) - 1 - i, true
		}
	}
	a.annotator.ScopeError(diag.CodeUndefinedName)
	return ObjectRecord{Handle: NoHandle, Name: name, Metadata: sem.Metadata{Kind: sem.Undefined, Type: sem.Universal}}, 0, false
}

// ArenaSize returns the number of distinct objects ever defined across
// the whole compilation, including those in scopes already ended.
func (a *Auditor) ArenaSize() int {
	return len(a.objects)
}
