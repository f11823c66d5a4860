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

package auditor

import (
	"testing"

	"github.com/pdxjjb/y4lang/internal/diag"
	"github.com/pdxjjb/y4lang/internal/sem"
)

func check(t *testing.T, a1, a2 any) {
	if a1 != a2 {
		t.Errorf("%[1]v (a %[1]T) != %[2]v (a %[2]T)", a1, a2)
	}
}

// fakeLine is a fixed-line LineState, the simplest possible stand-in for
// a *token.Scanner in tests that don't care about line numbers.
type fakeLine struct {
	line    int
	correct bool
}

func (f *fakeLine) LineNumber() int        { return f.line }
func (f *fakeLine) IsLineCorrect() bool    { return f.correct }
func (f *fakeLine) SetLineIsIncorrect()    { f.correct = false }

type codeSink struct {
	codes []int
}

func (s *codeSink) Report(line int, category diag.Category, code int, message string) {
	s.codes = append(s.codes, code)
}

func newTestAuditor() (*Auditor, *codeSink) {
	sink := &codeSink{}
	ann := diag.New(&fakeLine{line: 1, correct: true}, sink)
	return New(ann), sink
}

func TestDefineAssignsDisplacements(t *testing.T) {
	a, _ := newTestAuditor()
	a.NewBlock()
	x := a.Define("x", sem.Variable, sem.Integer)
	y := a.Define("y", sem.Variable, sem.Integer)
	check(t, x.Displacement, 3)
	check(t, y.Displacement, 4)
	check(t, a.FrameObjectsLength(), 2)
}

func TestDefineParametersCountDownFromMinusOne(t *testing.T) {
	a, _ := newTestAuditor()
	a.NewBlock()
	p1 := a.Define("p1", sem.ValueParameter, sem.Integer)
	p2 := a.Define("p2", sem.ReferenceParameter, sem.Integer)
	check(t, p1.Displacement, -1)
	check(t, p2.Displacement, -2)
	check(t, a.FrameParamsLength(), 2)
}

func TestDefineReturnVariable(t *testing.T) {
	a, _ := newTestAuditor()
	a.NewBlock()
	r := a.DefineReturnVariable("result", sem.Boolean)
	check(t, r.Displacement, 3)
	check(t, r.Kind, sem.ReturnParameter)

	// Ordinary locals start past the return slot, at B+4.
	x := a.Define("x", sem.Variable, sem.Integer)
	check(t, x.Displacement, 4)
}

func TestDefineArrayReservesContiguousSlots(t *testing.T) {
	a, _ := newTestAuditor()
	a.NewBlock()
	arr := a.DefineArray("nums", sem.Integer, 5)
	check(t, arr.Displacement, 3)
	check(t, arr.UpperBound, 5)

	next := a.Define("after", sem.Variable, sem.Integer)
	check(t, next.Displacement, 8)
}

func TestDefineAmbiguousName(t *testing.T) {
	a, sink := newTestAuditor()
	a.NewBlock()
	a.Define("x", sem.Variable, sem.Integer)
	a.Define("x", sem.Variable, sem.Integer)
	check(t, len(sink.codes), 1)
	check(t, sink.codes[0], diag.CodeAmbiguousName)
}

func TestFindInnermostScopeWins(t *testing.T) {
	a, _ := newTestAuditor()
	a.NewBlock()
	a.Define("x", sem.Variable, sem.Integer)
	a.NewBlock()
	a.Define("x", sem.Variable, sem.Boolean)

	rec, levelsUp, found := a.Find("x")
	check(t, found, true)
	check(t, levelsUp, 0)
	check(t, rec.Type, sem.Boolean)
}

func TestFindOuterScope(t *testing.T) {
	a, _ := newTestAuditor()
	a.NewBlock()
	a.Define("x", sem.Variable, sem.Integer)
	a.NewBlock()
	a.NewBlock()

	_, levelsUp, found := a.Find("x")
	check(t, found, true)
	check(t, levelsUp, 2)
}

func TestFindUndefinedReportsAndSynthesizes(t *testing.T) {
	a, sink := newTestAuditor()
	a.NewBlock()
	rec, levelsUp, found := a.Find("missing")
	check(t, found, false)
	check(t, levelsUp, 0)
	check(t, rec.Kind, sem.Undefined)
	check(t, rec.Type, sem.Universal)
	check(t, len(sink.codes), 1)
	check(t, sink.codes[0], diag.CodeUndefinedName)
}

func TestEndBlockHidesButKeepsArenaEntries(t *testing.T) {
	a, _ := newTestAuditor()
	a.NewBlock()
	x := a.Define("x", sem.Variable, sem.Integer)
	a.NewBlock()
	a.EndBlock()

	_, _, found := a.Find("x")
	check(t, found, true)

	a.EndBlock()
	check(t, a.Level(), 0)
	check(t, a.ArenaSize(), 1)
	check(t, a.Get(x.Handle).Name, "x")
}

func TestLevelTracksNesting(t *testing.T) {
	a, _ := newTestAuditor()
	check(t, a.Level(), 0)
	a.NewBlock()
	check(t, a.Level(), 1)
	a.NewBlock()
	check(t, a.Level(), 2)
	a.EndBlock()
	check(t, a.Level(), 1)
}

func TestUpdateOverwritesMetadata(t *testing.T) {
	a, _ := newTestAuditor()
	a.NewBlock()
	proc := a.DefineProcedure("P")
	proc.Proc.UsesIO = true
	a.Update(proc.Handle, proc.Metadata)

	check(t, a.Get(proc.Handle).Proc.UsesIO, true)
}
