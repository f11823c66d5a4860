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

package diag

import (
	"testing"

	"github.com/pdxjjb/y4lang/internal/sem"
)

func check(t *testing.T, a1, a2 any) {
	if a1 != a2 {
		t.Errorf("%[1]v (a %[1]T) != %[2]v (a %[2]T)", a1, a2)
	}
}

// fakeLine is a fixed-line LineState that lets a test flip lines to
// exercise the per-line dedup latch directly.
type fakeLine struct {
	line    int
	correct bool
}

func (f *fakeLine) LineNumber() int     { return f.line }
func (f *fakeLine) IsLineCorrect() bool { return f.correct }
func (f *fakeLine) SetLineIsIncorrect() { f.correct = false }

type recordingSink struct {
	codes []int
	lines []int
}

func (s *recordingSink) Report(line int, category Category, code int, message string) {
	s.codes = append(s.codes, code)
	s.lines = append(s.lines, line)
}

func TestErrorFreeStartsTrue(t *testing.T) {
	sink := &recordingSink{}
	ann := New(&fakeLine{line: 1, correct: true}, sink)
	check(t, ann.ErrorFree(), true)
	check(t, ann.Errors(), nil)
}

func TestSyntaxErrorReports(t *testing.T) {
	sink := &recordingSink{}
	ann := New(&fakeLine{line: 1, correct: true}, sink)
	ann.SyntaxError()
	check(t, ann.ErrorFree(), false)
	check(t, len(sink.codes), 1)
	check(t, sink.codes[0], CodeSyntaxError)
}

func TestLatchSuppressesSecondReportOnSameLine(t *testing.T) {
	sink := &recordingSink{}
	line := &fakeLine{line: 1, correct: true}
	ann := New(line, sink)
	ann.ScopeError(CodeUndefinedName)
	ann.ScopeError(CodeAmbiguousName)
	check(t, len(sink.codes), 1)
	check(t, sink.codes[0], CodeUndefinedName)
}

func TestLatchResetsOnNewLine(t *testing.T) {
	sink := &recordingSink{}
	line := &fakeLine{line: 1, correct: true}
	ann := New(line, sink)
	ann.ScopeError(CodeUndefinedName)
	line.line = 2
	line.correct = true
	ann.ScopeError(CodeAmbiguousName)
	check(t, len(sink.codes), 2)
	check(t, sink.codes[1], CodeAmbiguousName)
}

func TestKindErrorSuppressedForUndefined(t *testing.T) {
	sink := &recordingSink{}
	ann := New(&fakeLine{line: 1, correct: true}, sink)
	ann.KindError(sem.Undefined, CodeNotProcedure)
	check(t, ann.ErrorFree(), false)
	check(t, len(sink.codes), 0)
}

func TestKindErrorReportsForKnownKind(t *testing.T) {
	sink := &recordingSink{}
	ann := New(&fakeLine{line: 1, correct: true}, sink)
	ann.KindError(sem.Variable, CodeNotProcedure)
	check(t, len(sink.codes), 1)
	check(t, sink.codes[0], CodeNotProcedure)
}

func TestTypeErrorSuppressedForUniversal(t *testing.T) {
	sink := &recordingSink{}
	ann := New(&fakeLine{line: 1, correct: true}, sink)
	ann.TypeError(sem.Universal, CodeNotRequiresBoolean)
	check(t, ann.ErrorFree(), false)
	check(t, len(sink.codes), 0)
}

func TestTypeErrorOpFormatsOperatorSymbol(t *testing.T) {
	sink := &recordingSink{}
	ann := New(&fakeLine{line: 1, correct: true}, sink)
	ann.TypeErrorOp(sem.Integer, CodeEqualityTypeMismatch, "==")
	check(t, len(sink.codes), 1)
	check(t, sink.codes[0], CodeEqualityTypeMismatch)
}

func TestParallelFriendlinessErrorBypassesLatch(t *testing.T) {
	sink := &recordingSink{}
	line := &fakeLine{line: 1, correct: true}
	ann := New(line, sink)
	ann.ParallelFriendlinessError(CodeParallelReturnNotVoid)
	ann.ParallelFriendlinessError(CodeParallelHasReferenceParam)
	check(t, line.correct, true)
	check(t, len(sink.codes), 2)
	check(t, sink.codes[0], CodeParallelReturnNotVoid)
	check(t, sink.codes[1], CodeParallelHasReferenceParam)
}

func TestTypeErrorOpUnlatchedFiresTwiceOnSameLine(t *testing.T) {
	sink := &recordingSink{}
	line := &fakeLine{line: 1, correct: true}
	ann := New(line, sink)
	ann.TypeErrorOpUnlatched(sem.Boolean, CodeEqualityTypeMismatch, "==")
	ann.TypeErrorOpUnlatched(sem.Void, CodeEqualityOperandIsVoid, "==")
	check(t, len(sink.codes), 2)
	check(t, sink.codes[0], CodeEqualityTypeMismatch)
	check(t, sink.codes[1], CodeEqualityOperandIsVoid)
}

func TestTypeErrorOpUnlatchedSuppressedForUniversal(t *testing.T) {
	sink := &recordingSink{}
	ann := New(&fakeLine{line: 1, correct: true}, sink)
	ann.TypeErrorOpUnlatched(sem.Universal, CodeEqualityTypeMismatch, "==")
	check(t, len(sink.codes), 0)
	check(t, ann.ErrorFree(), false)
}

func TestInternalErrorNeverLatched(t *testing.T) {
	sink := &recordingSink{}
	line := &fakeLine{line: 1, correct: false}
	ann := New(line, sink)
	ann.InternalError(CodeInvalidOpcodeDispatch)
	check(t, len(sink.codes), 1)
	check(t, sink.codes[0], CodeInvalidOpcodeDispatch)
}

func TestErrorsAggregatesMultipleLines(t *testing.T) {
	sink := &recordingSink{}
	line := &fakeLine{line: 1, correct: true}
	ann := New(line, sink)
	ann.ScopeError(CodeUndefinedName)
	line.line = 2
	line.correct = true
	ann.ScopeError(CodeUndefinedName)
	if ann.Errors() == nil {
		t.Fatalf("expected a non-nil aggregate error")
	}
}

func TestNilLineStateIsTolerated(t *testing.T) {
	sink := &recordingSink{}
	ann := New(nil, sink)
	ann.ScopeError(CodeUndefinedName)
	ann.ScopeError(CodeAmbiguousName)
	check(t, len(sink.codes), 2)
	check(t, sink.lines[0], 0)
}
