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

package parser_test

import (
	"testing"

	"github.com/pdxjjb/y4lang/internal/diag"
	"github.com/pdxjjb/y4lang/internal/parser"
	"github.com/pdxjjb/y4lang/internal/token"
)

type codeSink struct {
	codes []int
}

func (s *codeSink) Report(line int, category diag.Category, code int, message string) {
	s.codes = append(s.codes, code)
}

func parse(src string) (*diag.Annotator, *codeSink) {
	names := token.NewNameTable()
	scan := token.NewStringScanner(src, names)
	sink := &codeSink{}
	ann := diag.New(scan, sink)
	parser.Parse(scan, names, ann)
	return ann, sink
}

func checkCodes(t *testing.T, got, want []int) {
	if len(got) != len(want) {
		t.Fatalf("code count: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("code %d: got %v, want %v", i, got, want)
		}
	}
}

func TestValidProgramCompilesCleanly(t *testing.T) {
	ann, _ := parse(`{
    integer i;
    i = 1;
    write i;
}`)
	if !ann.ErrorFree() {
		t.Fatalf("unexpected diagnostics: %v", ann.Errors())
	}
}

func TestUndefinedNameReportsScopeError(t *testing.T) {
	_, sink := parse(`{ x = 1; }`)
	checkCodes(t, sink.codes, []int{diag.CodeUndefinedName})
}

func TestAssignCountMismatch(t *testing.T) {
	_, sink := parse(`{
    integer a, b;
    a, b = 1;
}`)
	checkCodes(t, sink.codes, []int{diag.CodeAssignCountMismatch})
}

func TestArrayBoundNotPositive(t *testing.T) {
	_, sink := parse(`{ integer[0] a; }`)
	checkCodes(t, sink.codes, []int{diag.CodeArrayBoundNotPositive})
}

func TestAssignToConstant(t *testing.T) {
	_, sink := parse(`{
    constant c = 5;
    c = 1;
}`)
	checkCodes(t, sink.codes, []int{diag.CodeAssignToConstant})
}

func TestArgCountMismatch(t *testing.T) {
	_, sink := parse(`{
    @ P(integer x) {
    }
    P();
}`)
	checkCodes(t, sink.codes, []int{diag.CodeArgCountMismatch})
}

func TestConditionRequiresBoolean(t *testing.T) {
	_, sink := parse(`{
    integer i;
    if (i) {
    }
}`)
	checkCodes(t, sink.codes, []int{diag.CodeConditionRequiresBoolean})
}

func TestReadTargetType(t *testing.T) {
	_, sink := parse(`{
    channel c;
    open c;
    read c;
}`)
	checkCodes(t, sink.codes, []int{diag.CodeReadTargetType})
}

func TestArrayRequiresIndex(t *testing.T) {
	_, sink := parse(`{
    integer[3] a;
    write a;
}`)
	checkCodes(t, sink.codes, []int{diag.CodeArrayRequiresIndex})
}

func TestIndexOnNonArray(t *testing.T) {
	_, sink := parse(`{
    integer a;
    write a[1];
}`)
	checkCodes(t, sink.codes, []int{diag.CodeIndexOnNonArray})
}

func TestBareProcedureAccess(t *testing.T) {
	_, sink := parse(`{
    @ P() {
    }
    write P;
}`)
	checkCodes(t, sink.codes, []int{diag.CodeBareProcedureAccess})
}

func TestAmbiguousNameWithinSameScope(t *testing.T) {
	_, sink := parse(`{
    integer x;
    integer x;
}`)
	checkCodes(t, sink.codes, []int{diag.CodeAmbiguousName})
}
