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

// End-to-end tests driving the whole toolchain the way cmd/y4c/main.go's
// compile()/execute() do, against a string instead of a file.
package interp_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pdxjjb/y4lang/internal/diag"
	"github.com/pdxjjb/y4lang/internal/parser"
	"github.com/pdxjjb/y4lang/internal/token"
	"github.com/pdxjjb/y4lang/interp"
)

// codeSink is a diag.Sink that remembers only the codes it was given, in
// report order.
type codeSink struct {
	codes []int
}

func (s *codeSink) Report(line int, category diag.Category, code int, message string) {
	s.codes = append(s.codes, code)
}

func check(t *testing.T, a1, a2 any) {
	if a1 != a2 {
		t.Errorf("%[1]v (a %[1]T) != %[2]v (a %[2]T)", a1, a2)
	}
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

func compile(src string) ([]int64, *diag.Annotator, *codeSink) {
	names := token.NewNameTable()
	scan := token.NewStringScanner(src, names)
	sink := &codeSink{}
	ann := diag.New(scan, sink)
	asm, _ := parser.Parse(scan, names, ann)
	return asm.Code(), ann, sink
}

func TestGoldenPrimeCheck(t *testing.T) {
	src := `{
@[boolean result] IsPrime(integer x) {
    integer i;
    result = true;
    if (x < 2) {
        result = false;
    }
    i = 2;
    while (i * i <= x) {
        if (x % i == 0) {
            result = false;
        }
        i = i + 1;
    }
}
integer n;
boolean r;
read n;
r = IsPrime(n);
write r;
}`
	code, ann, _ := compile(src)
	if !ann.ErrorFree() {
		t.Fatalf("unexpected diagnostics: %v", ann.Errors())
	}

	for _, tc := range []struct{ in, want string }{
		{"7\n", "true\n"},
		{"8\n", "false\n"},
	} {
		var out bytes.Buffer
		ip := interp.New(code, strings.NewReader(tc.in), &out)
		if err := ip.Check(); err != nil {
			t.Fatalf("check: %v", err)
		}
		if err := ip.Run(); err != nil {
			t.Fatalf("run: %v", err)
		}
		if re := ip.Reported(); re != nil {
			t.Fatalf("reported: %v", re)
		}
		check(t, out.String(), tc.want)
	}
}

func TestGoldenParallelDigitSquareSum(t *testing.T) {
	src := `{
@ Node(integer number, channel bottom) {
    integer digit, quotient, partial;
    channel next;
    if (number < 10) {
        partial = number * number;
        send partial -> bottom;
    } else {
        integer received;
        digit = number % 10;
        quotient = number / 10;
        open next;
        parallel Node(quotient, next);
        receive received -> next;
        partial = received + digit * digit;
        send partial -> bottom;
    }
}
channel top;
integer result;
open top;
parallel Node(13597, top);
receive result -> top;
write result;
}`
	code, ann, _ := compile(src)
	if !ann.ErrorFree() {
		t.Fatalf("unexpected diagnostics: %v", ann.Errors())
	}

	var out bytes.Buffer
	ip := interp.New(code, strings.NewReader(""), &out)
	if err := ip.Check(); err != nil {
		t.Fatalf("check: %v", err)
	}
	if err := ip.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if re := ip.Reported(); re != nil {
		t.Fatalf("reported: %v", re)
	}
	// 13597's digits are 1,3,5,9,7: 1+9+25+81+49 = 165.
	check(t, out.String(), "165\n")
}

func TestGoldenArrayOutOfBounds(t *testing.T) {
	src := `{
    integer[5] numbers;
    numbers[6] = 1;
}`
	code, ann, _ := compile(src)
	if !ann.ErrorFree() {
		t.Fatalf("unexpected diagnostics: %v", ann.Errors())
	}

	var out bytes.Buffer
	ip := interp.New(code, strings.NewReader(""), &out)
	if err := ip.Check(); err != nil {
		t.Fatalf("check: %v", err)
	}
	if err := ip.Run(); err == nil {
		t.Fatalf("expected a run-time error")
	}
	check(t, out.String(), "Array index is out of bounds.\n")
}

func TestGoldenBooleanInputFormat(t *testing.T) {
	src := `{
    boolean v;
    read v;
}`
	code, ann, _ := compile(src)
	if !ann.ErrorFree() {
		t.Fatalf("unexpected diagnostics: %v", ann.Errors())
	}

	var out bytes.Buffer
	ip := interp.New(code, strings.NewReader("0\n"), &out)
	if err := ip.Check(); err != nil {
		t.Fatalf("check: %v", err)
	}
	if err := ip.Run(); err == nil {
		t.Fatalf("expected a run-time error")
	}
	check(t, out.String(), "Boolean input was not in the correct format.\n")
}

func TestGoldenParallelFriendlinessDiagnostics(t *testing.T) {
	src := `{
    integer outer;
    @ Helper() {
        write 1;
    }
    @[integer r] Bad(reference integer x) {
        write x;
        outer = x;
        Helper();
        r = x;
    }
    parallel Bad(reference outer);
}`
	_, ann, sink := compile(src)
	if ann.ErrorFree() {
		t.Fatalf("expected diagnostics, got none")
	}
	checkCodes(t, sink.codes, []int{
		diag.CodeParallelReturnNotVoid,
		diag.CodeParallelHasReferenceParam,
		diag.CodeParallelNoChannelParam,
		diag.CodeParallelUsesIO,
		diag.CodeParallelAccessesOuterScope,
		diag.CodeParallelCallsUnfriendly,
	})
}

func TestGoldenDiadicTypeErrors(t *testing.T) {
	src := `{
    integer i;
    boolean b;
    @ Test() {
    }
    write b == i;
    write i | b;
    write b & i;
    write b < (2+3);
    write i >= b;
    write b + i;
    write i + (i <= 0);
    write b * i;
    write i ^ b;
    write Test() == b;
}`
	_, ann, sink := compile(src)
	if ann.ErrorFree() {
		t.Fatalf("expected diagnostics, got none")
	}
	checkCodes(t, sink.codes, []int{
		diag.CodeEqualityTypeMismatch,
		diag.CodeOrOperandNotBoolean,
		diag.CodeAndOperandNotBoolean,
		diag.CodeRelationalLeftNotInteger,
		diag.CodeRelationalRightNotInteger,
		diag.CodeAdditiveLeftNotInteger,
		diag.CodeAdditiveRightNotInteger,
		diag.CodeMultiplicativeLeftNotInteger,
		diag.CodeMultiplicativeRightNotInteger,
		diag.CodeEqualityTypeMismatch,
		diag.CodeEqualityOperandIsVoid,
	})
}
