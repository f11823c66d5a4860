/*
Copyright © 2024 Jeff Berkowitz (pdxjjb@gmail.com)

This program is free software: you can redistribute it and/or modify it
under the terms of the GNU Affero General Public License as published
by the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful, but
WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
Affero General Public License for more details.

You should have received a copy of the GNU Affero General Public
License along with this program. If not, see
<http://www.gnu.org/licenses/>.
*/

package asmfmt

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/pdxjjb/y4lang/opcode"
)

func check(t *testing.T, a1, a2 any) {
	if a1 != a2 {
		t.Errorf("%[1]v (a %[1]T) != %[2]v (a %[2]T)", a1, a2)
	}
}

func TestEmitAndCurrentAddress(t *testing.T) {
	a := New()
	check(t, a.CurrentAddress(), 0)
	addr := a.Emit(opcode.Constant, 7)
	check(t, addr, 0)
	check(t, a.CurrentAddress(), 2)
	addr2 := a.Emit(opcode.Add)
	check(t, addr2, 2)
	check(t, a.CurrentAddress(), 3)
}

func TestReserveAndResolveAddress(t *testing.T) {
	a := New()
	a.Emit(opcode.Constant, 1)
	slot := a.ReserveOperand()
	a.Emit(opcode.Add)
	a.ResolveAddress(slot, 42)
	code := a.Code()
	check(t, code[slot], int64(42))
}

func TestResolveArgument(t *testing.T) {
	a := New()
	slot := a.ReserveOperand()
	a.ResolveArgument(slot, 9)
	check(t, a.Code()[slot], int64(9))
}

func TestAppendRaw(t *testing.T) {
	frag := New()
	frag.Emit(opcode.Constant, 5)

	a := New()
	a.Emit(opcode.Constant, 1)
	a.AppendRaw(frag.Code())
	want := []int64{int64(opcode.Constant), 1, int64(opcode.Constant), 5}
	if !reflect.DeepEqual(a.Code(), want) {
		t.Errorf("got %v, want %v", a.Code(), want)
	}
}

func TestLen(t *testing.T) {
	a := New()
	a.Emit(opcode.Constant, 1)
	a.Emit(opcode.Add)
	check(t, a.Len(), 3)
}

func TestWriteReadTextRoundTrip(t *testing.T) {
	a := New()
	a.Emit(opcode.Constant, 1)
	a.Emit(opcode.Constant, 2)
	a.Emit(opcode.Add)

	dir := t.TempDir()
	path := filepath.Join(dir, "prog.txt")
	if err := WriteText(path, a.Code()); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ReadText(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !reflect.DeepEqual(got, a.Code()) {
		t.Errorf("got %v, want %v", got, a.Code())
	}
}

func TestReadTextMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.txt")
	if err := os.WriteFile(path, []byte("1\nnotanumber\n"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if _, err := ReadText(path); err == nil {
		t.Fatalf("expected an error for malformed instruction word")
	}
}

func TestReadTextTooBig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "huge.txt")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	for i := 0; i <= MaxProgramSize; i++ {
		if _, err := f.WriteString("1\n"); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	f.Close()

	if _, err := ReadText(path); err == nil {
		t.Fatalf("expected a program-too-big error")
	}
}
