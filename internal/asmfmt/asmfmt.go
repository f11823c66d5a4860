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

// Package asmfmt implements the Assembler (spec §4.4): an append-only
// integer code buffer with label back-patching, generalized from
// asm/asm.go + asm/parser.go's fixed-width MachineInstruction buffer
// (which back-patches symbol-table indexes into 16-bit fields) to the
// variable-length instruction stream spec §9 calls for, where every
// opcode and operand is one int64 slot and a label is just an index.
package asmfmt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pdxjjb/y4lang/opcode"
)

// MaxProgramSize bounds the number of int64 slots a program may occupy,
// the assembler's analog of asm/sym.go's MaxSymbols cap: large enough
// for any program this toolchain is meant to run, small enough to catch
// a runaway or corrupt input before it is handed to the interpreter.
const MaxProgramSize = 1 << 20

// Assembler is the append-only code buffer the parser emits into.
type Assembler struct {
	code []int64
}

func New() *Assembler {
	return &Assembler{}
}

// CurrentAddress is the slot the next Emit will occupy — used to record
// procedure entry points and jump targets.
func (a *Assembler) CurrentAddress() int {
	return len(a.code)
}

// Emit appends op followed by its operands and returns the address (the
// slot) at which op itself was written.
func (a *Assembler) Emit(op opcode.Op, operands ...int64) int {
	addr := len(a.code)
	a.code = append(a.code, int64(op))
	a.code = append(a.code, operands...)
	return addr
}

// ReserveOperand appends a single placeholder slot (for a forward
// reference not yet known) and returns its address, to be filled in
// later by ResolveAddress or ResolveArgument.
func (a *Assembler) ReserveOperand() int {
	addr := len(a.code)
	a.code = append(a.code, 0)
	return addr
}

// ResolveAddress back-patches slot with a target address, once known —
// used for Goto/Do jump targets.
func (a *Assembler) ResolveAddress(slot int, address int) {
	a.code[slot] = int64(address)
}

// ResolveArgument back-patches slot with an ordinary operand value, once
// known — used where the placeholder is a count or other non-address
// integer rather than a jump target. Mechanically identical to
// ResolveAddress; kept as a distinct name because the two back-patch
// kinds mean different things to a reader of the parser.
func (a *Assembler) ResolveArgument(slot int, value int) {
	a.code[slot] = int64(value)
}

// Code returns the final buffer. The caller must not mutate it.
func (a *Assembler) Code() []int64 {
	return a.code
}

// AppendRaw splices an already-assembled fragment onto the end of the
// buffer verbatim, for callers that assemble a fragment into a scratch
// Assembler (to reorder several fragments relative to each other) and
// then merge it into the real one. The fragment must not contain an
// unresolved ReserveOperand slot — those are only ever resolved against
// the Assembler that reserved them.
func (a *Assembler) AppendRaw(code []int64) {
	a.code = append(a.code, code...)
}

func (a *Assembler) Len() int {
	return len(a.code)
}

// WriteText writes the code buffer to path, one integer per line, per
// GenerateExecutable (spec §4.4).
func WriteText(path string, code []int64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, v := range code {
		if _, err := fmt.Fprintln(w, v); err != nil {
			return err
		}
	}
	return w.Flush()
}

// ReadText reads a code buffer previously written by WriteText. It
// rejects inputs exceeding MaxProgramSize with a "program too big"
// error rather than risk an enormous allocation driven by a corrupt or
// hostile file.
func ReadText(path string) ([]int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var code []int64
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if len(code) >= MaxProgramSize {
			return nil, fmt.Errorf("asmfmt: program too big: exceeds %d instructions", MaxProgramSize)
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		v, err := strconv.ParseInt(line, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("asmfmt: malformed instruction word %q: %w", line, err)
		}
		code = append(code, v)
	}
	if err := scanner.Err(); err != nil && err != io.EOF {
		return nil, err
	}
	return code, nil
}
