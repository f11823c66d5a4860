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

package interp

import (
	"errors"
	"math"

	"github.com/pdxjjb/y4lang/opcode"
)

// DefaultStackSize is a Translator's fixed stack capacity. Every node
// spawned by Parallel gets its own stack of this size; there is no
// growth, only errStackOverflow.
const DefaultStackSize = 1 << 16

// errHalt is the sentinel run() uses to unwind its dispatch loop on a
// clean stop, raised only by opEndProgram. It never reaches a caller
// outside this package.
var errHalt = errors.New("interp: halt")

// frameOverhead is the three bookkeeping slots (static link, dynamic
// link, return address) every activation record reserves below its
// first local at B+3, per spec's layout.
const frameOverhead = 3

// Translator is one execution thread: a stack machine with its own
// registers and value stack, sharing the code buffer and the
// Interpreter's I/O/channel/error-flag state with every sibling
// Parallel spawns. Exactly one Translator (the one Interpreter.Run
// creates for the Program block) is not itself the product of a
// Parallel instruction.
type Translator struct {
	ip    *Interpreter
	stack []int64
	pc    int
	base  int
	sp    int

	// pendingHalt marks a freshly spawned Translator: the very next
	// ProcedureInvocation it executes (always the one Parallel left
	// waiting at pc) must store the interpreter's end-of-program
	// address as its return address instead of pc+3, since there is
	// no caller frame to return into. Control then lands on EndProgram
	// itself when this node's top-level call returns, halting it the
	// same way the original node halts.
	pendingHalt bool
}

func newTranslator(ip *Interpreter) *Translator {
	return &Translator{ip: ip, stack: make([]int64, DefaultStackSize)}
}

// run executes until the program halts or a run-time error aborts
// this node. A *RuntimeError return has already been reported through
// fail; errHalt and nil both mean clean termination.
func (t *Translator) run() error {
	for {
		if t.ip.errorRaised() {
			return errHalt
		}
		op := opcode.Op(t.ip.code[t.pc])
		h, ok := dispatch[op]
		if !ok {
			return t.fail(errIncorrectOpcode(int64(op)))
		}
		if err := h(t); err != nil {
			if err == errHalt {
				return errHalt
			}
			if re, isRuntime := err.(*RuntimeError); isRuntime {
				return t.fail(re)
			}
			return err
		}
	}
}

// fail reports a *RuntimeError through the Interpreter's sink and
// raises the shared error flag so every other node winds down at its
// next dispatch-loop check, then returns err unchanged for run()'s
// caller.
func (t *Translator) fail(err *RuntimeError) error {
	t.ip.reportError(err)
	return err
}

func (t *Translator) operand(n int) int64 {
	return t.ip.code[t.pc+1+n]
}

func (t *Translator) push(v int64) error {
	if t.sp >= len(t.stack) {
		return errStackOverflow()
	}
	t.stack[t.sp] = v
	t.sp++
	return nil
}

func (t *Translator) pop() int64 {
	t.sp--
	return t.stack[t.sp]
}

func (t *Translator) reserve(n int) error {
	if t.sp+n > len(t.stack) {
		return errStackOverflow()
	}
	t.sp += n
	return nil
}

// followLevels walks levelDelta static-link hops up from the current
// base register. Every activation record, whether built by
// ProcedureInvocation or inline by Block, keeps its static link at
// +0, so the walk is uniform regardless of frame kind.
func (t *Translator) followLevels(levelDelta int) int {
	b := t.base
	for i := 0; i < levelDelta; i++ {
		b = int(t.stack[b+0])
	}
	return b
}

type opHandler func(t *Translator) error

// dispatch is the opcode-indexed table of handlers, the stack
// machine's analogue of exec.go's baseops/yops/vops closure arrays.
var dispatch = map[opcode.Op]opHandler{
	opcode.Program:             opProgram,
	opcode.EndProgram:          opEndProgram,
	opcode.Block:               opBlock,
	opcode.EndBlock:            opEndBlock,
	opcode.ProcedureBlock:      opProcedureBlock,
	opcode.EndProcedureBlock:   opEndProcedureBlock,
	opcode.ProcedureInvocation: opProcedureInvocation,
	opcode.Variable:            opVariable,
	opcode.ReferenceParameter:  opReferenceParameter,
	opcode.Index:               opIndex,
	opcode.Constant:            opConstant,
	opcode.Value:               opValue,
	opcode.Not:                 opNot,
	opcode.And:                 opAnd,
	opcode.Or:                  opOr,
	opcode.Multiply:            opMultiply,
	opcode.Divide:              opDivide,
	opcode.Modulo:              opModulo,
	opcode.Power:               opPower,
	opcode.Less:                opLess,
	opcode.LessOrEqual:         opLessOrEqual,
	opcode.Equal:               opEqual,
	opcode.NotEqual:            opNotEqual,
	opcode.Greater:             opGreater,
	opcode.GreaterOrEqual:      opGreaterOrEqual,
	opcode.Add:                 opAdd,
	opcode.Subtract:            opSubtract,
	opcode.Minus:               opMinus,
	opcode.ReadBoolean:         opReadBoolean,
	opcode.ReadInteger:         opReadInteger,
	opcode.WriteBoolean:        opWriteBoolean,
	opcode.WriteInteger:        opWriteInteger,
	opcode.Randomize:           opRandomize,
	opcode.Open:                opOpen,
	opcode.Send:                opSend,
	opcode.Receive:             opReceive,
	opcode.Assign:              opAssign,
	opcode.Do:                  opDo,
	opcode.Goto:                opGoto,
	opcode.Parallel:            opParallel,
}

// --- block/procedure entry and exit ---

func opProgram(t *Translator) error {
	n := int(t.operand(0))
	t.stack[0], t.stack[1], t.stack[2] = 0, 0, 0
	t.base = 0
	t.sp = frameOverhead
	if err := t.reserve(n); err != nil {
		return err
	}
	t.pc += 2
	return nil
}

func opEndProgram(t *Translator) error {
	return errHalt
}

// opBlock is If/While's body entry. Unlike ProcedureBlock, nothing
// upstream has built this frame's 3-slot overhead yet (there is no
// ProcedureInvocation bridging straight-line control flow into a
// Block), so Block builds it inline: the static and dynamic links
// both point at the enclosing frame's base (one hop up is always the
// block this one is nested directly inside), and the return-address
// slot goes unused since EndBlock never jumps anywhere, it just falls
// through.
func opBlock(t *Translator) error {
	n := int(t.operand(0))
	enclosing := int64(t.base)
	newBase := t.sp
	if err := t.push(enclosing); err != nil {
		return err
	}
	if err := t.push(enclosing); err != nil {
		return err
	}
	if err := t.push(0); err != nil {
		return err
	}
	t.base = newBase
	if err := t.reserve(n); err != nil {
		return err
	}
	t.pc += 2
	return nil
}

func opEndBlock(t *Translator) error {
	oldBase := int(t.stack[t.base+0])
	t.sp = t.base
	t.base = oldBase
	t.pc++
	return nil
}

// opProcedureBlock reserves this frame's locals; ProcedureInvocation
// already built the 3-slot overhead and set base before jumping here.
func opProcedureBlock(t *Translator) error {
	n := int(t.operand(0))
	if err := t.reserve(n); err != nil {
		return err
	}
	t.pc += 2
	return nil
}

// opEndProcedureBlock decodes the sign-encoded operand (see decls.go:
// negative means this procedure has a live return value at B+3),
// unwinds the frame, and jumps to the return address. For a node
// returning from its top-level call, that address is the
// interpreter's end-of-program marker (stored by opProcedureInvocation
// for a node opParallel marked pendingHalt), so
// the next dispatch naturally runs EndProgram and halts this node —
// no special-casing needed here.
func opEndProcedureBlock(t *Translator) error {
	raw := t.operand(0)
	hasReturn := raw < 0
	paramsLength := int(raw)
	if hasReturn {
		paramsLength = int(-raw) - 1
	}

	retAddr := int(t.stack[t.base+2])
	dynLink := int(t.stack[t.base+1])
	argsBase := t.base - paramsLength

	if hasReturn {
		retVal := t.stack[t.base+3]
		t.sp = argsBase
		if err := t.push(retVal); err != nil {
			return err
		}
	} else {
		t.sp = argsBase
	}
	t.base = dynLink
	t.pc = retAddr
	return nil
}

// opProcedureInvocation pushes the 3-slot overhead for the callee and
// jumps to its entry label. Arguments were already pushed by the
// caller's ArgumentList code, in reverse source order (the parser
// splices each argument's fragment in right-to-left), so the
// first-declared parameter's value sits closest to the new base at
// displacement -1.
func opProcedureInvocation(t *Translator) error {
	levelDelta := int(t.operand(0))
	label := int(t.operand(1))

	staticLink := int64(t.followLevels(levelDelta))
	dynLink := int64(t.base)
	var retAddr int64
	if t.pendingHalt {
		retAddr = int64(t.ip.endOfProgram)
		t.pendingHalt = false
	} else {
		retAddr = int64(t.pc + 3)
	}

	newBase := t.sp
	if err := t.push(staticLink); err != nil {
		return err
	}
	if err := t.push(dynLink); err != nil {
		return err
	}
	if err := t.push(retAddr); err != nil {
		return err
	}
	t.base = newBase
	t.pc = label
	return nil
}

// --- addressing ---

func opVariable(t *Translator) error {
	levelDelta := int(t.operand(0))
	displacement := int(t.operand(1))
	b := t.followLevels(levelDelta)
	if err := t.push(int64(b + displacement)); err != nil {
		return err
	}
	t.pc += 3
	return nil
}

func opReferenceParameter(t *Translator) error {
	levelDelta := int(t.operand(0))
	displacement := int(t.operand(1))
	b := t.followLevels(levelDelta)
	addr := t.stack[b+displacement]
	if err := t.push(addr); err != nil {
		return err
	}
	t.pc += 3
	return nil
}

func opIndex(t *Translator) error {
	upperBound := t.operand(0)
	idx := t.pop()
	base := t.pop()
	if idx < 1 || idx > upperBound {
		return errArrayOutOfBounds()
	}
	if err := t.push(base + idx - 1); err != nil {
		return err
	}
	t.pc += 2
	return nil
}

func opConstant(t *Translator) error {
	v := t.operand(0)
	if err := t.push(v); err != nil {
		return err
	}
	t.pc += 2
	return nil
}

func opValue(t *Translator) error {
	addr := t.pop()
	if err := t.push(t.stack[addr]); err != nil {
		return err
	}
	t.pc++
	return nil
}

// --- logical and arithmetic, right operand on top of stack ---

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func opNot(t *Translator) error {
	v := t.pop()
	if err := t.push(1 - v); err != nil {
		return err
	}
	t.pc++
	return nil
}

func opAnd(t *Translator) error {
	r, l := t.pop(), t.pop()
	if err := t.push(boolInt(l != 0 && r != 0)); err != nil {
		return err
	}
	t.pc++
	return nil
}

func opOr(t *Translator) error {
	r, l := t.pop(), t.pop()
	if err := t.push(boolInt(l != 0 || r != 0)); err != nil {
		return err
	}
	t.pc++
	return nil
}

func opMultiply(t *Translator) error {
	r, l := t.pop(), t.pop()
	full := l * r
	if l != 0 && full/l != r {
		return errArithmeticOverflow("multiplication")
	}
	if err := t.push(full); err != nil {
		return err
	}
	t.pc++
	return nil
}

func opDivide(t *Translator) error {
	r, l := t.pop(), t.pop()
	if r == 0 {
		return errDivideByZero()
	}
	if err := t.push(l / r); err != nil {
		return err
	}
	t.pc++
	return nil
}

func opModulo(t *Translator) error {
	r, l := t.pop(), t.pop()
	if r == 0 {
		return errDivideByZero()
	}
	if err := t.push(l % r); err != nil {
		return err
	}
	t.pc++
	return nil
}

func opPower(t *Translator) error {
	r, l := t.pop(), t.pop()
	if r < 0 {
		return errArithmeticOverflow("power")
	}
	result := int64(1)
	for i := int64(0); i < r; i++ {
		next := result * l
		if l != 0 && next/l != result {
			return errArithmeticOverflow("power")
		}
		result = next
	}
	if err := t.push(result); err != nil {
		return err
	}
	t.pc++
	return nil
}

func opLess(t *Translator) error {
	r, l := t.pop(), t.pop()
	if err := t.push(boolInt(l < r)); err != nil {
		return err
	}
	t.pc++
	return nil
}

func opLessOrEqual(t *Translator) error {
	r, l := t.pop(), t.pop()
	if err := t.push(boolInt(l <= r)); err != nil {
		return err
	}
	t.pc++
	return nil
}

func opEqual(t *Translator) error {
	r, l := t.pop(), t.pop()
	if err := t.push(boolInt(l == r)); err != nil {
		return err
	}
	t.pc++
	return nil
}

func opNotEqual(t *Translator) error {
	r, l := t.pop(), t.pop()
	if err := t.push(boolInt(l != r)); err != nil {
		return err
	}
	t.pc++
	return nil
}

func opGreater(t *Translator) error {
	r, l := t.pop(), t.pop()
	if err := t.push(boolInt(l > r)); err != nil {
		return err
	}
	t.pc++
	return nil
}

func opGreaterOrEqual(t *Translator) error {
	r, l := t.pop(), t.pop()
	if err := t.push(boolInt(l >= r)); err != nil {
		return err
	}
	t.pc++
	return nil
}

func opAdd(t *Translator) error {
	r, l := t.pop(), t.pop()
	full := l + r
	if (r > 0 && full < l) || (r < 0 && full > l) {
		return errArithmeticOverflow("addition")
	}
	if err := t.push(full); err != nil {
		return err
	}
	t.pc++
	return nil
}

func opSubtract(t *Translator) error {
	r, l := t.pop(), t.pop()
	full := l - r
	if (r < 0 && full < l) || (r > 0 && full > l) {
		return errArithmeticOverflow("subtraction")
	}
	if err := t.push(full); err != nil {
		return err
	}
	t.pc++
	return nil
}

func opMinus(t *Translator) error {
	v := t.pop()
	if v == math.MinInt64 {
		return errArithmeticOverflow("negation")
	}
	if err := t.push(-v); err != nil {
		return err
	}
	t.pc++
	return nil
}

// --- I/O, randomization, channels ---

func opReadBoolean(t *Translator) error {
	addr := t.pop()
	v, err := t.ip.readBoolean()
	if err != nil {
		return err
	}
	t.stack[addr] = v
	t.pc++
	return nil
}

func opReadInteger(t *Translator) error {
	addr := t.pop()
	v, err := t.ip.readInteger()
	if err != nil {
		return err
	}
	t.stack[addr] = v
	t.pc++
	return nil
}

func opWriteBoolean(t *Translator) error {
	v := t.pop()
	t.ip.writeBoolean(v != 0)
	t.pc++
	return nil
}

func opWriteInteger(t *Translator) error {
	v := t.pop()
	t.ip.writeInteger(v)
	t.pc++
	return nil
}

func opRandomize(t *Translator) error {
	addr := t.pop()
	t.stack[addr] = t.ip.randomInt()
	t.pc++
	return nil
}

func opOpen(t *Translator) error {
	addr := t.pop()
	t.stack[addr] = t.ip.channels.Open()
	t.pc++
	return nil
}

func opSend(t *Translator) error {
	key := t.pop()
	value := t.pop()
	ch, ok := t.ip.channels.Get(key)
	if !ok {
		return errUnopenedSend()
	}
	ch.Send(value)
	t.pc++
	return nil
}

func opReceive(t *Translator) error {
	key := t.pop()
	addr := t.pop()
	ch, ok := t.ip.channels.Get(key)
	if !ok {
		return errUnopenedReceive()
	}
	t.stack[addr] = ch.Receive()
	t.pc++
	return nil
}

// --- statement-level ---

// opAssign pops n values off the top, then the n addresses just below
// them, and stores value i at address i, mirroring the parser's
// left-to-right address-then-value push order for a multi-assignment.
func opAssign(t *Translator) error {
	n := int(t.operand(0))
	valuesBase := t.sp - n
	addrsBase := valuesBase - n
	for i := 0; i < n; i++ {
		addr := t.stack[addrsBase+i]
		t.stack[addr] = t.stack[valuesBase+i]
	}
	t.sp = addrsBase
	t.pc += 2
	return nil
}

func opDo(t *Translator) error {
	target := int(t.operand(0))
	cond := t.pop()
	if cond == 0 {
		t.pc = target
	} else {
		t.pc += 2
	}
	return nil
}

func opGoto(t *Translator) error {
	t.pc = int(t.operand(0))
	return nil
}

// opParallel spawns a sibling Translator that shares this one's stack
// contents up through the current top, then takes over the call that
// textually follows it (spec §4.6): the new Translator's pc starts
// two words past Parallel (past its own operand), at the argument-push
// code the parser always emits there, marked pendingHalt so that the
// ProcedureInvocation at the end of it stores the interpreter's
// end-of-program address as its return address instead of a real
// return site. Parallel's one operand is the word count of that
// argument code plus the ProcedureInvocation following it (the parser
// resolves it once the call tail is fully assembled), so this
// Translator can skip over the whole call — whatever its argument
// count — and continue with whatever statement follows.
func opParallel(t *Translator) error {
	skip := int(t.operand(0))
	child := newTranslator(t.ip)
	copy(child.stack, t.stack[:t.sp])
	child.sp = t.sp
	child.base = t.base
	child.pc = t.pc + 2
	child.pendingHalt = true
	t.ip.spawn(child)
	t.pc += 2 + skip
	return nil
}
