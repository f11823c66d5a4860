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

// Package interp implements the Translator/Interpreter (spec §4.6-§5):
// a stack machine that runs the intermediate code internal/asmfmt
// produces, one goroutine per Parallel-spawned node, sharing channels,
// I/O, and a process-wide error flag. The phase shape — Build, Check,
// then run — follows sim/sim.go's Build/Check/Simulate, generalized
// from a clocked circuit simulator to this interpreter loop.
package interp

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"github.com/pdxjjb/y4lang/opcode"
)

// dumpConcurrency bounds how many DumpAll snapshot goroutines run at
// once, so a program with thousands of live nodes doesn't spray
// thousands of concurrent stderr writers. Node spawning itself
// (Parallel/opParallel) is never bounded; this is a debug-only knob.
const dumpConcurrency = 16

// Interpreter owns everything every Translator shares: the read-only
// code buffer, the channel registry, the I/O streams, and the
// process-wide error flag spec §7 describes ("any node may set a
// process-wide error flag").
type Interpreter struct {
	code        []int64
	endOfProgram int
	channels    *ChannelRegistry

	in   *bufio.Reader
	inMu sync.Mutex

	out   io.Writer
	outMu sync.Mutex

	errored  int32 // atomic bool
	errOnce  sync.Once
	reported *RuntimeError

	rng   *rand.Rand
	rngMu sync.Mutex

	log *logrus.Entry

	mu   sync.Mutex
	live []*Translator

	sem *semaphore.Weighted
}

// New wires an Interpreter around a code buffer without validating it;
// call Check before Run. asmfmt.ReadText loads a buffer from a text file.
func New(code []int64, in io.Reader, out io.Writer) *Interpreter {
	return &Interpreter{
		code:         code,
		endOfProgram: findEndOfProgram(code),
		channels:     NewChannelRegistry(),
		in:           bufio.NewReader(in),
		out:          out,
		rng:          rand.New(rand.NewSource(1)),
		log:          logrus.WithField("component", "interp"),
		sem:          semaphore.NewWeighted(dumpConcurrency),
	}
}

// findEndOfProgram locates the single EndProgram instruction every
// compiled program ends with (Program is always the outermost block),
// the "interpreter's end-of-program marker" spec §4.6/§9 describes: a
// Parallel-spawned node's top-level ProcedureInvocation stores this
// address as its return address instead of a real call site, so
// returning from that call lands here and halts the node cleanly
// instead of running off into whatever instruction happens to follow.
func findEndOfProgram(code []int64) int {
	i, n := 0, len(code)
	for i < n {
		op := opcode.Op(code[i])
		if op == opcode.EndProgram {
			return i
		}
		if op.String() == "Op(?)" {
			i++
			continue
		}
		i += 1 + op.Operands()
	}
	return n
}

// Check statically validates the code buffer before Run: every opcode
// word must name a known Op, and every instruction's operand group
// must lie entirely within the buffer. It does not (cannot, from a
// flat buffer alone) verify that jump targets land on instruction
// boundaries; a corrupt target is instead caught at run time as
// IncorrectOpcode when execution reaches it.
func (ip *Interpreter) Check() error {
	ip.log.Debug("checking...")
	var result *multierror.Error
	i, n := 0, len(ip.code)
	for i < n {
		op := opcode.Op(ip.code[i])
		if op.String() == "Op(?)" {
			result = multierror.Append(result, fmt.Errorf("interp: invalid opcode %d at address %d", ip.code[i], i))
			i++
			continue
		}
		want := op.Operands()
		if i+1+want > n {
			result = multierror.Append(result, fmt.Errorf("interp: truncated operand list for %s at address %d", op, i))
			break
		}
		i += 1 + want
	}
	if i != n {
		result = multierror.Append(result, fmt.Errorf("interp: code buffer misaligned, stopped at address %d of %d", i, n))
	}
	return result.ErrorOrNil()
}

// Run executes the Program block synchronously to completion. Nodes
// spawned along the way by Parallel run as daemon goroutines that
// Run does not wait for individually — it returns once the original
// (non-Parallel-spawned) Translator halts, matching spec §5's "the
// main node's termination ends the run" semantics (children left
// blocked forever on an unpartnered channel are simply abandoned).
func (ip *Interpreter) Run() error {
	ip.log.Debug("running...")
	main := newTranslator(ip)
	ip.register(main)
	err := main.run()
	if err == errHalt {
		return nil
	}
	return err
}

// register/spawn track every live Translator so DumpAll has something
// to snapshot. register does not block Run on the registered
// Translator's completion; only spawn's goroutines are daemons Run
// itself never waits for.
func (ip *Interpreter) register(t *Translator) {
	ip.mu.Lock()
	ip.live = append(ip.live, t)
	ip.mu.Unlock()
}

// spawn launches child as an unbounded daemon goroutine (spec §5: the
// host may run arbitrarily many parallel nodes; there is no cap here).
func (ip *Interpreter) spawn(child *Translator) {
	ip.register(child)
	go func() {
		if err := child.run(); err != nil && err != errHalt {
			ip.log.WithError(err).Debug("node aborted")
		}
	}()
}

func (ip *Interpreter) errorRaised() bool {
	return atomic.LoadInt32(&ip.errored) != 0
}

// reportError writes err's message to the output sink exactly once —
// the first node to fail wins the report — then raises the shared
// flag so every other live node stops at its next dispatch check.
func (ip *Interpreter) reportError(err *RuntimeError) {
	ip.errOnce.Do(func() {
		ip.reported = err
		ip.outMu.Lock()
		fmt.Fprintln(ip.out, err.Error())
		ip.outMu.Unlock()
	})
	atomic.StoreInt32(&ip.errored, 1)
}

// Reported returns the first run-time error any node raised, or nil.
func (ip *Interpreter) Reported() *RuntimeError {
	return ip.reported
}

func (ip *Interpreter) writeInteger(v int64) {
	ip.outMu.Lock()
	fmt.Fprintln(ip.out, v)
	ip.outMu.Unlock()
}

func (ip *Interpreter) writeBoolean(v bool) {
	ip.outMu.Lock()
	fmt.Fprintln(ip.out, v)
	ip.outMu.Unlock()
}

func (ip *Interpreter) readLine() (string, error) {
	ip.inMu.Lock()
	defer ip.inMu.Unlock()
	line, err := ip.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (ip *Interpreter) readInteger() (int64, error) {
	line, err := ip.readLine()
	if err != nil {
		return 0, err
	}
	v, perr := strconv.ParseInt(line, 10, 64)
	if perr != nil {
		return 0, errIntegerFormat()
	}
	return v, nil
}

func (ip *Interpreter) readBoolean() (int64, error) {
	line, err := ip.readLine()
	if err != nil {
		return 0, err
	}
	switch strings.ToLower(line) {
	case "true":
		return 1, nil
	case "false":
		return 0, nil
	default:
		return 0, errBooleanFormat()
	}
}

func (ip *Interpreter) randomInt() int64 {
	ip.rngMu.Lock()
	defer ip.rngMu.Unlock()
	return ip.rng.Int63()
}

// DumpAll snapshots every live Translator's registers to w, for
// debugging; cmd/y4c does not call it. Fan-out is bounded by sem so a program with
// thousands of live nodes doesn't launch thousands of goroutines
// purely to print a line each.
func (ip *Interpreter) DumpAll(ctx context.Context, w io.Writer) error {
	ip.mu.Lock()
	snapshot := make([]*Translator, len(ip.live))
	copy(snapshot, ip.live)
	ip.mu.Unlock()

	var wg sync.WaitGroup
	var mu sync.Mutex
	for i, t := range snapshot {
		if err := ip.sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return err
		}
		wg.Add(1)
		go func(i int, t *Translator) {
			defer wg.Done()
			defer ip.sem.Release(1)
			line := fmt.Sprintf("node %d: pc=%d base=%d sp=%d", i, t.pc, t.base, t.sp)
			mu.Lock()
			fmt.Fprintln(w, line)
			mu.Unlock()
		}(i, t)
	}
	wg.Wait()
	return nil
}
