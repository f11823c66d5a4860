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

import "fmt"

// RuntimeError is one of the run-time failures spec §7 lists. Exactly
// one aborts a node: it sets the process-wide error flag and is written
// to the output sink; its Error() text matches the wording spec §8's
// scenarios 3 and 4 check verbatim.
type RuntimeError struct {
	Kind    string
	Message string
}

func (e *RuntimeError) Error() string {
	return e.Message
}

func newRuntimeError(kind, message string) *RuntimeError {
	return &RuntimeError{Kind: kind, Message: message}
}

func errArrayOutOfBounds() *RuntimeError {
	return newRuntimeError("ArrayIndexOutOfBounds", "Array index is out of bounds.")
}

func errBooleanFormat() *RuntimeError {
	return newRuntimeError("BooleanInputIncorrectFormat", "Boolean input was not in the correct format.")
}

func errIntegerFormat() *RuntimeError {
	return newRuntimeError("IntegerInputIncorrectFormat", "Integer input was not in the correct format.")
}

func errUnopenedSend() *RuntimeError {
	return newRuntimeError("SendThroughUnopenedChannel", "Send was attempted through an unopened channel.")
}

func errUnopenedReceive() *RuntimeError {
	return newRuntimeError("ReceiveThroughUnopenedChannel", "Receive was attempted through an unopened channel.")
}

func errStackOverflow() *RuntimeError {
	return newRuntimeError("StackOverflow", "Translator stack overflow.")
}

func errArithmeticOverflow(op string) *RuntimeError {
	return newRuntimeError("ArithmeticOverflow", fmt.Sprintf("Arithmetic overflow in %s.", op))
}

func errIncorrectOpcode(op int64) *RuntimeError {
	return newRuntimeError("IncorrectOpcode", fmt.Sprintf("Incorrect opcode %d at run time.", op))
}

func errDivideByZero() *RuntimeError {
	return newRuntimeError("ArithmeticOverflow", "Division by zero.")
}

func errUnopenedChannel(addr int64) *RuntimeError {
	return newRuntimeError("UnopenedChannel", fmt.Sprintf("Channel %d was never opened.", addr))
}
