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

// Package opcode defines the intermediate instruction set (spec §4.6):
// one named integer per opcode plus its fixed operand count, the same
// "small typed table keyed by a named enum" idiom dis/dis.go uses for
// the assembler's instruction signatures, generalized from that
// register-machine encoding to this language's stack-machine one.
package opcode

type Op int

const (
	Program Op = iota
	EndProgram
	Block
	EndBlock
	ProcedureBlock
	EndProcedureBlock
	ProcedureInvocation

	Variable
	ReferenceParameter
	Index
	Constant
	Value

	Not
	And
	Or
	Multiply
	Divide
	Modulo
	Power
	Less
	LessOrEqual
	Equal
	NotEqual
	Greater
	GreaterOrEqual
	Add
	Subtract
	Minus

	ReadBoolean
	ReadInteger
	WriteBoolean
	WriteInteger
	Randomize
	Open
	Send
	Receive

	Assign
	Do
	Goto
	Parallel
)

var names = map[Op]string{
	Program:             "Program",
	EndProgram:          "EndProgram",
	Block:               "Block",
	EndBlock:            "EndBlock",
	ProcedureBlock:      "ProcedureBlock",
	EndProcedureBlock:   "EndProcedureBlock",
	ProcedureInvocation: "ProcedureInvocation",
	Variable:            "Variable",
	ReferenceParameter:  "ReferenceParameter",
	Index:               "Index",
	Constant:            "Constant",
	Value:               "Value",
	Not:                 "Not",
	And:                 "And",
	Or:                  "Or",
	Multiply:            "Multiply",
	Divide:              "Divide",
	Modulo:              "Modulo",
	Power:               "Power",
	Less:                "Less",
	LessOrEqual:         "LessOrEqual",
	Equal:               "Equal",
	NotEqual:            "NotEqual",
	Greater:             "Greater",
	GreaterOrEqual:      "GreaterOrEqual",
	Add:                 "Add",
	Subtract:            "Subtract",
	Minus:               "Minus",
	ReadBoolean:         "ReadBoolean",
	ReadInteger:         "ReadInteger",
	WriteBoolean:        "WriteBoolean",
	WriteInteger:        "WriteInteger",
	Randomize:           "Randomize",
	Open:                "Open",
	Send:                "Send",
	Receive:             "Receive",
	Assign:              "Assign",
	Do:                  "Do",
	Goto:                "Goto",
	Parallel:            "Parallel",
}

func (o Op) String() string {
	if n, ok := names[o]; ok {
		return n
	}
	return "Op(?)"
}

// operandCounts gives the fixed number of integer operands each opcode
// carries in the code buffer, immediately following the opcode word
// itself. Assign is variable-arity (2*n stack slots touched at run
// time) but only ever carries the single operand n in the code buffer.
var operandCounts = map[Op]int{
	Program:             1,
	EndProgram:          0,
	Block:               1,
	EndBlock:            0,
	ProcedureBlock:      1,
	EndProcedureBlock:   1,
	ProcedureInvocation: 2,
	Variable:            2,
	ReferenceParameter:  2,
	Index:               1,
	Constant:            1,
	Value:               0,
	Not:                 0,
	And:                 0,
	Or:                  0,
	Multiply:            0,
	Divide:              0,
	Modulo:              0,
	Power:               0,
	Less:                0,
	LessOrEqual:         0,
	Equal:               0,
	NotEqual:             0,
	Greater:             0,
	GreaterOrEqual:      0,
	Add:                 0,
	Subtract:            0,
	Minus:               0,
	ReadBoolean:         0,
	ReadInteger:         0,
	WriteBoolean:        0,
	WriteInteger:        0,
	Randomize:           0,
	Open:                0,
	Send:                0,
	Receive:             0,
	Assign:              1,
	Do:                  1,
	Goto:                1,
	Parallel:            1,
}

// Operands reports how many integer operands follow o in the code
// buffer.
func (o Op) Operands() int {
	n, ok := operandCounts[o]
	if !ok {
		return 0
	}
	return n
}
