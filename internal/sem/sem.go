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

// Package sem holds the semantic descriptor types shared by the auditor
// (scope/displacement bookkeeping) and the annotator (error taxonomy):
// Kind, Type, and the per-object Metadata record (spec §3).
package sem

// Kind is the role a named entity plays: constant, variable, array, one
// of the three parameter flavors, procedure, or Undefined (the
// placeholder kind synthesized for an unresolved name so that later
// checks can silently short-circuit instead of cascading).
type Kind int

const (
	Undefined Kind = iota
	Constant
	Variable
	Array
	ValueParameter
	ReferenceParameter
	ReturnParameter
	Procedure
)

func (k Kind) String() string {
	switch k {
	case Undefined:
		return "Undefined"
	case Constant:
		return "Constant"
	case Variable:
		return "Variable"
	case Array:
		return "Array"
	case ValueParameter:
		return "ValueParameter"
	case ReferenceParameter:
		return "ReferenceParameter"
	case ReturnParameter:
		return "ReturnParameter"
	case Procedure:
		return "Procedure"
	}
	return "Kind(?)"
}

// IsParameter reports whether k occupies a negative (parameter)
// displacement slot in an activation record.
func (k Kind) IsParameter() bool {
	return k == ValueParameter || k == ReferenceParameter
}

// Type is the sentinel Universal plus the three real types plus Void
// (the "no value" type of a procedure with no return variable).
// Universal matches any other type and suppresses further type errors
// once one operand is already erroneous.
type Type int

const (
	Universal Type = iota
	Boolean
	Integer
	Channel
	Void
)

func (t Type) String() string {
	switch t {
	case Universal:
		return "Universal"
	case Boolean:
		return "Boolean"
	case Integer:
		return "Integer"
	case Channel:
		return "Channel"
	case Void:
		return "Void"
	}
	return "Type(?)"
}

// ParameterRecord is one element of a procedure's signature.
type ParameterRecord struct {
	Type Type
	Kind Kind // ValueParameter or ReferenceParameter
}

// ProcedureRecord is the side table the parser mutates while parsing a
// procedure's body, tracking everything needed for the "parallel
// statement" friendliness analysis (spec §4.5).
type ProcedureRecord struct {
	UsesIO                  bool
	HighestScopeUsed        int // shallowest outer level touched, NoOuterScope if none
	CallsParallelUnfriendly bool
}

// NoOuterScope means "this procedure never accessed anything above its
// own enclosing level."
const NoOuterScope = -1

// NoLabel marks a procedure metadata whose entry address is not yet
// known (label resolved after the header is parsed, before the body).
const NoLabel = -1

// Metadata is the semantic descriptor attached to one ObjectRecord
// (spec §3). It is copied by value, as the spec requires.
type Metadata struct {
	Kind         Kind
	Type         Type
	Value        int // compile-time value, for Constant
	UpperBound   int // for Array
	Level        int
	Displacement int
	Label        int              // procedure entry address, for Procedure
	Params       []ParameterRecord // for Procedure
	ReturnType   Type              // for Procedure: Void if no return variable
	Proc         *ProcedureRecord  // for Procedure: parallel-friendliness side table
}
