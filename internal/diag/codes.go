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

// Package diag implements the Annotator (spec §4.2): error
// classification, the per-line dedup latch, and the numeric error
// taxonomy (spec §6.4, §7).
package diag

// Category is one of the five error classes a diagnostic is reported
// under.
type Category string

const (
	Syntax   Category = "Syntax"
	Scope    Category = "Scope"
	Kind     Category = "Kind"
	Type     Category = "Type"
	Internal Category = "Internal"
)

// Syntax errors are all one code: recovery, not classification, is what
// varies.
const CodeSyntaxError = 100

// Scope error categories.
const (
	CodeUndefinedName  = 201
	CodeAmbiguousName  = 202
)

// Kind error categories. 301-312 cover ordinary kind checks; 313-320 are
// the parallel-statement family (313 for a non-procedure target,
// 314-319 for the six friendliness requirements, 320 for parallel
// recursion, see DESIGN.md). 312, 320, 321, 322 are slots inside the
// taxonomy's declared range that this implementation does not emit.
const (
	CodeNotProcedure              = 301 // name used in a call position isn't a Procedure
	CodeBareProcedureAccess       = 302 // a Procedure name used as a value, not called
	CodeArrayRequiresIndex        = 303 // Array name accessed without an index
	CodeArgCountMismatch          = 304 // call argument count != parameter count
	CodeArgKindMismatch           = 305 // value vs reference kind mismatch on an argument
	CodeConstantAsReference       = 306 // a constant passed where a reference parameter is required
	CodeAssignToConstant          = 307 // assignment target is a constant
	CodeAssignCountMismatch       = 308 // LHS/RHS count mismatch in an assignment
	CodeTargetIsConstant          = 309 // read/randomize/receive target is a constant
	CodeArrayBoundNotPositive     = 310 // integer array bound <= 0
	CodeIndexOnNonArray           = 311 // "[...]" applied to a name that isn't an Array
	CodeParallelTargetNotProcedure = 313
	CodeParallelReturnNotVoid      = 314
	CodeParallelHasReferenceParam  = 315
	CodeParallelNoChannelParam     = 316
	CodeParallelUsesIO             = 317
	CodeParallelAccessesOuterScope = 318
	CodeParallelCallsUnfriendly    = 319
	CodeParallelSelfRecursion      = 320
)

// Type error categories, monadic form (no operator symbol embedded).
const (
	CodeConstantNegationRequiresInteger = 401
	CodeArrayBoundRequiresInteger       = 402
	CodeNotRequiresBoolean              = 403
	CodeUnaryMinusRequiresInteger       = 404
	CodeAssignTypeMismatch              = 405
	CodeReadTargetType                  = 406
	CodeWriteValueType                  = 407
	CodeRandomizeTargetType             = 408
	CodeOpenTargetType                  = 409
	CodeSendValueType                   = 410
	CodeSendChannelType                 = 411
	CodeReceiveValueType                = 412
	CodeReceiveChannelType              = 413
	CodeProcedureArgumentType           = 414
	CodeArrayIndexRequiresInteger       = 415
	CodeConditionRequiresBoolean        = 416 // if/while condition not Boolean
)

// Type error categories, diadic form (operator symbol embedded in the
// message). Grounded on spec §8 scenario 6.
const (
	CodeEqualityTypeMismatch      = 451 // == or != with mismatched operand types
	CodeOrOperandNotBoolean       = 452
	CodeAndOperandNotBoolean      = 453
	CodeRelationalLeftNotInteger  = 454 // <, <=, >, >= with a non-Integer left operand
	CodeRelationalRightNotInteger = 455 // <, <=, >, >= with a non-Integer right operand
	CodeAdditiveLeftNotInteger    = 456 // +, - with a non-Integer left operand
	CodeAdditiveRightNotInteger   = 457 // +, - with a non-Integer right operand
	CodeMultiplicativeLeftNotInteger  = 458 // *, /, %, ^ with a non-Integer left operand
	CodeMultiplicativeRightNotInteger = 459 // *, /, %, ^ with a non-Integer right operand
	CodeEqualityOperandIsVoid         = 460 // == or != with a Void-typed operand
)

// Internal errors indicate compiler bugs, not source errors.
const (
	CodeInvalidOpcodeDispatch     = 1
	CodeCodeBufferTooLarge        = 2
	CodeInconsistentParameterCount = 3
)

var messages = map[int]string{
	CodeSyntaxError: "syntax error",

	CodeUndefinedName: "undefined name",
	CodeAmbiguousName: "ambiguous name: already defined in this scope",

	CodeNotProcedure:               "not a procedure",
	CodeBareProcedureAccess:        "a procedure name cannot be used as a value",
	CodeArrayRequiresIndex:         "an array must be accessed with an index",
	CodeArgCountMismatch:           "argument count does not match parameter count",
	CodeArgKindMismatch:            "argument kind (value vs reference) does not match parameter",
	CodeConstantAsReference:        "a constant cannot be passed as a reference argument",
	CodeAssignToConstant:           "cannot assign to a constant",
	CodeAssignCountMismatch:        "assignment left- and right-hand sides have different counts",
	CodeTargetIsConstant:           "target cannot be a constant",
	CodeArrayBoundNotPositive:      "array upper bound must be a positive integer",
	CodeIndexOnNonArray:            "an index can only be applied to an array",
	CodeParallelTargetNotProcedure: "parallel target must be a procedure",
	CodeParallelReturnNotVoid:      "parallel-invoked procedure must not return a value",
	CodeParallelHasReferenceParam:  "parallel-invoked procedure must not have reference parameters",
	CodeParallelNoChannelParam:     "parallel-invoked procedure must have at least one channel parameter",
	CodeParallelUsesIO:             "parallel-invoked procedure must not perform I/O",
	CodeParallelAccessesOuterScope: "parallel-invoked procedure must not access any outer scope",
	CodeParallelCallsUnfriendly:    "parallel-invoked procedure must not call a parallel-unfriendly procedure",
	CodeParallelSelfRecursion:      "parallel-invoked procedure must not recursively invoke itself via parallel",

	CodeConstantNegationRequiresInteger: "negated constant must be an integer",
	CodeArrayBoundRequiresInteger:       "array upper bound must be an integer constant",
	CodeNotRequiresBoolean:              "operand of ! must be Boolean",
	CodeUnaryMinusRequiresInteger:       "operand of unary - must be Integer",
	CodeAssignTypeMismatch:              "assignment sides have mismatched types",
	CodeReadTargetType:                  "read target must be Boolean or Integer",
	CodeWriteValueType:                  "write value must be Boolean or Integer",
	CodeRandomizeTargetType:             "randomize target must be Integer",
	CodeOpenTargetType:                  "open target must be Channel",
	CodeSendValueType:                   "send value must be Integer",
	CodeSendChannelType:                 "send channel must be Channel",
	CodeReceiveValueType:                "receive value must be Integer",
	CodeReceiveChannelType:              "receive channel must be Channel",
	CodeProcedureArgumentType:           "argument type does not match parameter type",
	CodeArrayIndexRequiresInteger:       "array index must be Integer",
	CodeConditionRequiresBoolean:        "if/while condition must be Boolean",

	CodeInvalidOpcodeDispatch:      "internal error: invalid opcode dispatch target",
	CodeCodeBufferTooLarge:         "internal error: code buffer too large",
	CodeInconsistentParameterCount: "internal error: inconsistent parameter count",
}

// diadicMessages are format strings taking the operator symbol text.
var diadicMessages = map[int]string{
	CodeEqualityTypeMismatch:          "operands of %s have mismatched types",
	CodeOrOperandNotBoolean:           "operand of %s must be Boolean",
	CodeAndOperandNotBoolean:          "operand of %s must be Boolean",
	CodeRelationalLeftNotInteger:      "left operand of %s must be Integer",
	CodeRelationalRightNotInteger:     "right operand of %s must be Integer",
	CodeAdditiveLeftNotInteger:        "left operand of %s must be Integer",
	CodeAdditiveRightNotInteger:       "right operand of %s must be Integer",
	CodeMultiplicativeLeftNotInteger:  "left operand of %s must be Integer",
	CodeMultiplicativeRightNotInteger: "right operand of %s must be Integer",
	CodeEqualityOperandIsVoid:         "operand of %s cannot be Void",
}

func messageFor(code int) string {
	if m, ok := messages[code]; ok {
		return m
	}
	return "unknown diagnostic"
}
