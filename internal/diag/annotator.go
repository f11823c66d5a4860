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

package diag

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/pdxjjb/y4lang/internal/sem"
)

// LineState is the subset of token.Scanner the Annotator needs for its
// per-line dedup latch. Kept as an interface so this package doesn't
// import token.
type LineState interface {
	LineNumber() int
	IsLineCorrect() bool
	SetLineIsIncorrect()
}

// Sink receives one formatted diagnostic per reported (non-suppressed)
// error.
type Sink interface {
	Report(line int, category Category, code int, message string)
}

// LogrusSink writes each diagnostic as a structured logrus entry, the
// way asm/parser.go's report() writes to stderr but with fields instead
// of a hand-formatted string.
type LogrusSink struct {
	Log *logrus.Logger
}

func NewLogrusSink(log *logrus.Logger) *LogrusSink {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &LogrusSink{Log: log}
}

func (s *LogrusSink) Report(line int, category Category, code int, message string) {
	s.Log.WithFields(logrus.Fields{
		"line":     line,
		"category": string(category),
		"code":     code,
	}).Error(message)
}

// Annotator is the single point through which every diagnostic in the
// compiler passes (spec §4.2): it classifies, deduplicates per source
// line, and aggregates. Mirrors asm/parser.go's report()/errorCount
// idiom, generalized to go-multierror instead of a bare counter so
// callers can retrieve the full list of reported errors, not just
// whether any occurred.
type Annotator struct {
	line      LineState
	sink      Sink
	errorFree bool
	errs      *multierror.Error
}

// New builds an Annotator. line supplies the current source line and
// its already-reported state (normally a *token.Scanner); sink receives
// each non-suppressed diagnostic.
func New(line LineState, sink Sink) *Annotator {
	return &Annotator{line: line, sink: sink, errorFree: true}
}

// ErrorFree reports whether every report call so far has been
// suppressed, i.e. whether the source compiled cleanly.
func (a *Annotator) ErrorFree() bool { return a.errorFree }

// Errors returns the aggregated diagnostics as a single error, or nil
// if none were reported (go-multierror's ErrorOrNil idiom).
func (a *Annotator) Errors() error { return a.errs.ErrorOrNil() }

// report flips the latch unconditionally (an error occurred) but only
// invokes the sink and appends to errs the first time on a given
// source line; later reports on the same line are silently suppressed,
// preventing a single bad token from producing a cascade of noise.
func (a *Annotator) report(category Category, code int, message string) {
	a.errorFree = false
	if a.line != nil && !a.line.IsLineCorrect() {
		return
	}
	if a.line != nil {
		a.line.SetLineIsIncorrect()
	}
	lineNo := 0
	if a.line != nil {
		lineNo = a.line.LineNumber()
	}
	if a.sink != nil {
		a.sink.Report(lineNo, category, code, message)
	}
	a.errs = multierror.Append(a.errs, fmt.Errorf("line %d: %s %d: %s", lineNo, category, code, message))
}

// SyntaxError reports the single syntax-error code (100). The parser
// calls this once per panic-mode recovery point; Expect/SyntaxCheck
// handle deciding when that is.
func (a *Annotator) SyntaxError() {
	a.report(Syntax, CodeSyntaxError, messageFor(CodeSyntaxError))
}

// ScopeError reports an undefined- or ambiguous-name diagnostic (201,
// 202).
func (a *Annotator) ScopeError(code int) {
	a.report(Scope, code, messageFor(code))
}

// KindError reports a kind-taxonomy diagnostic (301-320), suppressed
// when kind is sem.Undefined: an already-undefined name has already
// been reported once by ScopeError, and re-reporting every subsequent
// kind mismatch it causes would just be cascade noise.
func (a *Annotator) KindError(kind sem.Kind, code int) {
	if kind == sem.Undefined {
		a.errorFree = false
		return
	}
	a.report(Kind, code, messageFor(code))
}

// TypeError reports a monadic type-taxonomy diagnostic (401-416),
// suppressed when t is sem.Universal: Universal is the sentinel a
// previous type error already forced the expression to, so re-checking
// it would cascade.
func (a *Annotator) TypeError(t sem.Type, code int) {
	if t == sem.Universal {
		a.errorFree = false
		return
	}
	a.report(Type, code, messageFor(code))
}

// TypeErrorOp reports a diadic type-taxonomy diagnostic (451-460) with
// the operator's source text embedded in the message. Suppressed under
// the same Universal rule as TypeError.
func (a *Annotator) TypeErrorOp(t sem.Type, code int, operatorSymbol string) {
	if t == sem.Universal {
		a.errorFree = false
		return
	}
	format, ok := diadicMessages[code]
	if !ok {
		format = "type error involving %s"
	}
	a.report(Type, code, fmt.Sprintf(format, operatorSymbol))
}

// ParallelFriendlinessError reports one of the six parallel-statement
// friendliness diagnostics (314-319). Unlike an ordinary KindError,
// these bypass the per-line dedup latch: all six checks run against a
// single `parallel` statement without consuming any further tokens, so
// the scanner's current line never advances between them, and spec's
// own end-to-end scenario requires every applicable code to surface
// from that one statement rather than only the first.
func (a *Annotator) ParallelFriendlinessError(code int) {
	a.errorFree = false
	message := messageFor(code)
	lineNo := 0
	if a.line != nil {
		lineNo = a.line.LineNumber()
	}
	if a.sink != nil {
		a.sink.Report(lineNo, Kind, code, message)
	}
	a.errs = multierror.Append(a.errs, fmt.Errorf("line %d: %s %d: %s", lineNo, Kind, code, message))
}

// TypeErrorOpUnlatched is TypeErrorOp without the per-line dedup latch:
// used where a single operator occurrence can legitimately fail two
// distinct checks at once (`==`/`!=` with both a type mismatch and a
// Void operand) and both must reach the sink, not just whichever ran
// first. Still suppressed under the same Universal rule as TypeErrorOp,
// so it never reports against an already-erroneous operand.
func (a *Annotator) TypeErrorOpUnlatched(t sem.Type, code int, operatorSymbol string) {
	if t == sem.Universal {
		a.errorFree = false
		return
	}
	a.errorFree = false
	format, ok := diadicMessages[code]
	if !ok {
		format = "type error involving %s"
	}
	message := fmt.Sprintf(format, operatorSymbol)
	lineNo := 0
	if a.line != nil {
		lineNo = a.line.LineNumber()
	}
	if a.sink != nil {
		a.sink.Report(lineNo, Type, code, message)
	}
	a.errs = multierror.Append(a.errs, fmt.Errorf("line %d: %s %d: %s", lineNo, Type, code, message))
}

// InternalError reports a compiler-bug diagnostic (1-3). These are
// never suppressed by the per-line latch: an internal error is not a
// symptom of a bad source line, so it should never be silently
// swallowed because some earlier, unrelated error already fired on the
// current line.
func (a *Annotator) InternalError(code int) {
	a.errorFree = false
	message := messageFor(code)
	if a.sink != nil {
		a.sink.Report(0, Internal, code, message)
	}
	a.errs = multierror.Append(a.errs, fmt.Errorf("%s %d: %s", Internal, code, message))
}
