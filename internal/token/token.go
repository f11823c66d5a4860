/*
Copyright © 2022 Jeff Berkowitz (pdxjjb@gmail.com)

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

// Package token is the scanner contract consumed by the parser. Only the
// interface is part of the core toolchain (the lexical scanner itself is
// an external collaborator); this package ships a conforming
// implementation so the parser has something real to run against.
package token

import "fmt"

// Kind is a terminal symbol kind, the N.B. in asm/lexer.go's commentary
// about Go's lack of checked enums applies here too, but token kinds are
// few and fixed, so a plain int-backed type is enough.
type Kind int

const (
	Unknown Kind = iota
	EndOfText

	// keywords
	Boolean
	Channel
	Constant
	Else
	False
	If
	Integer
	Open
	Parallel
	Procedure
	Randomize
	Read
	Receive
	Reference
	Send
	True
	While
	Write

	// punctuation / operators
	And
	Becomes
	Begin // {
	Comma
	Divide
	End // }
	Equal
	Greater
	GreaterOrEqual
	LeftBracket
	LeftParanthesis
	Less
	LessOrEqual
	Minus
	Modulo
	Multiply
	Not
	NotEqual
	Or
	Plus
	Power
	RightBracket
	RightParanthesis
	SemiColon
	Through // ->

	// literals / identifiers
	Name
	Numeral
	IntegerOutOfBounds
)

var kindNames = map[Kind]string{
	Unknown:             "Unknown",
	EndOfText:           "EndOfText",
	Boolean:             "boolean",
	Channel:             "channel",
	Constant:            "constant",
	Else:                "else",
	False:               "false",
	If:                  "if",
	Integer:             "integer",
	Open:                "open",
	Parallel:            "parallel",
	Procedure:           "@",
	Randomize:           "randomize",
	Read:                "read",
	Receive:             "receive",
	Reference:           "reference",
	Send:                "send",
	True:                "true",
	While:               "while",
	Write:               "write",
	And:                 "&",
	Becomes:             "=",
	Begin:               "{",
	Comma:               ",",
	Divide:              "/",
	End:                 "}",
	Equal:               "==",
	Greater:             ">",
	GreaterOrEqual:      ">=",
	LeftBracket:         "[",
	LeftParanthesis:     "(",
	Less:                "<",
	LessOrEqual:         "<=",
	Minus:               "-",
	Modulo:              "%",
	Multiply:            "*",
	Not:                 "!",
	NotEqual:            "!=",
	Or:                  "|",
	Plus:                "+",
	Power:               "^",
	RightBracket:        "]",
	RightParanthesis:    ")",
	SemiColon:           ";",
	Through:             "->",
	Name:                "Name",
	Numeral:             "Numeral",
	IntegerOutOfBounds:  "IntegerOutOfBounds",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Keywords maps the reserved-word spellings to their kind. Any Name that
// matches a keyword spelling is returned as the keyword kind instead.
var Keywords = map[string]Kind{
	"boolean":   Boolean,
	"channel":   Channel,
	"constant":  Constant,
	"else":      Else,
	"false":     False,
	"if":        If,
	"integer":   Integer,
	"open":      Open,
	"parallel":  Parallel,
	"randomize": Randomize,
	"read":      Read,
	"receive":   Receive,
	"reference": Reference,
	"send":      Send,
	"true":      True,
	"while":     While,
	"write":     Write,
}
