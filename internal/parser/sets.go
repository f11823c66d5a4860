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

package parser

import (
	"github.com/pdxjjb/y4lang/internal/symset"
	"github.com/pdxjjb/y4lang/internal/token"
)

// These are the grammar's FIRST sets, named after the nonterminal they
// start. Every recursive-descent entry point composes its caller's stop
// set with one of these (or a small extension of one) before recursing,
// so panic-mode recovery never eats a symbol an outer caller needed.
var (
	firstTypeSymbol = symset.Of(token.Integer, token.Boolean, token.Channel)

	firstDefinition = symset.Of(token.Constant).
				Plus(token.Integer, token.Boolean, token.Channel, token.Procedure)

	firstStatement = symset.Of(token.Read, token.Randomize, token.Open, token.Write,
		token.Send, token.Receive, token.Parallel, token.Name, token.If, token.While)

	firstFactor = symset.Of(token.Numeral, token.True, token.False, token.Name,
		token.LeftParanthesis, token.Not)

	firstSimpleExpr = firstFactor.Plus(token.Minus)
	firstExpression = firstSimpleExpr

	followDefinitionPart = firstStatement.Plus(token.End)
	followStatementPart  = symset.Of(token.End)
	followBlock          = symset.Of(token.SemiColon, token.End, token.Else)
)
