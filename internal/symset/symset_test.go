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

package symset

import (
	"testing"

	"github.com/pdxjjb/y4lang/internal/token"
)

func check(t *testing.T, a1, a2 any) {
	if a1 != a2 {
		t.Errorf("%[1]v (a %[1]T) != %[2]v (a %[2]T)", a1, a2)
	}
}

func TestOfContains(t *testing.T) {
	s := Of(token.Integer, token.Boolean)
	check(t, s.Contains(token.Integer), true)
	check(t, s.Contains(token.Boolean), true)
	check(t, s.Contains(token.Channel), false)
}

func TestEmptySet(t *testing.T) {
	var s Set
	check(t, s.Contains(token.Integer), false)
}

func TestUnion(t *testing.T) {
	a := Of(token.Integer)
	b := Of(token.Boolean)
	u := Union(a, b)
	check(t, u.Contains(token.Integer), true)
	check(t, u.Contains(token.Boolean), true)
	check(t, u.Contains(token.Channel), false)

	// Original sets are untouched by Union.
	check(t, a.Contains(token.Boolean), false)
}

func TestSetUnionMethod(t *testing.T) {
	a := Of(token.Integer)
	b := Of(token.Boolean)
	c := Of(token.Channel)
	u := a.Union(b, c)
	check(t, u.Contains(token.Integer), true)
	check(t, u.Contains(token.Boolean), true)
	check(t, u.Contains(token.Channel), true)
}

func TestPlus(t *testing.T) {
	a := Of(token.Integer)
	b := a.Plus(token.Boolean, token.Channel)
	check(t, b.Contains(token.Integer), true)
	check(t, b.Contains(token.Boolean), true)
	check(t, b.Contains(token.Channel), true)

	// Plus does not mutate the receiver.
	check(t, a.Contains(token.Boolean), false)
}

func TestSetIsCopiedByValue(t *testing.T) {
	a := Of(token.Integer)
	b := a
	b = b.Plus(token.Boolean)
	check(t, a.Contains(token.Boolean), false)
	check(t, b.Contains(token.Boolean), true)
}
