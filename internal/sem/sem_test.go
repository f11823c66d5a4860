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

package sem

import "testing"

func check(t *testing.T, a1, a2 any) {
	if a1 != a2 {
		t.Errorf("%[1]v (a %[1]T) != %[2]v (a %[2]T)", a1, a2)
	}
}

func TestKindString(t *testing.T) {
	check(t, Undefined.String(), "Undefined")
	check(t, Procedure.String(), "Procedure")
	check(t, Kind(999).String(), "Kind(?)")
}

func TestTypeString(t *testing.T) {
	check(t, Universal.String(), "Universal")
	check(t, Void.String(), "Void")
	check(t, Type(999).String(), "Type(?)")
}

func TestIsParameter(t *testing.T) {
	check(t, ValueParameter.IsParameter(), true)
	check(t, ReferenceParameter.IsParameter(), true)
	// A return variable occupies a fixed positive displacement (B+3),
	// not a negative parameter slot, so it is not a parameter for
	// activation-record layout purposes even though it is passed in
	// the procedure's header syntax.
	check(t, ReturnParameter.IsParameter(), false)
	check(t, Variable.IsParameter(), false)
	check(t, Procedure.IsParameter(), false)
}
