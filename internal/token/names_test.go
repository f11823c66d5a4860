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

package token

import "testing"

func TestInternAssignsStableKeys(t *testing.T) {
	nt := NewNameTable()
	a := nt.Intern("alpha")
	b := nt.Intern("beta")
	a2 := nt.Intern("alpha")
	check(t, a, a2)
	if a == b {
		t.Errorf("distinct names got the same key")
	}
}

func TestTextRoundTrips(t *testing.T) {
	nt := NewNameTable()
	id := nt.Intern("gamma")
	check(t, nt.Text(id), "gamma")
}

func TestTextOutOfRange(t *testing.T) {
	nt := NewNameTable()
	check(t, nt.Text(NoName), "")
	check(t, nt.Text(99), "")
}
