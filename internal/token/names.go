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

import "github.com/josharian/intern"

// NameTable interns identifier spellings to small integer keys, shared
// by every Scanner reading the same compilation unit so that the same
// spelling always yields the same argument integer (spec §6.1: "Names
// share a single interning table").
type NameTable struct {
	indexes map[string]int
	names   []string
}

// NoName is a key Intern never hands out; Text maps it, like any other
// key that was never interned, to "".
const NoName = -1

func NewNameTable() *NameTable {
	return &NameTable{indexes: make(map[string]int, 64)}
}

// Intern returns the stable key for name, creating one if this is the
// first time this spelling has been seen. The spelling is interned via
// intern.String first so that repeated identical spellings collapse to
// one backing string even before they reach the table.
func (nt *NameTable) Intern(name string) int {
	name = intern.String(name)
	if id, ok := nt.indexes[name]; ok {
		return id
	}
	id := len(nt.names)
	nt.names = append(nt.names, name)
	nt.indexes[name] = id
	return id
}

// Text returns the spelling for a previously interned key, or "" if the
// key is out of range.
func (nt *NameTable) Text(id int) string {
	if id < 0 || id >= len(nt.names) {
		return ""
	}
	return nt.names[id]
}
