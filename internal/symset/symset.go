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

// Package symset implements SymbolSet (spec §4.1): an immutable,
// freely-composable set of terminal symbol kinds with O(1) membership,
// used throughout the parser as the STOP sets for panic-mode recovery.
package symset

import "github.com/pdxjjb/y4lang/internal/token"

// words is sized for the current token.Kind space; two uint64 words
// cover kinds 0..127, comfortably above the ~50 kinds this grammar uses.
const words = 2

// Set is a value type: copying a Set copies its bitmask, never a
// reference to shared mutable state. It is never mutated after
// construction; Union and Plus return new Sets.
type Set struct {
	bits [words]uint64
}

func bitFor(k token.Kind) (int, uint64) {
	i := int(k) / 64
	if i >= words {
		// Symbol kinds are a small fixed set; growing past the
		// reserved words would be a programming error, not a
		// runtime condition to recover from.
		panic("symset: token.Kind out of range")
	}
	return i, uint64(1) << uint(int(k)%64)
}

// Of builds a Set from an explicit list of symbol kinds.
func Of(kinds ...token.Kind) Set {
	var s Set
	for _, k := range kinds {
		i, b := bitFor(k)
		s.bits[i] |= b
	}
	return s
}

// Union returns the set containing every symbol in any of sets.
func Union(sets ...Set) Set {
	var s Set
	for _, o := range sets {
		for i := range s.bits {
			s.bits[i] |= o.bits[i]
		}
	}
	return s
}

// Union returns the set containing s's symbols plus every symbol in others.
func (s Set) Union(others ...Set) Set {
	return Union(append([]Set{s}, others...)...)
}

// Plus returns a new set containing s's symbols plus extra.
func (s Set) Plus(extra ...token.Kind) Set {
	result := s
	for _, k := range extra {
		i, b := bitFor(k)
		result.bits[i] |= b
	}
	return result
}

// Contains reports whether k is a member of s.
func (s Set) Contains(k token.Kind) bool {
	i, b := bitFor(k)
	return s.bits[i]&b != 0
}
