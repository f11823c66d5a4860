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

package interp

import (
	"testing"
	"time"
)

func check(t *testing.T, a1, a2 any) {
	if a1 != a2 {
		t.Errorf("%[1]v (a %[1]T) != %[2]v (a %[2]T)", a1, a2)
	}
}

func TestChannelSendReceiveRendezvous(t *testing.T) {
	c := newChannel()
	done := make(chan int64, 1)
	go func() {
		done <- c.Receive()
	}()
	c.Send(42)
	select {
	case v := <-done:
		check(t, v, int64(42))
	case <-time.After(time.Second):
		t.Fatal("receive never completed")
	}
}

func TestChannelSendBlocksUntilReceived(t *testing.T) {
	c := newChannel()
	sent := make(chan struct{})
	go func() {
		c.Send(7)
		close(sent)
	}()

	select {
	case <-sent:
		t.Fatal("Send returned before a Receive took the value")
	case <-time.After(20 * time.Millisecond):
	}

	check(t, c.Receive(), int64(7))

	select {
	case <-sent:
	case <-time.After(time.Second):
		t.Fatal("Send never unblocked after Receive")
	}
}

func TestChannelRegistryOpenReturns1BasedIndexes(t *testing.T) {
	r := NewChannelRegistry()
	a := r.Open()
	b := r.Open()
	check(t, a, int64(1))
	check(t, b, int64(2))
}

func TestChannelRegistryGetValidatesRange(t *testing.T) {
	r := NewChannelRegistry()
	_, ok := r.Get(0)
	check(t, ok, false)

	key := r.Open()
	c, ok := r.Get(key)
	check(t, ok, true)
	if c == nil {
		t.Fatal("expected a non-nil channel")
	}

	_, ok = r.Get(key + 1)
	check(t, ok, false)
}
