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

import "sync"

// channelState is one channel's position in the Idle -> Sent -> Received
// -> Idle rendezvous cycle (spec §5's synchronous, unbuffered channel).
type channelState int

const (
	chanIdle channelState = iota
	chanSent
	chanReceived
)

// Channel is a single-slot synchronous rendezvous point, one per `open`
// instruction. Send blocks until the channel is Idle, deposits its value,
// then blocks again until a Receive has taken it. Receive blocks until a
// value has been Sent, takes it, and hands the channel back to Idle.
// Every transition happens under mu and is broadcast so waiters on
// either side notice it immediately, the monitor pattern spec §5
// requires ("broadcast on every state change suffices").
type Channel struct {
	mu    sync.Mutex
	cond  *sync.Cond
	state channelState
	value int64
}

func newChannel() *Channel {
	c := &Channel{}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// Send deposits v and blocks until a Receive has taken it. A node that
// blocks here forever (spec §5: "cancellation/timeout: none") is exactly
// the unpartnered-channel case the spec accepts; it does not poll the
// process error flag, matching "threads blocked inside a channel do not
// wake and are simply abandoned."
func (c *Channel) Send(v int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.state != chanIdle {
		c.cond.Wait()
	}
	c.value = v
	c.state = chanSent
	c.cond.Broadcast()
	for c.state != chanReceived {
		c.cond.Wait()
	}
	c.state = chanIdle
	c.cond.Broadcast()
}

// Receive blocks until a value has been Sent, then returns it.
func (c *Channel) Receive() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.state != chanSent {
		c.cond.Wait()
	}
	v := c.value
	c.state = chanReceived
	c.cond.Broadcast()
	return v
}

// ChannelRegistry is the shared, mutex-protected ordered list of open
// channels (spec §4.7). Index 0 is a reserved sentinel so that key 0
// (an uninitialized Channel-typed variable) is never mistaken for a
// real channel; Open appends and returns the new 1-based index.
type ChannelRegistry struct {
	mu       sync.Mutex
	channels []*Channel
}

func NewChannelRegistry() *ChannelRegistry {
	return &ChannelRegistry{channels: make([]*Channel, 1)}
}

// Open creates a new channel and returns its 1-based registry index.
func (r *ChannelRegistry) Open() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.channels = append(r.channels, newChannel())
	return int64(len(r.channels) - 1)
}

// Get resolves key against the registry, validating 1 <= key < length
// under the mutex per spec §4.7.
func (r *ChannelRegistry) Get(key int64) (*Channel, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if key < 1 || int(key) >= len(r.channels) {
		return nil, false
	}
	return r.channels[key], true
}
