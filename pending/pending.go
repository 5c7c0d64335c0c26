// Copyright (c) 2026, The OpenThread Authors.
// All rights reserved.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions are met:
// 1. Redistributions of source code must retain the above copyright
//    notice, this list of conditions and the following disclaimer.
// 2. Redistributions in binary form must reproduce the above copyright
//    notice, this list of conditions and the following disclaimer in the
//    documentation and/or other materials provided with the distribution.
// 3. Neither the name of the copyright holder nor the
//    names of its contributors may be used to endorse or promote products
//    derived from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
// AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
// IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE
// ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE
// LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR
// CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF
// SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
// INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN
// CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE)
// ARISING IN ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE
// POSSIBILITY OF SUCH DAMAGE.

// Package pending implements the latched radio event flags that driver
// callbacks set and the radio processing routine consumes. Flags are kept
// in a single word manipulated with compare-and-swap retry loops, so a
// callback never blocks and never loses a concurrent writer's bit.
package pending

import (
	"fmt"
	"sync/atomic"
)

// Event identifies one latched radio condition. Each event has exactly one
// producer path (a driver callback or a radio operation) and is consumed by
// one processing-routine path.
type Event uint8

const (
	EventSleep                Event = iota // requested to enter Sleep state
	EventFrameTransmitted                  // transmitted frame and received ack (if requested)
	EventChannelAccessFailure              // failed to transmit frame (channel busy)
	EventInvalidOrNoAck                    // failed to transmit frame (invalid or no ack)
	EventReceiveFailed                     // failed to receive a valid frame
	EventEnergyDetectionStart              // requested to start energy detection
	EventEnergyDetected                    // energy detection finished

	eventCount
)

// NumEvents is the number of defined pending events.
const NumEvents = int(eventCount)

func (e Event) String() string {
	switch e {
	case EventSleep:
		return "sleep"
	case EventFrameTransmitted:
		return "frame-transmitted"
	case EventChannelAccessFailure:
		return "channel-access-failure"
	case EventInvalidOrNoAck:
		return "invalid-or-no-ack"
	case EventReceiveFailed:
		return "receive-failed"
	case EventEnergyDetectionStart:
		return "energy-detection-start"
	case EventEnergyDetected:
		return "energy-detected"
	default:
		return fmt.Sprintf("event-%d", uint8(e))
	}
}

// Waker is the "work pending" notification posted towards the outer
// scheduler loop whenever an event is latched. Posting must be idempotent
// and non-blocking; over-signaling is harmless.
type Waker interface {
	SignalPending()
}

// EventSet is a set of latched pending events shared between driver
// callback goroutines (producers) and a single processing routine (the
// consumer). The zero value is not usable; create with NewEventSet.
type EventSet struct {
	bits  uint32
	waker Waker
}

// NewEventSet creates an all-clear event set that posts to waker on Set.
func NewEventSet(waker Waker) *EventSet {
	return &EventSet{waker: waker}
}

// Set latches the event and signals the processing loop. Safe to call from
// any goroutine, concurrently with any other operation on the set.
func (s *EventSet) Set(evt Event) {
	bit := uint32(1) << evt
	for {
		old := atomic.LoadUint32(&s.bits)
		if old&bit == bit {
			break
		}
		if atomic.CompareAndSwapUint32(&s.bits, old, old|bit) {
			break
		}
	}

	s.waker.SignalPending()
}

// Reset clears the event. Called only from the processing routine.
func (s *EventSet) Reset(evt Event) {
	bit := uint32(1) << evt
	for {
		old := atomic.LoadUint32(&s.bits)
		if old&bit == 0 {
			break
		}
		if atomic.CompareAndSwapUint32(&s.bits, old, old&^bit) {
			break
		}
	}
}

// IsSet reports whether the event is currently latched. This is a plain
// load used as a fast-path check right before a Reset; the race where the
// bit changes in between is benign since the processing step re-validates
// with its own atomic operations where it matters.
func (s *EventSet) IsSet(evt Event) bool {
	return atomic.LoadUint32(&s.bits)&(uint32(1)<<evt) != 0
}

// IsAnySet reports whether any event is latched.
func (s *EventSet) IsAnySet() bool {
	return atomic.LoadUint32(&s.bits) != 0
}

// ClearAll clears every event except a possibly outstanding sleep request,
// in one retry loop. Used when a new receive/transmit/energy-scan operation
// starts, so stale completion events of a prior operation cannot be
// misattributed to the new one. The sleep request survives because it must
// keep being retried by the processing loop.
func (s *EventSet) ClearAll() {
	keep := uint32(1) << EventSleep
	for {
		old := atomic.LoadUint32(&s.bits)
		if old&^keep == 0 {
			break
		}
		if atomic.CompareAndSwapUint32(&s.bits, old, old&keep) {
			break
		}
	}
}

// ClearEverything clears all events including sleep. Used on radio
// disable/deinit only, when no processing pass will follow.
func (s *EventSet) ClearEverything() {
	atomic.StoreUint32(&s.bits, 0)
}
