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

package pending

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingWaker struct {
	count int64
}

func (w *countingWaker) SignalPending() {
	atomic.AddInt64(&w.count, 1)
}

func (w *countingWaker) Count() int64 {
	return atomic.LoadInt64(&w.count)
}

var allEvents = []Event{EventSleep, EventFrameTransmitted, EventChannelAccessFailure,
	EventInvalidOrNoAck, EventReceiveFailed, EventEnergyDetectionStart, EventEnergyDetected}

func TestSetAndIsSet(t *testing.T) {
	w := &countingWaker{}
	s := NewEventSet(w)

	for _, evt := range allEvents {
		assert.False(t, s.IsSet(evt))
	}
	assert.False(t, s.IsAnySet())

	s.Set(EventFrameTransmitted)
	assert.True(t, s.IsSet(EventFrameTransmitted))
	assert.True(t, s.IsAnySet())
	assert.False(t, s.IsSet(EventSleep))
	assert.True(t, w.Count() == 1)

	// setting an already-set event still signals the waker
	s.Set(EventFrameTransmitted)
	assert.True(t, s.IsSet(EventFrameTransmitted))
	assert.True(t, w.Count() == 2)
}

func TestIsSetThenReset(t *testing.T) {
	s := NewEventSet(&countingWaker{})

	s.Set(EventReceiveFailed)
	assert.True(t, s.IsSet(EventReceiveFailed))
	s.Reset(EventReceiveFailed)
	assert.False(t, s.IsSet(EventReceiveFailed))
	assert.False(t, s.IsAnySet())

	// resetting a clear event is a no-op
	s.Reset(EventReceiveFailed)
	assert.False(t, s.IsSet(EventReceiveFailed))
}

func TestClearAllPreservesSleep(t *testing.T) {
	s := NewEventSet(&countingWaker{})

	for _, evt := range allEvents {
		s.Set(evt)
	}
	s.ClearAll()

	assert.True(t, s.IsSet(EventSleep))
	for _, evt := range allEvents {
		if evt == EventSleep {
			continue
		}
		assert.False(t, s.IsSet(evt), "event %v should be cleared", evt)
	}
}

func TestClearAllWithoutSleep(t *testing.T) {
	s := NewEventSet(&countingWaker{})

	s.Set(EventEnergyDetected)
	s.Set(EventChannelAccessFailure)
	s.ClearAll()
	assert.False(t, s.IsAnySet())
}

func TestClearEverything(t *testing.T) {
	s := NewEventSet(&countingWaker{})

	for _, evt := range allEvents {
		s.Set(evt)
	}
	s.ClearEverything()
	assert.False(t, s.IsAnySet())
}

func TestChanWakerIdempotent(t *testing.T) {
	w := NewChanWaker()
	for i := 0; i < 10; i++ {
		w.SignalPending()
	}

	select {
	case <-w.Chan():
	default:
		t.Fatal("expected a posted wake")
	}

	// all 10 signals collapsed into one
	select {
	case <-w.Chan():
		t.Fatal("expected no further wake")
	default:
	}
}

// TestConcurrentSetNoLostUpdates checks that interleaved Set calls on
// distinct events never clobber each other: every latched event is observed
// and cleared exactly once by the single consumer, in the long run.
func TestConcurrentSetNoLostUpdates(t *testing.T) {
	const perProducer = 10000

	w := NewChanWaker()
	s := NewEventSet(w)

	producerEvents := []Event{EventFrameTransmitted, EventChannelAccessFailure,
		EventInvalidOrNoAck, EventReceiveFailed, EventEnergyDetected}

	var setCounts [NumEvents]int64
	var seenCounts [NumEvents]int64
	var wg sync.WaitGroup

	for _, evt := range producerEvents {
		wg.Add(1)
		go func(evt Event) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				// wait until the consumer drained the previous latch, so every
				// Set corresponds to one logical occurrence (the producer/consumer
				// pairs are disjoint by construction, as in the radio layer).
				for s.IsSet(evt) {
					time.Sleep(time.Microsecond)
				}
				atomic.AddInt64(&setCounts[evt], 1)
				s.Set(evt)
			}
		}(evt)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	consume := func() {
		for _, evt := range producerEvents {
			if s.IsSet(evt) {
				s.Reset(evt)
				atomic.AddInt64(&seenCounts[evt], 1)
			}
		}
	}

loop:
	for {
		select {
		case <-w.Chan():
			consume()
		case <-done:
			break loop
		}
	}
	consume() // final drain

	for _, evt := range producerEvents {
		assert.Equal(t, setCounts[evt], seenCounts[evt], "event %v set/observed mismatch", evt)
	}
	assert.False(t, s.IsAnySet())
}

// TestConcurrentClearAllVsSleep checks ClearAll racing with producers never
// drops a sleep request.
func TestConcurrentClearAllVsSleep(t *testing.T) {
	s := NewEventSet(&countingWaker{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 10000; i++ {
			s.Set(EventReceiveFailed)
			s.Set(EventEnergyDetected)
		}
	}()

	s.Set(EventSleep)
	for i := 0; i < 10000; i++ {
		s.ClearAll()
		assert.True(t, s.IsSet(EventSleep))
	}
	wg.Wait()
}
