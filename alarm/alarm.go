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

// Package alarm implements the millisecond one-shot platform alarm. Expiry
// only latches a fired flag and posts a wake; the handler runs from the
// consumer's Process call, never from the timer goroutine.
package alarm

import (
	"sync"
	"time"

	"github.com/openthread/ot-radiohal/pending"
)

// Alarm is a one-shot millisecond alarm. Now wraps around at 2^32 ms like
// the 32-bit tick counter it stands in for.
type Alarm struct {
	waker   pending.Waker
	handler func()
	origin  time.Time

	mu    sync.Mutex
	timer *time.Timer
	fired bool
}

// New creates a stopped alarm. handler is invoked from Process after the
// alarm expires.
func New(waker pending.Waker, handler func()) *Alarm {
	return &Alarm{
		waker:   waker,
		handler: handler,
		origin:  time.Now(),
	}
}

// Now returns the current alarm time in ms, wrapping at 2^32.
func (a *Alarm) Now() uint32 {
	return uint32(time.Since(a.origin) / time.Millisecond)
}

// StartAt arms the alarm to fire at t0+dt ms, replacing any armed alarm.
// A target at or before Now fires right away. The uint32 arithmetic makes
// targets up to 2^31 ms in the future work across the wrap.
func (a *Alarm) StartAt(t0 uint32, dt uint32) {
	target := t0 + dt
	remaining := int32(target - a.Now())

	a.mu.Lock()
	defer a.mu.Unlock()

	a.stopLocked()

	if remaining <= 0 {
		a.fired = true
		a.waker.SignalPending()
		return
	}

	a.timer = time.AfterFunc(time.Duration(remaining)*time.Millisecond, func() {
		a.mu.Lock()
		a.fired = true
		a.mu.Unlock()
		a.waker.SignalPending()
	})
}

// Stop disarms the alarm and drops a not-yet-processed expiry.
func (a *Alarm) Stop() {
	a.mu.Lock()
	a.stopLocked()
	a.fired = false
	a.mu.Unlock()
}

func (a *Alarm) stopLocked() {
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

// Process invokes the handler if the alarm has expired since the last call.
// Must be called from the single consumer goroutine.
func (a *Alarm) Process() {
	a.mu.Lock()
	fired := a.fired
	a.fired = false
	a.mu.Unlock()

	if fired && a.handler != nil {
		a.handler()
	}
}
