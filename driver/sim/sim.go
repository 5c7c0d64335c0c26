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

// Package sim provides a simulated 802.15.4 driver for tests and the CLI
// tool. It models a single-peer channel with configurable CCA failure and
// ack loss probabilities; all handler callbacks are emitted from one
// internal goroutine, matching the single-callback-context contract of a
// real driver.
package sim

import (
	"math/rand"
	"sync"
	"time"

	"github.com/openthread/ot-radiohal/driver"
	"github.com/openthread/ot-radiohal/logger"
	"github.com/openthread/ot-radiohal/types"
)

// Driver is a simulated driver.Driver instance.
type Driver struct {
	cfg Config

	mu          sync.Mutex
	handler     driver.Handler
	state       driver.State
	channel     types.ChannelId
	txPower     types.DbmValue
	ccaCfg      driver.CcaConfig
	promiscuous bool

	panid     [2]byte
	shortAddr [2]byte
	extAddr   [8]byte

	autoPendingBit bool
	pendingShort   map[[2]byte]struct{}
	pendingExt     map[[8]byte]struct{}

	freeBufs [][]byte
	rnd      *rand.Rand

	jobs chan func()
	done chan struct{}
}

// New creates a stopped simulated driver with the given channel config.
// Init starts the callback goroutine.
func New(cfg Config) *Driver {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	d := &Driver{
		cfg:          cfg,
		state:        driver.StateInvalid,
		rnd:          rand.New(rand.NewSource(seed)),
		pendingShort: map[[2]byte]struct{}{},
		pendingExt:   map[[8]byte]struct{}{},
	}
	for i := 0; i < driver.RxBuffers; i++ {
		d.freeBufs = append(d.freeBufs, make([]byte, 0, types.FrameMaxSize))
	}
	return d
}

// Init implements driver.Driver.
func (d *Driver) Init(handler driver.Handler) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.handler = handler
	d.state = driver.StateSleep
	d.jobs = make(chan func(), 64)
	d.done = make(chan struct{})
	go d.runCallbacks()
	return nil
}

// Deinit implements driver.Driver. Pending callback jobs are dropped.
func (d *Driver) Deinit() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == driver.StateInvalid {
		return
	}
	d.state = driver.StateInvalid
	d.handler = nil
	close(d.done)
}

// runCallbacks is the callback goroutine: it serializes all handler
// callbacks the way a real driver's interrupt context does.
func (d *Driver) runCallbacks() {
	for {
		select {
		case job := <-d.jobs:
			job()
		case <-d.done:
			return
		}
	}
}

// schedule queues job for execution on the callback goroutine after delay.
func (d *Driver) schedule(delay time.Duration, job func()) {
	time.AfterFunc(delay, func() {
		select {
		case d.jobs <- job:
		case <-d.done:
		}
	})
}

// SetChannel implements driver.Driver.
func (d *Driver) SetChannel(channel types.ChannelId) {
	d.mu.Lock()
	d.channel = channel
	d.mu.Unlock()
}

// Channel implements driver.Driver.
func (d *Driver) Channel() types.ChannelId {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.channel
}

// SetTxPower implements driver.Driver.
func (d *Driver) SetTxPower(power types.DbmValue) {
	d.mu.Lock()
	d.txPower = power
	d.mu.Unlock()
}

// TxPower implements driver.Driver.
func (d *Driver) TxPower() types.DbmValue {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.txPower
}

// SetPanId implements driver.Driver. panid is little-endian on-air order.
func (d *Driver) SetPanId(panid []byte) {
	d.mu.Lock()
	copy(d.panid[:], panid)
	d.mu.Unlock()
}

// SetShortAddress implements driver.Driver. addr is little-endian.
func (d *Driver) SetShortAddress(addr []byte) {
	d.mu.Lock()
	copy(d.shortAddr[:], addr)
	d.mu.Unlock()
}

// SetExtendedAddress implements driver.Driver. addr is little-endian.
func (d *Driver) SetExtendedAddress(addr []byte) {
	d.mu.Lock()
	copy(d.extAddr[:], addr)
	d.mu.Unlock()
}

// Receive implements driver.Driver.
func (d *Driver) Receive() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch d.state {
	case driver.StateInvalid:
		return false
	case driver.StateTransmit, driver.StateCca, driver.StateEnergyDetection:
		// mid-operation; a real driver aborts, the simulation just flips
		fallthrough
	default:
		d.state = driver.StateReceive
		return true
	}
}

// SleepIfIdle implements driver.Driver: the request is refused while an
// operation is in progress.
func (d *Driver) SleepIfIdle() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch d.state {
	case driver.StateTransmit, driver.StateCca, driver.StateEnergyDetection:
		return false
	case driver.StateInvalid:
		return false
	default:
		d.state = driver.StateSleep
		return true
	}
}

// Transmit implements driver.Driver. With csmaCa the outcome always arrives
// as a callback; without it, a CCA failure is reported synchronously by
// returning false.
func (d *Driver) Transmit(psdu []byte, csmaCa bool, maxBackoffs uint8) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == driver.StateInvalid {
		return false
	}

	ccaFailed := d.rnd.Float64() < d.cfg.CcaFailureProb
	if ccaFailed && !csmaCa {
		// single CCA attempt, synchronous failure
		d.state = driver.StateReceive
		return false
	}

	d.state = driver.StateCca
	frame := append([]byte(nil), psdu...)
	ackRequested := len(frame) > types.AckRequestOffset &&
		frame[types.AckRequestOffset]&types.AckRequestBit != 0

	if !ccaFailed {
		d.schedule(0, func() {
			d.mu.Lock()
			handler := d.handler
			if handler != nil {
				d.state = driver.StateTransmit
			}
			d.mu.Unlock()
			if handler != nil {
				handler.OnTxStarted(frame)
			}
		})
	}
	delay := d.cfg.TxLatency
	if ackRequested && !ccaFailed {
		// peer turnaround before the ack comes back
		delay += defaultAckLatency
	}
	d.schedule(delay, func() {
		d.completeTransmit(frame, ackRequested, ccaFailed)
	})
	return true
}

// completeTransmit runs on the callback goroutine.
func (d *Driver) completeTransmit(psdu []byte, ackRequested bool, ccaFailed bool) {
	d.mu.Lock()
	handler := d.handler
	if handler == nil {
		d.mu.Unlock()
		return
	}
	d.state = driver.StateReceive

	switch {
	case ccaFailed:
		d.mu.Unlock()
		handler.OnTransmitFailed(driver.TxErrorBusyChannel)

	case !ackRequested:
		d.mu.Unlock()
		handler.OnTransmittedFrame(nil)

	case !d.cfg.AutoAck || d.rnd.Float64() < d.cfg.NoAckProb:
		d.mu.Unlock()
		handler.OnTransmitFailed(driver.TxErrorNoAck)

	default:
		ack := d.buildAckLocked(psdu)
		d.mu.Unlock()
		if ack == nil {
			handler.OnTransmitFailed(driver.TxErrorNoMem)
			return
		}
		handler.OnTransmittedFrame(ack)
	}
}

// buildAckLocked forges the peer's immediate ack for psdu, drawing its
// buffer from the rx pool. Returns nil when the pool is exhausted.
func (d *Driver) buildAckLocked(psdu []byte) *driver.ReceivedFrame {
	buf := d.takeBufLocked()
	if buf == nil {
		return nil
	}

	seq := byte(0)
	if len(psdu) > 2 {
		seq = psdu[2]
	}
	buf = append(buf, 0x02, 0x00, seq) // imm-ack FCF + DSN

	return &driver.ReceivedFrame{
		Psdu:      buf,
		Rssi:      d.jitteredRssiLocked(),
		Lqi:       255,
		Timestamp: uint64(time.Now().UnixNano() / 1000),
	}
}

// EnergyDetection implements driver.Driver: refused while not idle.
func (d *Driver) EnergyDetection(duration time.Duration) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch d.state {
	case driver.StateTransmit, driver.StateCca, driver.StateEnergyDetection,
		driver.StateInvalid:
		return false
	default:
	}

	d.state = driver.StateEnergyDetection
	d.schedule(duration, func() {
		d.mu.Lock()
		handler := d.handler
		if handler == nil {
			d.mu.Unlock()
			return
		}
		d.state = driver.StateReceive
		maxRssi := d.jitteredRssiLocked()
		d.mu.Unlock()
		handler.OnEnergyDetected(maxRssi)
	})
	return true
}

// ContinuousCarrier implements driver.Driver.
func (d *Driver) ContinuousCarrier() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == driver.StateInvalid {
		return false
	}
	d.state = driver.StateContinuousCarrier
	return true
}

// State implements driver.Driver.
func (d *Driver) State() driver.State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Rssi implements driver.Driver.
func (d *Driver) Rssi() types.DbmValue {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.jitteredRssiLocked()
}

func (d *Driver) jitteredRssiLocked() types.DbmValue {
	jitter := 0
	if d.cfg.NoiseRangeDb > 0 {
		jitter = d.rnd.Intn(int(d.cfg.NoiseRangeDb))
	}
	return d.cfg.NoiseFloorDbm + types.DbmValue(jitter)
}

// CcaConfig implements driver.Driver.
func (d *Driver) CcaConfig() driver.CcaConfig {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ccaCfg
}

// SetCcaConfig implements driver.Driver.
func (d *Driver) SetCcaConfig(cfg driver.CcaConfig) {
	d.mu.Lock()
	d.ccaCfg = cfg
	d.mu.Unlock()
}

// SetPromiscuous implements driver.Driver.
func (d *Driver) SetPromiscuous(enable bool) {
	d.mu.Lock()
	d.promiscuous = enable
	d.mu.Unlock()
}

// Promiscuous implements driver.Driver.
func (d *Driver) Promiscuous() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.promiscuous
}

// SetAutoPendingBit implements driver.Driver.
func (d *Driver) SetAutoPendingBit(enable bool) {
	d.mu.Lock()
	d.autoPendingBit = enable
	d.mu.Unlock()
}

// SetPendingBitForAddr implements driver.Driver.
func (d *Driver) SetPendingBitForAddr(addr []byte, extended bool) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if extended {
		var a [8]byte
		if copy(a[:], addr) != 8 {
			return false
		}
		d.pendingExt[a] = struct{}{}
	} else {
		var a [2]byte
		if copy(a[:], addr) != 2 {
			return false
		}
		d.pendingShort[a] = struct{}{}
	}
	return true
}

// ClearPendingBitForAddr implements driver.Driver.
func (d *Driver) ClearPendingBitForAddr(addr []byte, extended bool) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if extended {
		var a [8]byte
		copy(a[:], addr)
		if _, ok := d.pendingExt[a]; !ok {
			return false
		}
		delete(d.pendingExt, a)
	} else {
		var a [2]byte
		copy(a[:], addr)
		if _, ok := d.pendingShort[a]; !ok {
			return false
		}
		delete(d.pendingShort, a)
	}
	return true
}

// ResetPendingBits implements driver.Driver.
func (d *Driver) ResetPendingBits(extended bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if extended {
		d.pendingExt = map[[8]byte]struct{}{}
	} else {
		d.pendingShort = map[[2]byte]struct{}{}
	}
}

// FreeBuffer implements driver.Driver: returns an rx buffer to the pool.
func (d *Driver) FreeBuffer(psdu []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.freeBufs) >= driver.RxBuffers {
		logger.Panicf("sim driver buffer pool overflow, double free?")
	}
	d.freeBufs = append(d.freeBufs, psdu[:0])
}

func (d *Driver) takeBufLocked() []byte {
	if len(d.freeBufs) == 0 {
		return nil
	}
	buf := d.freeBufs[len(d.freeBufs)-1]
	d.freeBufs = d.freeBufs[:len(d.freeBufs)-1]
	return buf
}

// InjectFrame makes the simulated peer send a frame to this radio: it is
// filtered and delivered like an over-the-air reception. Used by tests and
// the CLI's listen mode.
func (d *Driver) InjectFrame(psdu []byte, rssi types.DbmValue) {
	d.mu.Lock()

	if d.state != driver.StateReceive || d.handler == nil {
		d.mu.Unlock()
		return
	}
	if len(psdu) < 3 || len(psdu) > types.FrameMaxSize {
		d.mu.Unlock()
		d.scheduleRxFailure(driver.RxErrorInvalidLength)
		return
	}

	buf := d.takeBufLocked()
	if buf == nil {
		d.mu.Unlock()
		d.scheduleRxFailure(driver.RxErrorRuntime)
		return
	}
	buf = append(buf, psdu...)

	ackRequested := buf[types.AckRequestOffset]&types.AckRequestBit != 0
	framePending := d.autoPendingBit && d.anyPendingLocked()
	d.mu.Unlock()

	frame := driver.ReceivedFrame{
		Psdu:      buf,
		Rssi:      rssi,
		Lqi:       lqiFromRssi(rssi),
		Timestamp: uint64(time.Now().UnixNano() / 1000),
	}

	d.schedule(0, func() {
		d.mu.Lock()
		handler := d.handler
		d.mu.Unlock()
		if handler == nil {
			return
		}
		if ackRequested {
			fcf1 := byte(0x02)
			if framePending {
				fcf1 |= types.FramePendingBit
			}
			handler.OnTxAckStarted([]byte{fcf1, 0x00, frame.Psdu[2]})
		}
		handler.OnReceivedFrame(frame)
	})
}

// InjectRxFailure makes the simulated channel report a reception failure.
func (d *Driver) InjectRxFailure(reason driver.RxError) {
	d.scheduleRxFailure(reason)
}

func (d *Driver) scheduleRxFailure(reason driver.RxError) {
	d.schedule(0, func() {
		d.mu.Lock()
		handler := d.handler
		d.mu.Unlock()
		if handler != nil {
			handler.OnReceiveFailed(reason)
		}
	})
}

func (d *Driver) anyPendingLocked() bool {
	return len(d.pendingShort) > 0 || len(d.pendingExt) > 0
}

// lqiFromRssi maps RSSI to a rough link quality indicator.
func lqiFromRssi(rssi types.DbmValue) uint8 {
	switch {
	case rssi >= -50:
		return 255
	case rssi <= -100:
		return 0
	default:
		return uint8((int(rssi) + 100) * 5)
	}
}
