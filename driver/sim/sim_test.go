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

package sim

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/openthread/ot-radiohal/driver"
	"github.com/openthread/ot-radiohal/types"
)

type handlerEvent struct {
	kind   string
	frame  driver.ReceivedFrame
	ack    *driver.ReceivedFrame
	rxErr  driver.RxError
	txErr  driver.TxError
	rssi   types.DbmValue
	ackFcf byte
}

// chanHandler forwards driver callbacks to a channel so tests can wait for
// them with a timeout.
type chanHandler struct {
	events chan handlerEvent
}

func newChanHandler() *chanHandler {
	return &chanHandler{events: make(chan handlerEvent, 32)}
}

func (h *chanHandler) OnReceivedFrame(frame driver.ReceivedFrame) {
	h.events <- handlerEvent{kind: "rx", frame: frame}
}

func (h *chanHandler) OnReceiveFailed(reason driver.RxError) {
	h.events <- handlerEvent{kind: "rx-failed", rxErr: reason}
}

func (h *chanHandler) OnTransmittedFrame(ack *driver.ReceivedFrame) {
	h.events <- handlerEvent{kind: "tx-done", ack: ack}
}

func (h *chanHandler) OnTransmitFailed(reason driver.TxError) {
	h.events <- handlerEvent{kind: "tx-failed", txErr: reason}
}

func (h *chanHandler) OnEnergyDetected(maxRssi types.DbmValue) {
	h.events <- handlerEvent{kind: "energy", rssi: maxRssi}
}

func (h *chanHandler) OnTxAckStarted(ackPsdu []byte) {
	h.events <- handlerEvent{kind: "ack-started", ackFcf: ackPsdu[0]}
}

func (h *chanHandler) OnTxStarted(psdu []byte) {
	h.events <- handlerEvent{kind: "tx-started"}
}

func (h *chanHandler) next(t *testing.T) handlerEvent {
	select {
	case ev := <-h.events:
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for driver callback")
		return handlerEvent{}
	}
}

func newTestDriver(t *testing.T, cfg Config) (*Driver, *chanHandler) {
	cfg.Seed = 1
	cfg.TxLatency = time.Millisecond
	d := New(cfg)
	h := newChanHandler()
	assert.Nil(t, d.Init(h))
	t.Cleanup(d.Deinit)
	return d, h
}

func TestTransmitWithAutoAck(t *testing.T) {
	d, h := newTestDriver(t, DefaultConfig())

	psdu := []byte{0x61, 0x88, 0x33, 0xcd, 0xab}
	assert.True(t, d.Transmit(psdu, true, 4))

	assert.Equal(t, "tx-started", h.next(t).kind)
	ev := h.next(t)
	assert.Equal(t, "tx-done", ev.kind)
	assert.NotNil(t, ev.ack)
	assert.Equal(t, byte(0x02), ev.ack.Psdu[0])
	assert.Equal(t, byte(0x33), ev.ack.Psdu[2]) // DSN echoed
	assert.Equal(t, driver.StateReceive, d.State())

	d.FreeBuffer(ev.ack.Psdu)
}

func TestTransmitAckTurnaround(t *testing.T) {
	d, h := newTestDriver(t, DefaultConfig())

	start := time.Now()
	assert.True(t, d.Transmit([]byte{0x61, 0x88, 0x44, 0xcd, 0xab}, true, 4))
	assert.Equal(t, "tx-started", h.next(t).kind)
	ev := h.next(t)
	assert.Equal(t, "tx-done", ev.kind)
	assert.NotNil(t, ev.ack)
	assert.True(t, time.Since(start) >= time.Millisecond+defaultAckLatency)

	d.FreeBuffer(ev.ack.Psdu)
}

func TestTransmitNoAckRequested(t *testing.T) {
	d, h := newTestDriver(t, DefaultConfig())

	assert.True(t, d.Transmit([]byte{0x41, 0x88, 0x01}, true, 4))
	assert.Equal(t, "tx-started", h.next(t).kind)
	ev := h.next(t)
	assert.Equal(t, "tx-done", ev.kind)
	assert.Nil(t, ev.ack)
}

func TestTransmitAckLost(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NoAckProb = 1.0
	d, h := newTestDriver(t, cfg)

	assert.True(t, d.Transmit([]byte{0x61, 0x88, 0x01}, true, 4))
	assert.Equal(t, "tx-started", h.next(t).kind)
	ev := h.next(t)
	assert.Equal(t, "tx-failed", ev.kind)
	assert.Equal(t, driver.TxErrorNoAck, ev.txErr)
}

func TestTransmitCcaFailure(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CcaFailureProb = 1.0
	d, h := newTestDriver(t, cfg)

	// without CSMA/CA the failure is synchronous
	assert.False(t, d.Transmit([]byte{0x41, 0x88, 0x01}, false, 0))

	// with CSMA/CA it arrives as a callback
	assert.True(t, d.Transmit([]byte{0x41, 0x88, 0x01}, true, 4))
	ev := h.next(t)
	assert.Equal(t, "tx-failed", ev.kind)
	assert.Equal(t, driver.TxErrorBusyChannel, ev.txErr)
}

func TestEnergyDetection(t *testing.T) {
	d, h := newTestDriver(t, DefaultConfig())

	assert.True(t, d.EnergyDetection(50*time.Millisecond))
	assert.Equal(t, driver.StateEnergyDetection, d.State())

	// not idle: a second start and a sleep request are both refused
	assert.False(t, d.EnergyDetection(time.Millisecond))
	assert.False(t, d.SleepIfIdle())

	ev := h.next(t)
	assert.Equal(t, "energy", ev.kind)
	assert.True(t, ev.rssi >= defaultNoiseFloorDbm)
	assert.Equal(t, driver.StateReceive, d.State())
	assert.True(t, d.SleepIfIdle())
}

func TestInjectFrameDelivery(t *testing.T) {
	d, h := newTestDriver(t, DefaultConfig())
	assert.True(t, d.Receive())

	psdu := []byte{0x41, 0x88, 0x10, 0xfe, 0xca}
	d.InjectFrame(psdu, -47)

	ev := h.next(t)
	assert.Equal(t, "rx", ev.kind)
	assert.Equal(t, psdu, ev.frame.Psdu)
	assert.Equal(t, types.DbmValue(-47), ev.frame.Rssi)
	assert.Equal(t, uint8(255), ev.frame.Lqi)

	d.FreeBuffer(ev.frame.Psdu)
}

func TestInjectFrameAckedWithPendingBit(t *testing.T) {
	d, h := newTestDriver(t, DefaultConfig())
	assert.True(t, d.Receive())

	d.SetAutoPendingBit(true)
	assert.True(t, d.SetPendingBitForAddr([]byte{0x34, 0x12}, false))

	d.InjectFrame([]byte{0x61, 0x88, 0x20}, -60) // AR set

	ev := h.next(t)
	assert.Equal(t, "ack-started", ev.kind)
	assert.NotZero(t, ev.ackFcf&types.FramePendingBit)

	ev = h.next(t)
	assert.Equal(t, "rx", ev.kind)
	d.FreeBuffer(ev.frame.Psdu)

	assert.True(t, d.ClearPendingBitForAddr([]byte{0x34, 0x12}, false))
	assert.False(t, d.ClearPendingBitForAddr([]byte{0x34, 0x12}, false))
}

func TestInjectFrameIgnoredWhileAsleep(t *testing.T) {
	d, h := newTestDriver(t, DefaultConfig())
	assert.True(t, d.SleepIfIdle())

	d.InjectFrame([]byte{0x41, 0x88, 0x01}, -50)

	select {
	case ev := <-h.events:
		t.Fatalf("unexpected callback %s while asleep", ev.kind)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestInjectInvalidLength(t *testing.T) {
	d, h := newTestDriver(t, DefaultConfig())
	assert.True(t, d.Receive())

	d.InjectFrame([]byte{0x41}, -50)

	ev := h.next(t)
	assert.Equal(t, "rx-failed", ev.kind)
	assert.Equal(t, driver.RxErrorInvalidLength, ev.rxErr)
}

func TestResetPendingBits(t *testing.T) {
	d, _ := newTestDriver(t, DefaultConfig())

	ext := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	assert.True(t, d.SetPendingBitForAddr(ext, true))
	assert.True(t, d.SetPendingBitForAddr([]byte{0xaa, 0xbb}, false))

	d.ResetPendingBits(true)
	assert.False(t, d.ClearPendingBitForAddr(ext, true))
	assert.True(t, d.ClearPendingBitForAddr([]byte{0xaa, 0xbb}, false))
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "channel.yaml")
	data := []byte("cca-failure-prob: 0.25\nnoise-floor-dbm: -88\nauto-ack: false\n")
	assert.Nil(t, os.WriteFile(path, data, 0o644))

	cfg, err := LoadConfig(path)
	assert.Nil(t, err)
	assert.Equal(t, 0.25, cfg.CcaFailureProb)
	assert.Equal(t, types.DbmValue(-88), cfg.NoiseFloorDbm)
	assert.False(t, cfg.AutoAck)
	// defaults preserved for absent keys
	assert.Equal(t, uint8(6), cfg.NoiseRangeDb)
}

func TestLoadConfigRejectsBadProbability(t *testing.T) {
	path := filepath.Join(t.TempDir(), "channel.yaml")
	assert.Nil(t, os.WriteFile(path, []byte("no-ack-prob: 1.5\n"), 0o644))

	_, err := LoadConfig(path)
	assert.NotNil(t, err)
}
