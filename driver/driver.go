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

// Package driver defines the contract of the vendor 802.15.4 radio driver
// that the platform layer binds to. The driver owns the link-layer state
// machine, CSMA/CCA, frame timing and energy detection; the platform layer
// only issues requests and consumes the driver's asynchronous completion
// callbacks.
package driver

import (
	"time"

	"github.com/openthread/ot-radiohal/types"
)

// RxBuffers is the number of receive frame buffers the driver hands out.
const RxBuffers = 16

// State is the driver's internal radio state.
type State uint8

const (
	StateSleep State = iota
	StateReceive
	StateTransmit
	StateCca
	StateContinuousCarrier
	StateEnergyDetection
	StateInvalid State = 255
)

func (s State) String() string {
	switch s {
	case StateSleep:
		return "sleep"
	case StateReceive:
		return "receive"
	case StateTransmit:
		return "transmit"
	case StateCca:
		return "cca"
	case StateContinuousCarrier:
		return "continuous-carrier"
	case StateEnergyDetection:
		return "energy-detection"
	default:
		return "INVALID"
	}
}

// RxError is the driver's reception failure reason.
type RxError uint8

const (
	RxErrorNone RxError = iota
	RxErrorInvalidFrame
	RxErrorInvalidFcs
	RxErrorInvalidDestAddr
	RxErrorRuntime
	RxErrorTimeslotEnded
	RxErrorAborted
	RxErrorDelayedTimeout
	RxErrorInvalidLength
)

// TxError is the driver's transmission failure reason.
type TxError uint8

const (
	TxErrorNone TxError = iota
	TxErrorBusyChannel
	TxErrorTimeslotEnded
	TxErrorAborted
	TxErrorTimeslotDenied
	TxErrorInvalidAck
	TxErrorNoAck
	TxErrorNoMem
)

// CcaConfig is the driver's clear-channel assessment configuration. The ED
// threshold is in the driver's raw units, not dBm; the platform layer does
// the conversion.
type CcaConfig struct {
	EdThreshold uint8
}

// ReceivedFrame is a frame (or ack) handed up by the driver. The driver
// retains ownership of Psdu until the consumer calls Driver.FreeBuffer.
type ReceivedFrame struct {
	Psdu      []byte
	Rssi      types.DbmValue
	Lqi       uint8
	Timestamp uint64 // us timestamp of frame end
}

// Handler receives the driver's asynchronous completion callbacks. Calls
// arrive on the driver's own goroutine, possibly back-to-back, but never
// concurrently with each other. They may run concurrently with any platform
// operation, so a Handler must not assume mutual exclusion with the
// processing routine.
type Handler interface {
	// OnReceivedFrame reports successful reception of a frame.
	OnReceivedFrame(frame ReceivedFrame)

	// OnReceiveFailed reports a reception fault.
	OnReceiveFailed(reason RxError)

	// OnTransmittedFrame reports a completed transmission; ack is nil when
	// no acknowledgement was requested.
	OnTransmittedFrame(ack *ReceivedFrame)

	// OnTransmitFailed reports a failed transmission.
	OnTransmitFailed(reason TxError)

	// OnEnergyDetected reports the result of an energy detection procedure,
	// already converted to dBm.
	OnEnergyDetected(maxRssi types.DbmValue)

	// OnTxAckStarted reports that the driver started transmitting an ack in
	// response to a received frame; ackPsdu may be modified in place before
	// it goes on air.
	OnTxAckStarted(ackPsdu []byte)

	// OnTxStarted reports that the frame transmission started; the PSDU may
	// still be patched in place (timestamps, security) before it goes on air.
	OnTxStarted(psdu []byte)
}

// Driver is the request side of the vendor radio driver. All methods are
// non-blocking; completion is reported through the Handler.
type Driver interface {
	// Init powers on the driver; callbacks will be delivered to handler.
	Init(handler Handler) error

	// Deinit stops the driver; no callbacks are delivered afterwards.
	Deinit()

	SetChannel(channel types.ChannelId)
	Channel() types.ChannelId

	SetTxPower(power types.DbmValue)
	TxPower() types.DbmValue

	// Addresses are given in little-endian on-air byte order.
	SetPanId(panid []byte)
	SetShortAddress(addr []byte)
	SetExtendedAddress(addr []byte)

	// Receive asks the driver to enter receive state. Returns false when the
	// driver cannot leave its current state.
	Receive() bool

	// SleepIfIdle enters sleep if the driver is idle; returns false when the
	// driver is mid-operation and the request must be retried.
	SleepIfIdle() bool

	// Transmit starts transmission of a raw PSDU. Returns false when channel
	// access failed immediately (CCA busy with csmaCa disabled).
	Transmit(psdu []byte, csmaCa bool, maxBackoffs uint8) bool

	// EnergyDetection starts an energy scan of the given duration on the
	// current channel. Returns false when the driver is not idle yet.
	EnergyDetection(duration time.Duration) bool

	// ContinuousCarrier starts an unmodulated carrier transmission, used by
	// factory diagnostics only.
	ContinuousCarrier() bool

	State() State

	// Rssi returns the last RSSI measurement on the current channel.
	Rssi() types.DbmValue

	CcaConfig() CcaConfig
	SetCcaConfig(cfg CcaConfig)

	SetPromiscuous(enable bool)
	Promiscuous() bool

	// Source-address match: controls the frame-pending bit in acks the
	// driver generates autonomously.
	SetAutoPendingBit(enable bool)
	SetPendingBitForAddr(addr []byte, extended bool) bool
	ClearPendingBitForAddr(addr []byte, extended bool) bool
	ResetPendingBits(extended bool)

	// FreeBuffer returns a received PSDU buffer to the driver's pool.
	FreeBuffer(psdu []byte)
}
