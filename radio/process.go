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

package radio

import (
	"sync/atomic"

	"github.com/openthread/ot-radiohal/driver"
	"github.com/openthread/ot-radiohal/logger"
	"github.com/openthread/ot-radiohal/pending"
	"github.com/openthread/ot-radiohal/types"
)

// Process consumes all latched events in fixed priority order and invokes
// the corresponding upward callbacks, exactly once per latched event. It is
// the single consumer: it must never be re-entered or run concurrently with
// itself. Conditions that cannot be satisfied yet (sleep while the driver
// is mid-operation, energy-detection start while not idle) are left latched
// and the wake signal is re-posted.
func (r *Radio) Process() {
	isEventPending := false

	r.drainRxSlots(r.cb)

	if r.events.IsSet(pending.EventFrameTransmitted) {
		r.events.Reset(pending.EventFrameTransmitted)

		var ackPtr *types.RadioFrame
		if r.ackFrame.Psdu != nil {
			ackPtr = &r.ackFrame
		}
		r.cb.TransmitDone(&r.txFrame, ackPtr, types.ErrorNone)

		if r.ackFrame.Psdu != nil {
			r.drv.FreeBuffer(r.ackFrame.Psdu)
			r.ackFrame.Psdu = nil
		}
	}

	if r.events.IsSet(pending.EventChannelAccessFailure) {
		r.events.Reset(pending.EventChannelAccessFailure)
		r.cb.TransmitDone(&r.txFrame, nil, types.ErrorChannelAccessFailure)
	}

	if r.events.IsSet(pending.EventInvalidOrNoAck) {
		r.events.Reset(pending.EventInvalidOrNoAck)
		r.cb.TransmitDone(&r.txFrame, nil, types.ErrorNoAck)
	}

	if r.events.IsSet(pending.EventReceiveFailed) {
		r.events.Reset(pending.EventReceiveFailed)
		r.cb.ReceiveDone(nil, r.receiveError)
	}

	if r.events.IsSet(pending.EventEnergyDetected) {
		r.events.Reset(pending.EventEnergyDetected)
		r.cb.EnergyScanDone(r.energyDetected)
	}

	if r.events.IsSet(pending.EventSleep) {
		if r.drv.SleepIfIdle() {
			r.events.Reset(pending.EventSleep)
		} else {
			isEventPending = true
		}
	}

	if r.events.IsSet(pending.EventEnergyDetectionStart) {
		r.drv.SetChannel(r.energyDetectionChannel)

		if r.drv.EnergyDetection(r.energyDetectionTime) {
			r.events.Reset(pending.EventEnergyDetectionStart)
		} else {
			isEventPending = true
		}
	}

	if isEventPending {
		r.waker.SignalPending()
	}
}

// drainRxSlots hands every ready rx frame slot up to cb (skipped when nil)
// and returns the buffers to the driver.
func (r *Radio) drainRxSlots(cb Callbacks) {
	for i := range r.rxFrames {
		if atomic.LoadUint32(&r.rxSlotState[i]) != slotReady {
			continue
		}

		if cb != nil {
			cb.ReceiveDone(&r.rxFrames[i], types.ErrorNone)
		}

		r.drv.FreeBuffer(r.rxFrames[i].Psdu)
		r.rxFrames[i].Reset()
		atomic.StoreUint32(&r.rxSlotState[i], slotFree)
	}
}

// Driver callbacks below run on the driver's goroutine. Auxiliary state is
// fully staged before the pending event is latched; the event set's atomic
// operations make it visible to the next Process pass.

// OnReceivedFrame implements driver.Handler.
func (r *Radio) OnReceivedFrame(frame driver.ReceivedFrame) {
	var slot *types.RadioFrame
	idx := -1

	for i := range r.rxFrames {
		if atomic.LoadUint32(&r.rxSlotState[i]) == slotFree {
			slot = &r.rxFrames[i]
			idx = i
			break
		}
	}

	if slot == nil {
		logger.Panicf("radio rx frame pool exhausted (%d buffers)", driver.RxBuffers)
		return
	}

	slot.Reset()
	slot.Psdu = frame.Psdu
	slot.Channel = r.drv.Channel()
	slot.RxInfo.Rssi = frame.Rssi
	slot.RxInfo.Lqi = frame.Lqi
	slot.RxInfo.Timestamp = frame.Timestamp

	// Inform if this frame was acknowledged with frame pending set.
	if slot.HasAckRequest() {
		slot.RxInfo.AckedWithFramePending = r.ackedWithFramePending
	}
	r.ackedWithFramePending = false

	if slot.HasAckRequest() {
		slot.RxInfo.AckedWithSecEnhAck = r.ackedWithSecEnhAck
	}
	r.ackedWithSecEnhAck = false

	atomic.StoreUint32(&r.rxSlotState[idx], slotReady)
	r.waker.SignalPending()
}

// OnReceiveFailed implements driver.Handler.
func (r *Radio) OnReceiveFailed(reason driver.RxError) {
	switch reason {
	case driver.RxErrorInvalidFrame, driver.RxErrorDelayedTimeout:
		r.receiveError = types.ErrorNoFrameReceived
	case driver.RxErrorInvalidFcs:
		r.receiveError = types.ErrorFcs
	case driver.RxErrorInvalidDestAddr:
		r.receiveError = types.ErrorDestinationAddressFiltered
	case driver.RxErrorRuntime, driver.RxErrorTimeslotEnded, driver.RxErrorAborted,
		driver.RxErrorInvalidLength:
		r.receiveError = types.ErrorFailed
	default:
		logger.Panicf("driver reported unknown rx error %d", reason)
		return
	}

	r.ackedWithFramePending = false
	r.ackedWithSecEnhAck = false

	if reason == driver.RxErrorDelayedTimeout || reason == driver.RxErrorTimeslotEnded {
		// The receive window simply ran out; go back to sleep rather than
		// reporting a failure upward.
		r.receiveError = types.ErrorNone
		r.events.Set(pending.EventSleep)
	} else {
		r.events.Set(pending.EventReceiveFailed)
	}
}

// OnTransmittedFrame implements driver.Handler.
func (r *Radio) OnTransmittedFrame(ack *driver.ReceivedFrame) {
	if ack == nil {
		r.ackFrame.Psdu = nil
	} else {
		r.ackFrame.Psdu = ack.Psdu
		r.ackFrame.Channel = r.drv.Channel()
		r.ackFrame.RxInfo.Rssi = ack.Rssi
		r.ackFrame.RxInfo.Lqi = ack.Lqi
		r.ackFrame.RxInfo.Timestamp = ack.Timestamp
	}

	r.events.Set(pending.EventFrameTransmitted)
}

// OnTransmitFailed implements driver.Handler.
func (r *Radio) OnTransmitFailed(reason driver.TxError) {
	switch reason {
	case driver.TxErrorBusyChannel, driver.TxErrorTimeslotEnded,
		driver.TxErrorAborted, driver.TxErrorTimeslotDenied:
		r.events.Set(pending.EventChannelAccessFailure)

	case driver.TxErrorInvalidAck, driver.TxErrorNoAck, driver.TxErrorNoMem:
		r.events.Set(pending.EventInvalidOrNoAck)

	default:
		logger.Panicf("driver reported unknown tx error %d", reason)
	}
}

// OnEnergyDetected implements driver.Handler.
func (r *Radio) OnEnergyDetected(maxRssi types.DbmValue) {
	r.energyDetected = maxRssi
	r.events.Set(pending.EventEnergyDetected)
}

// OnTxAckStarted implements driver.Handler.
func (r *Radio) OnTxAckStarted(ackPsdu []byte) {
	// Record whether the frame pending bit is set in the outgoing ack.
	r.ackedWithFramePending = len(ackPsdu) > types.FramePendingOffset &&
		ackPsdu[types.FramePendingOffset]&types.FramePendingBit != 0
}

// OnTxStarted implements driver.Handler.
func (r *Radio) OnTxStarted(psdu []byte) {
	// Assign the frame counter of a secured, first-attempt transmit frame
	// at tx-started time so retransmissions reuse the same counter.
	if !r.txFrame.HasSecurityEnabled() || r.txFrame.TxInfo.IsARetx ||
		r.txFrame.TxInfo.IsSecurityProcessed {
		return
	}

	r.keyLock.Lock()
	r.macFrameCounter++
	r.keyLock.Unlock()

	r.txFrame.TxInfo.IsSecurityProcessed = true
}
