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

// Package radio implements the OT platform radio abstraction on top of a
// vendor 802.15.4 radio driver. The driver's asynchronous callbacks latch
// pending events; the stack's scheduler loop calls Process to consume them.
package radio

import (
	"sync"
	"time"

	"github.com/openthread/ot-radiohal/driver"
	"github.com/openthread/ot-radiohal/logger"
	"github.com/openthread/ot-radiohal/pending"
	"github.com/openthread/ot-radiohal/types"
)

const (
	// ReceiveSensitivity is the receive sensitivity of the radio, in dBm.
	ReceiveSensitivity types.DbmValue = -100

	// MinCcaEdThreshold is the lowest CCA energy-detect threshold the
	// driver accepts, in dBm.
	MinCcaEdThreshold types.DbmValue = -94

	numChannels = int(types.MaxChannelNumber-types.MinChannelNumber) + 1
)

// rx frame slot ownership markers, handed off atomically between the
// driver callback goroutine and the processing routine.
const (
	slotFree uint32 = iota
	slotReady
)

// Callbacks is the upward interface towards the OT stack. All calls are
// made from Process, i.e. from the stack's own scheduling context.
type Callbacks interface {
	// TransmitDone reports the outcome of a transmit operation; ack is
	// non-nil only on success with an acknowledgement received.
	TransmitDone(frame *types.RadioFrame, ack *types.RadioFrame, err types.Error)

	// ReceiveDone reports a received frame, or a reception failure with a
	// nil frame.
	ReceiveDone(frame *types.RadioFrame, err types.Error)

	// EnergyScanDone reports the maximum RSSI seen during an energy scan.
	EnergyScanDone(maxRssi types.DbmValue)

	// TxStarted reports that a transmit request was accepted by the driver.
	TxStarted(frame *types.RadioFrame)
}

// Config carries the factory-assigned identity used to derive the EUI64.
type Config struct {
	VendorOui uint32 // MAC Address Block Large (MA-L), 24 bits used
	DeviceId  uint64 // device identifier assigned during production
}

// Radio binds the OT platform radio API to a driver.Driver instance. All
// methods except the driver.Handler callbacks must be invoked from a single
// goroutine (the stack context); the callbacks arrive on the driver's
// goroutine and only touch state under the pending-event discipline.
type Radio struct {
	drv    driver.Driver
	cb     Callbacks
	events *pending.EventSet
	waker  pending.Waker
	cfg    Config

	disabled bool

	rxFrames    [driver.RxBuffers]types.RadioFrame
	rxSlotState [driver.RxBuffers]uint32

	txFrame types.RadioFrame
	txPsdu  [types.FrameMaxSize]byte

	ackFrame              types.RadioFrame
	ackedWithFramePending bool
	ackedWithSecEnhAck    bool

	receiveError types.Error

	energyDetectionTime    time.Duration
	energyDetectionChannel types.ChannelId
	energyDetected         types.DbmValue

	maxTxPowerTable [numChannels]types.DbmValue
	defaultTxPower  types.DbmValue
	lnaGain         types.DbmValue
	regionCode      uint16

	keyLock             sync.Mutex
	keyId               uint8
	prevKey             types.MacKey
	currKey             types.MacKey
	nextKey             types.MacKey
	macFrameCounter     uint32
	prevMacFrameCounter uint32
}

// New creates a radio bound to drv that reports upward to cb and posts
// work-pending wakes to waker. The radio starts disabled; call Init first.
func New(drv driver.Driver, cb Callbacks, waker pending.Waker, cfg Config) *Radio {
	logger.AssertNotNil(drv)
	logger.AssertNotNil(cb)
	logger.AssertTrue(cfg.VendorOui <= 0xffffff, "vendor OUI must fit 24 bits")
	r := &Radio{
		drv:   drv,
		cb:    cb,
		waker: waker,
		cfg:   cfg,
	}
	r.events = pending.NewEventSet(waker)
	r.dataInit()
	return r
}

func (r *Radio) dataInit() {
	r.disabled = true
	r.defaultTxPower = types.PowerInvalid
	r.txFrame.Psdu = r.txPsdu[:0]
	r.receiveError = types.ErrorNone

	for i := range r.rxFrames {
		r.rxFrames[i].Reset()
		r.rxSlotState[i] = slotFree
	}
	for i := range r.maxTxPowerTable {
		r.maxTxPowerTable[i] = types.PowerInvalid
	}
	r.ackFrame.Reset()
	r.prevMacFrameCounter = 0
}

// Init powers on the driver and registers this radio as its callback
// handler.
func (r *Radio) Init() error {
	r.dataInit()
	return r.drv.Init(r)
}

// Deinit shuts down the driver and drops all latched events.
func (r *Radio) Deinit() {
	r.drv.SleepIfIdle()
	r.drv.Deinit()
	r.events.ClearEverything()
}

// ClearPendingEvents drops every latched event and releases any rx frame
// buffers still owned by the stack side. Used when leaving diagnostics mode.
func (r *Radio) ClearPendingEvents() {
	r.events.ClearEverything()
	r.drainRxSlots(nil)
}

// Events exposes the pending event set, for test instrumentation.
func (r *Radio) Events() *pending.EventSet {
	return r.events
}

// Eui64 returns the factory-assigned IEEE EUI64 of this radio.
func (r *Radio) Eui64() [8]byte {
	var eui [8]byte
	eui[0] = byte(r.cfg.VendorOui >> 16)
	eui[1] = byte(r.cfg.VendorOui >> 8)
	eui[2] = byte(r.cfg.VendorOui)
	id := r.cfg.DeviceId
	for i := 7; i >= 3; i-- {
		eui[i] = byte(id)
		id >>= 8
	}
	return eui
}

// convertShortAddress converts a short address or PAN ID to the driver's
// little-endian on-air byte order.
func convertShortAddress(from types.ShortAddress) []byte {
	return []byte{byte(from), byte(from >> 8)}
}

// convertExtAddress reverses an extended address into the driver's
// little-endian on-air byte order.
func convertExtAddress(from *types.ExtAddress) []byte {
	to := make([]byte, types.ExtAddressSize)
	for i := 0; i < types.ExtAddressSize; i++ {
		to[i] = from[types.ExtAddressSize-i-1]
	}
	return to
}

// SetPanId configures the PAN ID filter in the driver.
func (r *Radio) SetPanId(panid types.PanId) {
	r.drv.SetPanId(convertShortAddress(panid))
}

// SetShortAddress configures the short address filter in the driver.
func (r *Radio) SetShortAddress(addr types.ShortAddress) {
	r.drv.SetShortAddress(convertShortAddress(addr))
}

// SetExtendedAddress configures the extended address filter in the driver.
func (r *Radio) SetExtendedAddress(addr *types.ExtAddress) {
	r.drv.SetExtendedAddress(convertExtAddress(addr))
}

// Caps returns the capabilities this platform implementation provides.
func (r *Radio) Caps() types.RadioCaps {
	return types.CapsEnergyScan | types.CapsAckTimeout | types.CapsCsmaBackoff |
		types.CapsTransmitSec | types.CapsSleepToTx
}

// State returns the platform radio state as seen by the stack.
func (r *Radio) State() types.RadioState {
	if r.disabled {
		return types.RadioDisabled
	}

	switch r.drv.State() {
	case driver.StateSleep:
		return types.RadioSleep
	case driver.StateReceive, driver.StateEnergyDetection:
		return types.RadioReceive
	case driver.StateTransmit, driver.StateCca, driver.StateContinuousCarrier:
		return types.RadioTransmit
	default:
		// Receive is the driver's default state; report it for unknowns.
		return types.RadioReceive
	}
}

// IsEnabled reports whether the radio is enabled.
func (r *Radio) IsEnabled() bool {
	return !r.disabled
}

// Enable enables the radio. The driver stays asleep until Receive or
// Transmit is requested.
func (r *Radio) Enable() types.Error {
	if !r.disabled {
		return types.ErrorInvalidState
	}
	r.disabled = false
	return types.ErrorNone
}

// Disable disables the radio. Only valid from sleep state, or with a sleep
// request still pending. Disabling an already-disabled radio succeeds.
func (r *Radio) Disable() types.Error {
	if r.disabled {
		return types.ErrorNone
	}
	if r.State() != types.RadioSleep && !r.events.IsSet(pending.EventSleep) {
		return types.ErrorInvalidState
	}
	r.disabled = true
	return types.ErrorNone
}

// Sleep requests the driver to enter sleep state. When the driver is
// mid-operation the request is latched and retried from Process until the
// driver accepts it; this is not an error.
func (r *Radio) Sleep() types.Error {
	if r.drv.SleepIfIdle() {
		r.events.ClearAll()
	} else {
		r.events.ClearAll()
		r.events.Set(pending.EventSleep)
	}
	return types.ErrorNone
}

// Receive puts the driver in receive state on the given channel. Stale
// completion events of a prior operation are dropped.
func (r *Radio) Receive(channel types.ChannelId) types.Error {
	r.drv.SetChannel(channel)
	r.drv.SetTxPower(r.transmitPowerForChannel(channel))

	ok := r.drv.Receive()
	r.events.ClearAll()

	if !ok {
		return types.ErrorInvalidState
	}
	return types.ErrorNone
}

// TransmitBuffer returns the single transmit frame staging buffer. The
// caller fills Psdu/Channel/TxInfo and passes the same frame to Transmit.
func (r *Radio) TransmitBuffer() *types.RadioFrame {
	return &r.txFrame
}

// Transmit starts transmission of the staged frame. The outcome arrives as
// a TransmitDone callback after a later Process pass; an immediate channel
// access failure is latched the same way so the stack sees exactly one
// completion per transmit.
func (r *Radio) Transmit(frame *types.RadioFrame) types.Error {
	result := true

	r.drv.SetChannel(frame.Channel)

	if frame.TxInfo.CsmaCaEnabled {
		r.drv.Transmit(frame.Psdu, true, frame.TxInfo.MaxCsmaBackoffs)
	} else {
		result = r.drv.Transmit(frame.Psdu, false, 0)
	}

	r.events.ClearAll()
	r.cb.TxStarted(frame)

	if !result {
		r.events.Set(pending.EventChannelAccessFailure)
	}

	return types.ErrorNone
}

// EnergyScan starts an energy detection scan. When the driver is not idle
// yet, the start request is latched and retried from Process. Stale
// completion events are dropped here as well, so a prior operation's
// results cannot leak into the scan outcome.
func (r *Radio) EnergyScan(channel types.ChannelId, duration time.Duration) types.Error {
	r.energyDetectionTime = duration
	r.energyDetectionChannel = channel

	r.events.ClearAll()

	r.drv.SetChannel(channel)

	if r.drv.EnergyDetection(duration) {
		r.events.Reset(pending.EventEnergyDetectionStart)
	} else {
		r.events.Set(pending.EventEnergyDetectionStart)
	}

	return types.ErrorNone
}

// Rssi returns the most recent RSSI measurement.
func (r *Radio) Rssi() types.DbmValue {
	return r.drv.Rssi()
}

// SetPromiscuous enables or disables promiscuous reception.
func (r *Radio) SetPromiscuous(enable bool) {
	r.drv.SetPromiscuous(enable)
}

// Promiscuous reports whether promiscuous reception is enabled.
func (r *Radio) Promiscuous() bool {
	return r.drv.Promiscuous()
}

// EnableSrcMatch enables or disables the automatic frame-pending bit in
// driver-generated acks.
func (r *Radio) EnableSrcMatch(enable bool) {
	r.drv.SetAutoPendingBit(enable)
}

// AddSrcMatchShortEntry marks a short address as having pending data.
func (r *Radio) AddSrcMatchShortEntry(addr types.ShortAddress) types.Error {
	if !r.drv.SetPendingBitForAddr(convertShortAddress(addr), false) {
		return types.ErrorNoBufs
	}
	return types.ErrorNone
}

// AddSrcMatchExtEntry marks an extended address as having pending data.
func (r *Radio) AddSrcMatchExtEntry(addr *types.ExtAddress) types.Error {
	if !r.drv.SetPendingBitForAddr(convertExtAddress(addr), true) {
		return types.ErrorNoBufs
	}
	return types.ErrorNone
}

// ClearSrcMatchShortEntry clears the pending-data mark of a short address.
func (r *Radio) ClearSrcMatchShortEntry(addr types.ShortAddress) types.Error {
	if !r.drv.ClearPendingBitForAddr(convertShortAddress(addr), false) {
		return types.ErrorNoAddress
	}
	return types.ErrorNone
}

// ClearSrcMatchExtEntry clears the pending-data mark of an extended address.
func (r *Radio) ClearSrcMatchExtEntry(addr *types.ExtAddress) types.Error {
	if !r.drv.ClearPendingBitForAddr(convertExtAddress(addr), true) {
		return types.ErrorNoAddress
	}
	return types.ErrorNone
}

// ClearSrcMatchShortEntries clears all short-address pending-data marks.
func (r *Radio) ClearSrcMatchShortEntries() {
	r.drv.ResetPendingBits(false)
}

// ClearSrcMatchExtEntries clears all extended-address pending-data marks.
func (r *Radio) ClearSrcMatchExtEntries() {
	r.drv.ResetPendingBits(true)
}

func (r *Radio) transmitPowerForChannel(channel types.ChannelId) types.DbmValue {
	channelMaxPower := r.ChannelMaxTransmitPower(channel)
	var power types.DbmValue = 0 // 0 dBm as default value

	if r.defaultTxPower != types.PowerInvalid {
		power = r.defaultTxPower
		if channelMaxPower != types.PowerInvalid && channelMaxPower < power {
			power = channelMaxPower
		}
	} else if channelMaxPower != types.PowerInvalid {
		power = channelMaxPower
	}

	return power
}

// TransmitPower returns the currently configured transmit power.
func (r *Radio) TransmitPower() (types.DbmValue, types.Error) {
	return r.drv.TxPower(), types.ErrorNone
}

// SetTransmitPower sets the default transmit power, clamped per channel.
func (r *Radio) SetTransmitPower(power types.DbmValue) types.Error {
	if power == types.PowerInvalid {
		return types.ErrorInvalidArgs
	}
	r.defaultTxPower = power
	r.drv.SetTxPower(r.transmitPowerForChannel(r.drv.Channel()))
	return types.ErrorNone
}

// SetChannelMaxTransmitPower sets a per-channel transmit power limit.
func (r *Radio) SetChannelMaxTransmitPower(channel types.ChannelId, maxPower types.DbmValue) types.Error {
	if channel < types.MinChannelNumber || channel > types.MaxChannelNumber {
		return types.ErrorInvalidArgs
	}
	r.maxTxPowerTable[channel-types.MinChannelNumber] = maxPower
	if channel == r.drv.Channel() {
		r.drv.SetTxPower(r.transmitPowerForChannel(channel))
	}
	return types.ErrorNone
}

// ChannelMaxTransmitPower returns the per-channel transmit power limit, or
// PowerInvalid when none is set or the channel is out of range.
func (r *Radio) ChannelMaxTransmitPower(channel types.ChannelId) types.DbmValue {
	if channel < types.MinChannelNumber || channel > types.MaxChannelNumber {
		return types.PowerInvalid
	}
	return r.maxTxPowerTable[channel-types.MinChannelNumber]
}

// CcaEnergyDetectThreshold returns the CCA ED threshold in dBm.
func (r *Radio) CcaEnergyDetectThreshold() (types.DbmValue, types.Error) {
	cfg := r.drv.CcaConfig()
	// The driver has no function to convert its raw ED threshold to dBm.
	return types.DbmValue(int16(cfg.EdThreshold) + int16(MinCcaEdThreshold) - int16(r.lnaGain)), types.ErrorNone
}

// SetCcaEnergyDetectThreshold sets the CCA ED threshold in dBm.
func (r *Radio) SetCcaEnergyDetectThreshold(threshold types.DbmValue) types.Error {
	t := int16(threshold) + int16(r.lnaGain)

	if t < int16(MinCcaEdThreshold) {
		return types.ErrorInvalidArgs
	}

	r.drv.SetCcaConfig(driver.CcaConfig{
		EdThreshold: uint8(t - int16(MinCcaEdThreshold)),
	})
	return types.ErrorNone
}

// FemLnaGain returns the configured FEM LNA gain in dB.
func (r *Radio) FemLnaGain() (types.DbmValue, types.Error) {
	return r.lnaGain, types.ErrorNone
}

// SetFemLnaGain sets the FEM LNA gain and re-applies the CCA threshold so
// the on-air threshold stays the same.
func (r *Radio) SetFemLnaGain(gain types.DbmValue) types.Error {
	threshold, err := r.CcaEnergyDetectThreshold()
	if err != types.ErrorNone {
		return err
	}

	oldLnaGain := r.lnaGain
	r.lnaGain = gain
	if err = r.SetCcaEnergyDetectThreshold(threshold); err != types.ErrorNone {
		r.lnaGain = oldLnaGain
		return err
	}
	return types.ErrorNone
}

// ReceiveSensitivity returns the radio's receive sensitivity in dBm.
func (r *Radio) ReceiveSensitivity() types.DbmValue {
	return ReceiveSensitivity
}

// SetRegion stores the regulatory region code.
func (r *Radio) SetRegion(regionCode uint16) types.Error {
	r.regionCode = regionCode
	return types.ErrorNone
}

// Region returns the stored regulatory region code.
func (r *Radio) Region() (uint16, types.Error) {
	return r.regionCode, types.ErrorNone
}

// SetMacKey stores the MAC key material used for transmit security.
func (r *Radio) SetMacKey(keyId uint8, prevKey, currKey, nextKey *types.MacKey) {
	r.keyLock.Lock()
	defer r.keyLock.Unlock()

	r.keyId = keyId
	r.prevKey = *prevKey
	r.currKey = *currKey
	r.nextKey = *nextKey
	r.prevMacFrameCounter = r.macFrameCounter
}

// SetMacFrameCounter stores the MAC frame counter.
func (r *Radio) SetMacFrameCounter(counter uint32) {
	r.keyLock.Lock()
	r.macFrameCounter = counter
	r.keyLock.Unlock()
}

// SetMacFrameCounterIfLarger stores the MAC frame counter if it is larger
// than the current value.
func (r *Radio) SetMacFrameCounterIfLarger(counter uint32) {
	r.keyLock.Lock()
	if counter > r.macFrameCounter {
		r.macFrameCounter = counter
	}
	r.keyLock.Unlock()
}
