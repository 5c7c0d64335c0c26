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

// Package types defines the shared radio platform types and constants.
package types

// ChannelId is an IEEE 802.15.4 channel number.
type ChannelId = uint8

// DbmValue is a signal power or power setting in dBm.
type DbmValue = int8

// IEEE 802.15.4-2015, 2.4 GHz O-QPSK PHY parameters. These assumptions are
// hardcoded into the OT stack and reproduced here.
const (
	MinChannelNumber ChannelId = 11
	MaxChannelNumber ChannelId = 26
	FrameMaxSize               = 127
	ShortAddressSize           = 2
	ExtAddressSize             = 8
	AesKeySize                 = 16
	AesBlockSize               = 16
)

// RSSI/power parameter encodings, shared with the OT stack.
const (
	RssiInvalid  DbmValue = 127
	RssiMax      DbmValue = 126
	RssiMin      DbmValue = -126
	PowerInvalid DbmValue = 127
)

// ShortAddress is an IEEE 802.15.4 short (16-bit) MAC address.
type ShortAddress = uint16

// PanId is an IEEE 802.15.4 PAN identifier.
type PanId = uint16

// ExtAddress is an IEEE 802.15.4 extended (64-bit) MAC address, in
// big-endian byte order as used by the OT stack.
type ExtAddress [ExtAddressSize]byte

const (
	BroadcastShortAddress ShortAddress = 0xffff
	InvalidShortAddress   ShortAddress = 0xfffe
)

// RadioState is the coarse platform radio state reported to the OT stack.
type RadioState byte

const (
	RadioDisabled RadioState = 0
	RadioSleep    RadioState = 1
	RadioReceive  RadioState = 2
	RadioTransmit RadioState = 3
	RadioInvalid  RadioState = 255
)

func (s RadioState) String() string {
	switch s {
	case RadioDisabled:
		return "Off"
	case RadioSleep:
		return "Slp"
	case RadioReceive:
		return "Rx_"
	case RadioTransmit:
		return "Tx_"
	default:
		return "INVALID"
	}
}

// RadioCaps is the radio capabilities bitmask reported to the OT stack.
type RadioCaps uint8

const (
	CapsNone         RadioCaps = 0
	CapsAckTimeout   RadioCaps = 1 << 0
	CapsEnergyScan   RadioCaps = 1 << 1
	CapsTransmitSec  RadioCaps = 1 << 2
	CapsCsmaBackoff  RadioCaps = 1 << 3
	CapsSleepToTx    RadioCaps = 1 << 4
	CapsTransmitTime RadioCaps = 1 << 5
	CapsReceiveTime  RadioCaps = 1 << 6
)

// MacKey is literal IEEE 802.15.4 MAC key material.
type MacKey [AesKeySize]byte
