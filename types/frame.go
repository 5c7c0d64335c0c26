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

package types

// Offsets/bits of MAC frame control fields within a PSDU, used for the
// cheap checks the platform layer performs without full frame parsing.
const (
	AckRequestOffset      = 0
	AckRequestBit         = 1 << 5
	FramePendingOffset    = 0
	FramePendingBit       = 1 << 4
	SecurityEnabledOffset = 0
	SecurityEnabledBit    = 1 << 3
)

// RxFrameInfo carries reception metadata for a received frame or ack.
type RxFrameInfo struct {
	Rssi                  DbmValue
	Lqi                   uint8
	Timestamp             uint64 // us timestamp of SFD reception
	AckedWithFramePending bool
	AckedWithSecEnhAck    bool
	AckFrameCounter       uint32
	AckKeyId              uint8
}

// TxFrameInfo carries transmission parameters set by the stack.
type TxFrameInfo struct {
	CsmaCaEnabled       bool
	MaxCsmaBackoffs     uint8
	IsARetx             bool
	IsSecurityProcessed bool
	TxDelay             uint32
	TxDelayBaseTime     uint32
}

// RadioFrame is an IEEE 802.15.4 frame exchanged between the platform
// layer and the stack. Psdu excludes the PHY header; a nil Psdu marks an
// unused frame slot.
type RadioFrame struct {
	Psdu    []byte
	Channel ChannelId
	RxInfo  RxFrameInfo
	TxInfo  TxFrameInfo
}

// HasAckRequest reports whether the frame's AR bit is set.
func (f *RadioFrame) HasAckRequest() bool {
	return len(f.Psdu) > AckRequestOffset && f.Psdu[AckRequestOffset]&AckRequestBit != 0
}

// HasFramePending reports whether the frame's frame-pending bit is set.
func (f *RadioFrame) HasFramePending() bool {
	return len(f.Psdu) > FramePendingOffset && f.Psdu[FramePendingOffset]&FramePendingBit != 0
}

// HasSecurityEnabled reports whether the frame's security-enabled bit is set.
func (f *RadioFrame) HasSecurityEnabled() bool {
	return len(f.Psdu) > SecurityEnabledOffset && f.Psdu[SecurityEnabledOffset]&SecurityEnabledBit != 0
}

// Reset clears the frame slot for reuse.
func (f *RadioFrame) Reset() {
	*f = RadioFrame{}
}
