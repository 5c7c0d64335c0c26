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

package diag

import (
	"encoding/binary"

	"github.com/openthread/ot-radiohal/types"
)

// messageDescriptor marks a frame as a diagnostic test message.
const messageDescriptor = "DiagMessage"

// MessageSize is the on-air size of an encoded Message.
const MessageSize = len(messageDescriptor) + 1 + 2 + 4

// Message is the payload of a diagnostic test frame: an 11-byte descriptor,
// the sender's channel and ID, and a running counter. Multi-byte fields are
// little-endian on the air.
type Message struct {
	Channel types.ChannelId
	Id      int16
	Cnt     uint32
}

// Encode appends the wire form of m to psdu.
func (m *Message) Encode(psdu []byte) []byte {
	var scratch [6]byte
	binary.LittleEndian.PutUint16(scratch[0:2], uint16(m.Id))
	binary.LittleEndian.PutUint32(scratch[2:6], m.Cnt)

	psdu = append(psdu, messageDescriptor...)
	psdu = append(psdu, byte(m.Channel))
	psdu = append(psdu, scratch[:]...)
	return psdu
}

// DecodeMessage parses a diagnostic test message from psdu. It returns false
// when psdu has the wrong size or does not carry the descriptor.
func DecodeMessage(psdu []byte) (Message, bool) {
	if len(psdu) != MessageSize || string(psdu[:len(messageDescriptor)]) != messageDescriptor {
		return Message{}, false
	}

	rest := psdu[len(messageDescriptor):]
	return Message{
		Channel: types.ChannelId(rest[0]),
		Id:      int16(binary.LittleEndian.Uint16(rest[1:3])),
		Cnt:     binary.LittleEndian.Uint32(rest[3:7]),
	}, true
}
