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

import "fmt"

// Error is an OpenThread platform error code. Code values follow OT error.h
// so that they can be passed to the stack unchanged.
type Error uint8

const (
	ErrorNone                       Error = 0
	ErrorFailed                     Error = 1
	ErrorNoBufs                     Error = 3
	ErrorBusy                       Error = 5
	ErrorParse                      Error = 6
	ErrorInvalidArgs                Error = 7
	ErrorNoAddress                  Error = 10
	ErrorAbort                      Error = 11
	ErrorInvalidState               Error = 13
	ErrorNoAck                      Error = 14
	ErrorChannelAccessFailure       Error = 15
	ErrorFcs                        Error = 17
	ErrorNoFrameReceived            Error = 18
	ErrorDestinationAddressFiltered Error = 22
	ErrorInvalidCommand             Error = 35
)

func (e Error) Error() string {
	return fmt.Sprintf("ot-error %d (%s)", uint8(e), e.String())
}

func (e Error) String() string {
	switch e {
	case ErrorNone:
		return "none"
	case ErrorFailed:
		return "failed"
	case ErrorNoBufs:
		return "no-bufs"
	case ErrorBusy:
		return "busy"
	case ErrorParse:
		return "parse"
	case ErrorInvalidArgs:
		return "invalid-args"
	case ErrorNoAddress:
		return "no-address"
	case ErrorAbort:
		return "abort"
	case ErrorInvalidState:
		return "invalid-state"
	case ErrorNoAck:
		return "no-ack"
	case ErrorChannelAccessFailure:
		return "channel-access-failure"
	case ErrorFcs:
		return "fcs"
	case ErrorNoFrameReceived:
		return "no-frame-received"
	case ErrorDestinationAddressFiltered:
		return "destination-address-filtered"
	case ErrorInvalidCommand:
		return "invalid-command"
	default:
		return "UNKNOWN"
	}
}

// OrNil maps ErrorNone to a nil error, for use at API boundaries that
// return Go errors.
func (e Error) OrNil() error {
	if e == ErrorNone {
		return nil
	}
	return e
}
