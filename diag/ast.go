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
	"github.com/alecthomas/participle"
)

// noinspection GoStructTag
type Command struct {
	CcaThreshold *CcaThresholdCmd `  @@` //nolint
	Channel      *ChannelCmd      `| @@` //nolint
	Help         *HelpCmd         `| @@` //nolint
	Id           *IdCmd           `| @@` //nolint
	Listen       *ListenCmd       `| @@` //nolint
	Power        *PowerCmd        `| @@` //nolint
	Stats        *StatsCmd        `| @@` //nolint
	Temp         *TempCmd         `| @@` //nolint
	Transmit     *TransmitCmd     `| @@` //nolint
}

// noinspection GoStructTag
type CcaThresholdCmd struct {
	Cmd struct{} `"ccathreshold"` //nolint
	Val *int     `[ @Int ]`       //nolint
}

// noinspection GoStructTag
type ChannelCmd struct {
	Cmd struct{} `"channel"` //nolint
	Val *int     `[ @Int ]`  //nolint
}

// noinspection GoStructTag
type HelpCmd struct {
	Cmd   struct{} `"help"`      //nolint
	Topic string   `[ @Ident ]`  //nolint
}

// noinspection GoStructTag
type IdCmd struct {
	Cmd struct{} `"id"`     //nolint
	Val *int     `[ @Int ]` //nolint
}

// noinspection GoStructTag
type ListenCmd struct {
	Cmd struct{} `"listen"` //nolint
	Val *int     `[ @Int ]` //nolint
}

// noinspection GoStructTag
type PowerCmd struct {
	Cmd struct{} `"power"`              //nolint
	Val *string  `[ @( [ "-" ] Int ) ]` //nolint
}

// noinspection GoStructTag
type StatsCmd struct {
	Cmd   struct{} `"stats"`      //nolint
	Clear *string  `[ @"clear" ]` //nolint
}

// noinspection GoStructTag
type TempCmd struct {
	Cmd struct{} `"temp"` //nolint
}

// noinspection GoStructTag
type TransmitCmd struct {
	Cmd      struct{}      `"transmit"` //nolint
	Start    *StartFlag    `[ @@`       //nolint
	Stop     *StopFlag     `| @@`       //nolint
	Carrier  *CarrierFlag  `| @@`       //nolint
	Interval *IntervalFlag `| @@`       //nolint
	Count    *CountFlag    `| @@ ]`     //nolint
}

// noinspection GoStructTag
type StartFlag struct {
	Dummy struct{} `"start"` //nolint
}

// noinspection GoStructTag
type StopFlag struct {
	Dummy struct{} `"stop"` //nolint
}

// noinspection GoStructTag
type CarrierFlag struct {
	Dummy struct{} `"carrier"` //nolint
}

// noinspection GoStructTag
type IntervalFlag struct {
	Dummy struct{} `"interval"` //nolint
	Val   int      `@Int`       //nolint
}

// noinspection GoStructTag
type CountFlag struct {
	Dummy struct{} `"count"`          //nolint
	Val   string   `@( [ "-" ] Int )` //nolint
}

var commandParser = participle.MustBuild(&Command{})

func parseBytes(b []byte, cmd *Command) error {
	return commandParser.ParseBytes(b, cmd)
}
