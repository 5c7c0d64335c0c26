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
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/openthread/ot-radiohal/driver/sim"
	"github.com/openthread/ot-radiohal/pending"
	"github.com/openthread/ot-radiohal/radio"
	"github.com/openthread/ot-radiohal/types"
)

func TestParseBytes(t *testing.T) {
	var cmd Command
	err := parseBytes([]byte("wrongcmd"), &cmd)
	assert.NotNil(t, err)

	assert.Nil(t, parseBytes([]byte("ccathreshold"), &cmd))
	assert.True(t, cmd.CcaThreshold != nil && cmd.CcaThreshold.Val == nil)
	assert.Nil(t, parseBytes([]byte("ccathreshold 40"), &cmd))
	assert.True(t, cmd.CcaThreshold != nil && *cmd.CcaThreshold.Val == 40)

	assert.Nil(t, parseBytes([]byte("channel 15"), &cmd))
	assert.True(t, cmd.Channel != nil && *cmd.Channel.Val == 15)

	assert.Nil(t, parseBytes([]byte("id"), &cmd))
	assert.True(t, cmd.Id != nil && cmd.Id.Val == nil)
	assert.Nil(t, parseBytes([]byte("id 12"), &cmd))
	assert.True(t, cmd.Id != nil && *cmd.Id.Val == 12)

	assert.Nil(t, parseBytes([]byte("listen 1"), &cmd))
	assert.True(t, cmd.Listen != nil && *cmd.Listen.Val == 1)

	assert.Nil(t, parseBytes([]byte("power -8"), &cmd))
	assert.True(t, cmd.Power != nil && *cmd.Power.Val == "-8")

	assert.Nil(t, parseBytes([]byte("stats"), &cmd))
	assert.True(t, cmd.Stats != nil && cmd.Stats.Clear == nil)
	assert.Nil(t, parseBytes([]byte("stats clear"), &cmd))
	assert.True(t, cmd.Stats != nil && cmd.Stats.Clear != nil)

	assert.True(t, parseBytes([]byte("temp"), &cmd) == nil && cmd.Temp != nil)

	assert.Nil(t, parseBytes([]byte("transmit"), &cmd))
	assert.NotNil(t, cmd.Transmit)
	assert.Nil(t, parseBytes([]byte("transmit start"), &cmd))
	assert.NotNil(t, cmd.Transmit.Start)
	assert.Nil(t, parseBytes([]byte("transmit stop"), &cmd))
	assert.NotNil(t, cmd.Transmit.Stop)
	assert.Nil(t, parseBytes([]byte("transmit carrier"), &cmd))
	assert.NotNil(t, cmd.Transmit.Carrier)
	assert.Nil(t, parseBytes([]byte("transmit interval 100"), &cmd))
	assert.Equal(t, 100, cmd.Transmit.Interval.Val)
	assert.Nil(t, parseBytes([]byte("transmit count -1"), &cmd))
	assert.Equal(t, "-1", cmd.Transmit.Count.Val)

	assert.Nil(t, parseBytes([]byte("help"), &cmd))
	assert.NotNil(t, cmd.Help)
	assert.Nil(t, parseBytes([]byte("help transmit"), &cmd))
	assert.Equal(t, "transmit", cmd.Help.Topic)
}

type nullCallbacks struct{}

func (nullCallbacks) TransmitDone(*types.RadioFrame, *types.RadioFrame, types.Error) {}
func (nullCallbacks) ReceiveDone(*types.RadioFrame, types.Error)                     {}
func (nullCallbacks) EnergyScanDone(types.DbmValue)                                  {}
func (nullCallbacks) TxStarted(*types.RadioFrame)                                    {}

func newTestRunner(t *testing.T) (*Runner, *radio.Radio, *sim.Driver, *pending.ChanWaker) {
	cfg := sim.DefaultConfig()
	cfg.Seed = 1
	cfg.TxLatency = time.Millisecond
	drv := sim.New(cfg)

	waker := pending.NewChanWaker()
	r := radio.New(drv, nullCallbacks{}, waker, radio.Config{})
	assert.Nil(t, r.Init())
	t.Cleanup(r.Deinit)
	assert.Equal(t, types.ErrorNone, r.Enable())

	runner := NewRunner(r, drv, waker, func() int32 { return 4*25 + 3 }) // 25.75 C
	return runner, r, drv, waker
}

func run(t *testing.T, runner *Runner, cmdline string) string {
	var buf bytes.Buffer
	assert.Nil(t, runner.RunCommand(cmdline, &buf))
	return buf.String()
}

func TestCommandsRequireDiagMode(t *testing.T) {
	runner, _, _, _ := newTestRunner(t)

	for _, cmdline := range []string{"ccathreshold", "id", "listen", "temp", "transmit start", "stats"} {
		out := run(t, runner, cmdline)
		assert.Contains(t, out, "status 0x0d", "command %q", cmdline)
	}
}

func TestModeOffParksRadio(t *testing.T) {
	runner, r, _, _ := newTestRunner(t)

	runner.SetMode(true)
	assert.True(t, runner.Mode())

	runner.SetMode(false)
	assert.False(t, runner.Mode())
	assert.False(t, r.Events().IsAnySet())
}

func TestIdCommand(t *testing.T) {
	runner, _, _, _ := newTestRunner(t)
	runner.SetMode(true)

	assert.Equal(t, "ID: -1\n", run(t, runner, "id"))
	assert.Contains(t, run(t, runner, "id 22"), "set ID to 22")
	assert.Equal(t, "ID: 22\n", run(t, runner, "id"))
}

func TestListenCommand(t *testing.T) {
	runner, r, _, _ := newTestRunner(t)
	runner.SetMode(true)

	assert.Equal(t, "listen: no\n", run(t, runner, "listen"))
	assert.Contains(t, run(t, runner, "listen 1"), "set listen to yes")
	assert.Equal(t, "listen: yes\n", run(t, runner, "listen"))
	assert.Equal(t, types.RadioReceive, r.State())
}

func TestCcaThresholdCommand(t *testing.T) {
	runner, _, drv, _ := newTestRunner(t)
	runner.SetMode(true)

	assert.Contains(t, run(t, runner, "ccathreshold 45"), "set cca threshold to 45")
	assert.Equal(t, uint8(45), drv.CcaConfig().EdThreshold)
	assert.Equal(t, "cca threshold: 45\n", run(t, runner, "ccathreshold"))

	assert.Contains(t, run(t, runner, "ccathreshold 300"), "status 0x07")
}

func TestTempCommand(t *testing.T) {
	runner, _, _, _ := newTestRunner(t)
	runner.SetMode(true)

	assert.Equal(t, "25.75\n", run(t, runner, "temp"))
}

func TestTransmitParameterCommands(t *testing.T) {
	runner, _, _, _ := newTestRunner(t)
	runner.SetMode(true)

	assert.Contains(t, run(t, runner, "transmit interval 100"), "set diagnostic messages interval to 100 ms")
	assert.Contains(t, run(t, runner, "transmit count 3"), "set diagnostic messages count to 3")
	assert.Contains(t, run(t, runner, "transmit"), "transmit will send 3 diagnostic messages with 100 ms interval")

	assert.Contains(t, run(t, runner, "transmit interval 0"), "status 0x07")
	assert.Contains(t, run(t, runner, "transmit count 0"), "status 0x07")
	assert.Contains(t, run(t, runner, "transmit count -1"), "set diagnostic messages count to -1")
}

func TestTransmitRun(t *testing.T) {
	runner, r, _, waker := newTestRunner(t)
	runner.SetMode(true)

	run(t, runner, "transmit interval 5")
	run(t, runner, "transmit count 2")
	out := run(t, runner, "transmit start")
	assert.Contains(t, out, "sending 2 diagnostic messages with 5 ms interval")

	// double start is refused
	assert.Contains(t, run(t, runner, "transmit start"), "status 0x0d")

	// drive the consumer loop until the run completes
	deadline := time.After(2 * time.Second)
	for runner.txMode == txModePackets {
		select {
		case <-waker.Chan():
			runner.Alarm().Process()
			r.Process()
		case <-deadline:
			t.Fatal("transmit run did not finish")
		}
	}

	assert.Equal(t, uint32(2), runner.stats.TxPackets)
	assert.Contains(t, run(t, runner, "stats"), "tx-packets: 2")

	// stop after completion is refused
	assert.Contains(t, run(t, runner, "transmit stop"), "status 0x0d")
}

func TestTransmitStop(t *testing.T) {
	runner, _, _, _ := newTestRunner(t)
	runner.SetMode(true)

	run(t, runner, "transmit count -1")
	run(t, runner, "transmit interval 1000")
	run(t, runner, "transmit start")
	assert.Contains(t, run(t, runner, "transmit stop"), "transmission is stopped")
}

func TestTransmitCarrier(t *testing.T) {
	runner, _, drv, _ := newTestRunner(t)
	runner.SetMode(true)

	run(t, runner, "channel 26")
	run(t, runner, "power -4")
	out := run(t, runner, "transmit carrier")
	assert.Contains(t, out, "sending carrier on channel 26 with tx power -4")
	assert.Equal(t, types.ChannelId(26), drv.Channel())
	assert.Equal(t, types.DbmValue(-4), drv.TxPower())
}

func TestListenCountsReceivedMessages(t *testing.T) {
	runner, _, _, _ := newTestRunner(t)
	runner.SetMode(true)
	run(t, runner, "listen 1")

	m := Message{Channel: 20, Id: 7, Cnt: 1}
	frame := &types.RadioFrame{Psdu: m.Encode(nil), Channel: 20}
	frame.RxInfo.Rssi = -61

	runner.RadioReceived(frame, types.ErrorNone)
	runner.RadioReceived(frame, types.ErrorFcs) // errors are not counted

	assert.Equal(t, uint32(1), runner.stats.RxPackets)
	assert.Equal(t, types.DbmValue(-61), runner.stats.LastRssi)

	out := run(t, runner, "stats clear")
	assert.Contains(t, out, "stats cleared")
	assert.Equal(t, uint32(0), runner.stats.RxPackets)
}

func TestHelpCommand(t *testing.T) {
	runner, _, _, _ := newTestRunner(t)

	out := run(t, runner, "help")
	for _, c := range []string{"ccathreshold", "listen", "transmit", "temp"} {
		assert.True(t, strings.Contains(out, c), "general help misses %s", c)
	}

	out = run(t, runner, "help transmit")
	assert.Contains(t, out, "carrier")
}
