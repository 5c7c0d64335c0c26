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

// Package diag implements the factory diagnostics command surface: test
// message transmission, listen mode, carrier wave, and radio parameter
// inspection. Commands only work while diagnostics mode is on.
package diag

import (
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/openthread/ot-radiohal/alarm"
	"github.com/openthread/ot-radiohal/driver"
	"github.com/openthread/ot-radiohal/logger"
	"github.com/openthread/ot-radiohal/pending"
	"github.com/openthread/ot-radiohal/radio"
	"github.com/openthread/ot-radiohal/types"
)

const defaultChannel types.ChannelId = 20

type transmitMode uint8

const (
	txModeIdle transmitMode = iota
	txModePackets
	txModeCarrier
)

// Stats counts diagnostic test traffic since mode was entered or stats were
// cleared.
type Stats struct {
	TxPackets uint32         `yaml:"tx-packets"`
	RxPackets uint32         `yaml:"rx-packets"`
	LastRssi  types.DbmValue `yaml:"last-rssi"`
}

// Runner executes diagnostics commands against a radio and its driver. All
// methods must be called from the radio's consumer goroutine.
type Runner struct {
	radio *radio.Radio
	drv   driver.Driver
	alarm *alarm.Alarm
	temp  func() int32
	help  Help

	mode   bool
	listen bool
	txMode transmitMode

	channel          types.ChannelId
	txPower          types.DbmValue
	txPeriod         uint32
	txCount          int32
	txRequestedCount int32
	id               int16
	msg              Message
	stats            Stats
}

// NewRunner creates a diagnostics runner for r/drv. temp reads the die
// temperature sensor in quarter degrees Celsius; alarm wakes go to waker.
func NewRunner(r *radio.Radio, drv driver.Driver, waker pending.Waker, temp func() int32) *Runner {
	d := &Runner{
		radio:            r,
		drv:              drv,
		temp:             temp,
		help:             newHelp(),
		channel:          defaultChannel,
		txPeriod:         1,
		txRequestedCount: 1,
		id:               -1,
	}
	d.alarm = alarm.New(waker, d.alarmFired)
	return d
}

// Alarm returns the runner's transmit interval alarm, so the consumer loop
// can include it in its Process pass.
func (d *Runner) Alarm() *alarm.Alarm {
	return d.alarm
}

// Mode reports whether diagnostics mode is on.
func (d *Runner) Mode() bool {
	return d.mode
}

// SetMode turns diagnostics mode on or off. Leaving diagnostics mode parks
// the radio in sleep and drops all latched events, so the stack starts from
// a clean slate.
func (d *Runner) SetMode(enable bool) {
	d.mode = enable

	if !enable {
		d.alarm.Stop()
		_ = d.radio.Receive(d.channel)
		_ = d.radio.Sleep()
		d.radio.ClearPendingEvents()
	} else {
		d.txMode = txModeIdle
		d.stats = Stats{}
	}
}

// SetChannel sets the channel used by subsequent diagnostic operations.
func (d *Runner) SetChannel(channel types.ChannelId) {
	d.channel = channel
}

// SetTxPower sets the transmit power used by subsequent diagnostic
// operations.
func (d *Runner) SetTxPower(power types.DbmValue) {
	d.txPower = power
}

// CommandContext carries one command execution and its output stream.
type CommandContext struct {
	*Command
	output io.Writer
	err    types.Error
}

func (cc *CommandContext) outputf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(cc.output, format, args...)
}

func (cc *CommandContext) error(err types.Error) {
	if err != types.ErrorNone {
		cc.err = err
	}
}

// Err returns the error result of the command execution.
func (cc *CommandContext) Err() types.Error {
	return cc.err
}

func (cc *CommandContext) outputItemsAsYaml(items interface{}) {
	var itemsYaml yaml.Node

	err := itemsYaml.Encode(items)
	logger.PanicIfError(err)
	itemsYaml.Style = yaml.FlowStyle

	data, err := yaml.Marshal(&itemsYaml)
	logger.PanicIfError(err)

	_, err = cc.output.Write(data)
	logger.PanicIfError(err)
}

// RunCommand parses and executes one diagnostics command line, writing its
// results to output.
func (d *Runner) RunCommand(cmdline string, output io.Writer) error {
	cmd := Command{}

	if err := parseBytes([]byte(cmdline), &cmd); err != nil {
		_, werr := fmt.Fprintf(output, "Error: %v\n", err)
		return werr
	}

	d.execute(&cmd, output)
	return nil
}

func (d *Runner) execute(cmd *Command, output io.Writer) {
	cc := &CommandContext{
		Command: cmd,
		output:  output,
	}

	defer func() {
		if cc.Err() != types.ErrorNone {
			cc.outputf("failed\nstatus 0x%02x\n", uint8(cc.Err()))
		}
	}()

	switch {
	case cmd.CcaThreshold != nil:
		d.executeCcaThreshold(cc, cmd.CcaThreshold)
	case cmd.Channel != nil:
		d.executeChannel(cc, cmd.Channel)
	case cmd.Help != nil:
		d.executeHelp(cc, cmd.Help)
	case cmd.Id != nil:
		d.executeId(cc, cmd.Id)
	case cmd.Listen != nil:
		d.executeListen(cc, cmd.Listen)
	case cmd.Power != nil:
		d.executePower(cc, cmd.Power)
	case cmd.Stats != nil:
		d.executeStats(cc, cmd.Stats)
	case cmd.Temp != nil:
		d.executeTemp(cc)
	case cmd.Transmit != nil:
		d.executeTransmit(cc, cmd.Transmit)
	default:
		cc.error(types.ErrorInvalidCommand)
	}
}

func (d *Runner) executeCcaThreshold(cc *CommandContext, cmd *CcaThresholdCmd) {
	if !d.mode {
		cc.error(types.ErrorInvalidState)
		return
	}

	if cmd.Val == nil {
		cc.outputf("cca threshold: %d\n", d.drv.CcaConfig().EdThreshold)
		return
	}

	if *cmd.Val < 0 || *cmd.Val > 0xff {
		cc.error(types.ErrorInvalidArgs)
		return
	}
	d.drv.SetCcaConfig(driver.CcaConfig{EdThreshold: uint8(*cmd.Val)})
	cc.outputf("set cca threshold to %d\nstatus 0x%02x\n", *cmd.Val, uint8(types.ErrorNone))
}

func (d *Runner) executeChannel(cc *CommandContext, cmd *ChannelCmd) {
	if !d.mode {
		cc.error(types.ErrorInvalidState)
		return
	}

	if cmd.Val == nil {
		cc.outputf("channel: %d\n", d.channel)
		return
	}

	if *cmd.Val < int(types.MinChannelNumber) || *cmd.Val > int(types.MaxChannelNumber) {
		cc.error(types.ErrorInvalidArgs)
		return
	}
	d.channel = types.ChannelId(*cmd.Val)
	_ = d.radio.Receive(d.channel)
	cc.outputf("set channel to %d\nstatus 0x%02x\n", d.channel, uint8(types.ErrorNone))
}

func (d *Runner) executeHelp(cc *CommandContext, cmd *HelpCmd) {
	if cmd.Topic == "" {
		cc.outputf("%s", d.help.outputGeneralHelp())
	} else {
		cc.outputf("%s", d.help.outputCommandHelp(cmd.Topic))
	}
}

func (d *Runner) executeId(cc *CommandContext, cmd *IdCmd) {
	if !d.mode {
		cc.error(types.ErrorInvalidState)
		return
	}

	if cmd.Val == nil {
		cc.outputf("ID: %d\n", d.id)
		return
	}

	if *cmd.Val < 0 || *cmd.Val > 0x7fff {
		cc.error(types.ErrorInvalidArgs)
		return
	}
	d.id = int16(*cmd.Val)
	cc.outputf("set ID to %d\nstatus 0x%02x\n", d.id, uint8(types.ErrorNone))
}

func (d *Runner) executeListen(cc *CommandContext, cmd *ListenCmd) {
	if !d.mode {
		cc.error(types.ErrorInvalidState)
		return
	}

	if cmd.Val == nil {
		cc.outputf("listen: %s\n", yesOrNo(d.listen))
		return
	}

	d.listen = *cmd.Val != 0
	if d.listen {
		_ = d.radio.Receive(d.channel)
	}
	cc.outputf("set listen to %s\nstatus 0x%02x\n", yesOrNo(d.listen), uint8(types.ErrorNone))
}

func (d *Runner) executePower(cc *CommandContext, cmd *PowerCmd) {
	if !d.mode {
		cc.error(types.ErrorInvalidState)
		return
	}

	if cmd.Val == nil {
		cc.outputf("tx power: %d dBm\n", d.txPower)
		return
	}

	value, err := strconv.ParseInt(*cmd.Val, 0, 8)
	if err != nil {
		cc.error(types.ErrorParse)
		return
	}
	d.txPower = types.DbmValue(value)
	cc.outputf("set tx power to %d dBm\nstatus 0x%02x\n", d.txPower, uint8(types.ErrorNone))
}

func (d *Runner) executeStats(cc *CommandContext, cmd *StatsCmd) {
	if !d.mode {
		cc.error(types.ErrorInvalidState)
		return
	}

	if cmd.Clear != nil {
		d.stats = Stats{}
		cc.outputf("stats cleared\n")
		return
	}
	cc.outputItemsAsYaml(d.stats)
}

func (d *Runner) executeTemp(cc *CommandContext) {
	if !d.mode {
		cc.error(types.ErrorInvalidState)
		return
	}

	// measurement resolution is 0.25 degrees Celsius
	t := d.temp()
	cc.outputf("%d.%02d\n", t/4, 25*(t%4))
}

func (d *Runner) executeTransmit(cc *CommandContext, cmd *TransmitCmd) {
	if !d.mode {
		cc.error(types.ErrorInvalidState)
		return
	}

	switch {
	case cmd.Start != nil:
		if d.txMode != txModeIdle {
			cc.error(types.ErrorInvalidState)
			return
		}
		d.alarm.Stop()
		d.txMode = txModePackets
		d.txCount = d.txRequestedCount
		d.alarm.StartAt(d.alarm.Now(), d.txPeriod)
		cc.outputf("sending %d diagnostic messages with %d ms interval\nstatus 0x%02x\n",
			d.txRequestedCount, d.txPeriod, uint8(types.ErrorNone))

	case cmd.Stop != nil:
		if d.txMode == txModeIdle {
			cc.error(types.ErrorInvalidState)
			return
		}
		d.alarm.Stop()
		d.txMode = txModeIdle
		_ = d.radio.Receive(d.channel)
		cc.outputf("diagnostic message transmission is stopped\nstatus 0x%02x\n", uint8(types.ErrorNone))

	case cmd.Carrier != nil:
		if d.txMode != txModeIdle {
			cc.error(types.ErrorInvalidState)
			return
		}
		d.drv.SetChannel(d.channel)
		d.drv.SetTxPower(d.txPower)
		if !d.drv.ContinuousCarrier() {
			cc.error(types.ErrorFailed)
			return
		}
		d.txMode = txModeCarrier
		cc.outputf("sending carrier on channel %d with tx power %d\nstatus 0x%02x\n",
			d.channel, d.txPower, uint8(types.ErrorNone))

	case cmd.Interval != nil:
		if cmd.Interval.Val <= 0 {
			cc.error(types.ErrorInvalidArgs)
			return
		}
		d.txPeriod = uint32(cmd.Interval.Val)
		cc.outputf("set diagnostic messages interval to %d ms\nstatus 0x%02x\n",
			d.txPeriod, uint8(types.ErrorNone))

	case cmd.Count != nil:
		value, err := strconv.ParseInt(cmd.Count.Val, 0, 32)
		if err != nil {
			cc.error(types.ErrorParse)
			return
		}
		if value <= 0 && value != -1 {
			cc.error(types.ErrorInvalidArgs)
			return
		}
		d.txRequestedCount = int32(value)
		cc.outputf("set diagnostic messages count to %d\nstatus 0x%02x\n",
			d.txRequestedCount, uint8(types.ErrorNone))

	default:
		cc.outputf("transmit will send %d diagnostic messages with %d ms interval\nstatus 0x%02x\n",
			d.txRequestedCount, d.txPeriod, uint8(types.ErrorNone))
	}
}

// alarmFired sends the next diagnostic test message, or ends the run when
// the requested count is reached. Runs from the alarm's Process call.
func (d *Runner) alarmFired() {
	if d.txMode != txModePackets {
		return
	}

	if d.txCount > 0 || d.txCount == -1 {
		frame := d.radio.TransmitBuffer()

		d.msg.Channel = d.channel
		d.msg.Id = d.id
		frame.Psdu = d.msg.Encode(frame.Psdu[:0])
		frame.Channel = d.channel
		frame.TxInfo = types.TxFrameInfo{CsmaCaEnabled: true, MaxCsmaBackoffs: 4}

		_ = d.radio.Transmit(frame)

		d.msg.Cnt++
		d.stats.TxPackets++
		if d.txCount != -1 {
			d.txCount--
		}

		d.alarm.StartAt(d.alarm.Now(), d.txPeriod)
	} else {
		d.txMode = txModeIdle
		d.alarm.Stop()
		logger.Debugf("Transmit done")
	}
}

// RadioReceived is the runner's tap on received frames: in listen mode it
// logs decoded diagnostic test messages.
func (d *Runner) RadioReceived(frame *types.RadioFrame, err types.Error) {
	if !d.listen || err != types.ErrorNone {
		return
	}

	msg, ok := DecodeMessage(frame.Psdu)
	if !ok {
		return
	}

	d.stats.RxPackets++
	d.stats.LastRssi = frame.RxInfo.Rssi

	logger.Debugf("{\"Frame\":{"+
		"\"LocalChannel\":%d,"+
		"\"RemoteChannel\":%d,"+
		"\"CNT\":%d,"+
		"\"LocalID\":%d,"+
		"\"RemoteID\":%d,"+
		"\"RSSI\":%d"+
		"}}",
		frame.Channel, msg.Channel, msg.Cnt, d.id, msg.Id, frame.RxInfo.Rssi)
}

func yesOrNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
