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

// radiohal-cli is an interactive factory diagnostics shell running the
// radio platform layer against a simulated 802.15.4 driver.
package main

import (
	"errors"
	"flag"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/openthread/ot-radiohal/diag"
	"github.com/openthread/ot-radiohal/driver/sim"
	"github.com/openthread/ot-radiohal/logger"
	"github.com/openthread/ot-radiohal/pending"
	"github.com/openthread/ot-radiohal/progctx"
	"github.com/openthread/ot-radiohal/radio"
	"github.com/openthread/ot-radiohal/types"
)

type mainArgs struct {
	LogLevel   string
	LogFile    string
	ConfigFile string
	Channel    int
	Seed       int64
}

var args mainArgs

func parseArgs() {
	flag.StringVar(&args.LogLevel, "log", "info", "set logging level: debug, info, warn, error.")
	flag.StringVar(&args.LogFile, "logfile", "", "write the log to this file in addition to stderr.")
	flag.StringVar(&args.ConfigFile, "config", "", "specify a YAML channel configuration file for the simulated driver.")
	flag.IntVar(&args.Channel, "channel", 20, "set the initial channel (11-26).")
	flag.Int64Var(&args.Seed, "seed", 0, "set the PRNG seed of the simulated channel (0 is time-based).")
	flag.Parse()
}

// app ties the radio, the diagnostics runner and the CLI together. CLI
// commands are posted as jobs to the consumer loop so all radio access
// stays on one goroutine.
type app struct {
	ctx    *progctx.ProgCtx
	radio  *radio.Radio
	runner *diag.Runner
	waker  *pending.ChanWaker
	jobs   chan func()
	cli    *readline.Instance
}

// OnStdout redraws the prompt after log output interleaved with the CLI.
func (a *app) OnStdout() {
	if a.cli != nil {
		a.cli.Refresh()
	}
}

// TransmitDone implements radio.Callbacks.
func (a *app) TransmitDone(frame *types.RadioFrame, ack *types.RadioFrame, err types.Error) {
	if err == types.ErrorNone {
		logger.Debugf("transmit done, %d bytes, ack=%v", len(frame.Psdu), ack != nil)
	} else {
		logger.Infof("transmit failed: %v", err)
	}
}

// ReceiveDone implements radio.Callbacks.
func (a *app) ReceiveDone(frame *types.RadioFrame, err types.Error) {
	if err != types.ErrorNone {
		logger.Debugf("receive failed: %v", err)
		return
	}
	logger.Debugf("received frame, %d bytes, rssi %d", len(frame.Psdu), frame.RxInfo.Rssi)
	a.runner.RadioReceived(frame, err)
}

// EnergyScanDone implements radio.Callbacks.
func (a *app) EnergyScanDone(maxRssi types.DbmValue) {
	logger.Infof("energy scan done, max rssi %d dBm", maxRssi)
}

// TxStarted implements radio.Callbacks.
func (a *app) TxStarted(frame *types.RadioFrame) {}

// runConsumer is the single consumer of pending radio work.
func (a *app) runConsumer() {
	defer a.ctx.WaitDone("consumer")

	for {
		select {
		case <-a.ctx.Done():
			return
		case <-a.waker.Chan():
			a.radio.Process()
			a.runner.Alarm().Process()
		case job := <-a.jobs:
			job()
		}
	}
}

// post runs f on the consumer goroutine and waits for it to finish.
func (a *app) post(f func()) {
	done := make(chan struct{})
	select {
	case a.jobs <- func() {
		f()
		close(done)
	}:
		<-done
	case <-a.ctx.Done():
	}
}

func (a *app) GetPrompt() string {
	prompt := "> "
	a.post(func() {
		if a.runner.Mode() {
			prompt = "diag> "
		}
	})
	return prompt
}

func (a *app) HandleCommand(cmd string, output io.Writer) error {
	switch cmd {
	case "exit":
		a.ctx.Cancel("exit")
		return nil
	case "diag start":
		a.post(func() { a.runner.SetMode(true) })
		_, _ = io.WriteString(output, "diagnostics mode is enabled\n")
		return nil
	case "diag stop":
		a.post(func() { a.runner.SetMode(false) })
		_, _ = io.WriteString(output, "diagnostics mode is disabled\n")
		return nil
	}

	cmd = strings.TrimPrefix(cmd, "diag ")
	var err error
	a.post(func() {
		err = a.runner.RunCommand(cmd, output)
	})
	return err
}

// runCli reads and executes command lines until EOF or exit.
func (a *app) runCli() error {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          a.GetPrompt(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",

		HistorySearchFold: true,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = l.Close()
	}()
	a.cli = l
	logger.SetStdoutCallback(a)
	defer logger.SetStdoutCallback(nil)

	logger.Println("radiohal-cli - 'diag start' enters diagnostics mode, 'exit' quits.")

	for a.ctx.Err() == nil {
		l.SetPrompt(a.GetPrompt())
		line, err := l.Readline()

		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				return nil
			}
			continue
		} else if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}

		cmd := strings.TrimSpace(line)
		if len(cmd) == 0 {
			continue
		}

		if err = a.HandleCommand(cmd, l.Stdout()); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	parseArgs()
	level, err := logger.ParseLevelString(args.LogLevel)
	if err != nil {
		logger.Fatalf("%v", err)
	}
	logger.SetLevel(level)
	if args.LogFile != "" {
		logger.SetOutput([]string{"stderr", args.LogFile})
	}

	if args.Channel < int(types.MinChannelNumber) || args.Channel > int(types.MaxChannelNumber) {
		logger.Fatalf("invalid channel %d", args.Channel)
	}

	cfg := sim.DefaultConfig()
	if args.ConfigFile != "" {
		var err error
		cfg, err = sim.LoadConfig(args.ConfigFile)
		if err != nil {
			logger.Fatalf("%v", err)
		}
	}
	cfg.Seed = args.Seed

	ctx := progctx.New(nil)
	waker := pending.NewChanWaker()
	drv := sim.New(cfg)

	a := &app{
		ctx:   ctx,
		waker: waker,
		jobs:  make(chan func()),
	}
	a.radio = radio.New(drv, a, waker, radio.Config{
		VendorOui: 0xf4ce36,
		DeviceId:  uint64(os.Getpid()),
	})
	a.runner = diag.NewRunner(a.radio, drv, waker, dieTemperature)

	logger.PanicIfError(a.radio.Init())
	defer a.radio.Deinit()

	if err := a.radio.Enable().OrNil(); err != nil {
		logger.Fatalf("enabling radio: %v", err)
	}
	if err := a.radio.Receive(types.ChannelId(args.Channel)).OrNil(); err != nil {
		logger.Fatalf("starting receive: %v", err)
	}
	a.runner.SetChannel(types.ChannelId(args.Channel))

	ctx.WaitAdd("consumer", 1)
	go a.runConsumer()

	if err := a.runCli(); err != nil {
		logger.Errorf("CLI error: %v", err)
	}
	ctx.Cancel("cli-exit")
	ctx.Wait()
}

// dieTemperature stands in for the die temperature sensor, in quarter
// degrees Celsius.
func dieTemperature() int32 {
	return 25 * 4
}
