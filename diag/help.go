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
	"fmt"
	"os"
	"sort"

	"github.com/mitchellh/go-wordwrap"
	"golang.org/x/term"
)

// Help displays diagnostics command help to the user, wrapped to the
// current terminal width.
type Help struct {
	termWidth uint
	commands  map[string]string
}

func newHelp() Help {
	return Help{
		termWidth: 80,
		commands: map[string]string{
			"ccathreshold": "ccathreshold [value]\nGet or set the raw CCA energy detect threshold (0-255).",
			"channel":      "channel [value]\nGet or set the channel (11-26) used by diagnostic operations.",
			"help":         "help [command]\nShow help for all commands, or one command.",
			"id":           "id [value]\nGet or set this device's ID carried in diagnostic test messages.",
			"listen":       "listen [0|1]\nGet or set listen mode: received diagnostic test messages are logged.",
			"power":        "power [value]\nGet or set the tx power (dBm) used by diagnostic operations.",
			"stats":        "stats [clear]\nShow or clear diagnostic traffic statistics.",
			"temp":         "temp\nRead the die temperature in degrees Celsius.",
			"transmit": "transmit [start|stop|carrier|interval <ms>|count <n>]\n" +
				"Control diagnostic test message transmission. 'count -1' transmits until stopped; " +
				"'carrier' transmits an unmodulated carrier wave.",
		},
	}
}

// update takes the current user's terminal size into account.
func (help *Help) update() {
	fdTerm := int(os.Stdout.Fd())
	if term.IsTerminal(fdTerm) {
		if width, _, err := term.GetSize(fdTerm); err == nil {
			help.termWidth = uint(width)
		}
	}
}

func (help *Help) outputGeneralHelp() string {
	help.update()

	cmds := make([]string, 0, len(help.commands))
	for c := range help.commands {
		cmds = append(cmds, c)
	}
	sort.Strings(cmds)

	s := ""
	for _, c := range cmds {
		s += fmt.Sprintf("%s\n", c)
	}
	return s + wordwrap.WrapString("\nFor detailed help per command, use: 'help <command>'\n",
		help.termWidth)
}

func (help *Help) outputCommandHelp(command string) string {
	help.update()

	explanation, ok := help.commands[command]
	if !ok {
		explanation = "(Non-existent command.)"
	}
	return wordwrap.WrapString(explanation, help.termWidth) + "\n"
}
