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

package sim

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/openthread/ot-radiohal/types"
)

// default simulated channel parameters
const (
	defaultNoiseFloorDbm types.DbmValue = -95
	defaultTxLatency                    = 2 * time.Millisecond
	defaultAckLatency                   = 190 * time.Microsecond // AIFS at 250 kbit/s
)

// Config stores the parameters of the simulated radio channel and peer.
type Config struct {
	Seed           int64          `yaml:"seed"`             // PRNG seed; 0 picks a time-based seed
	AutoAck        bool           `yaml:"auto-ack"`         // peer acknowledges AR frames
	CcaFailureProb float64        `yaml:"cca-failure-prob"` // probability of CCA busy per transmit
	NoAckProb      float64        `yaml:"no-ack-prob"`      // probability of a lost ack per AR transmit
	NoiseFloorDbm  types.DbmValue `yaml:"noise-floor-dbm"`  // ambient noise floor (dBm)
	NoiseRangeDb   uint8          `yaml:"noise-range-db"`   // RSSI jitter above the noise floor (dB)
	TxLatency      time.Duration  `yaml:"tx-latency"`       // delay between transmit start and completion
}

// DefaultConfig gets a new set of parameters with default values, as a basis
// to configure further.
func DefaultConfig() Config {
	return Config{
		AutoAck:       true,
		NoiseFloorDbm: defaultNoiseFloorDbm,
		NoiseRangeDb:  6,
		TxLatency:     defaultTxLatency,
	}
}

// LoadConfig reads a YAML channel configuration file. Absent keys keep their
// default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "reading channel config")
	}
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing channel config %s", path)
	}
	if err = cfg.validate(); err != nil {
		return cfg, errors.Wrapf(err, "invalid channel config %s", path)
	}
	return cfg, nil
}

func (cfg *Config) validate() error {
	if cfg.CcaFailureProb < 0 || cfg.CcaFailureProb > 1 {
		return errors.Errorf("cca-failure-prob %f out of range [0,1]", cfg.CcaFailureProb)
	}
	if cfg.NoAckProb < 0 || cfg.NoAckProb > 1 {
		return errors.Errorf("no-ack-prob %f out of range [0,1]", cfg.NoAckProb)
	}
	if cfg.TxLatency < 0 {
		return errors.New("tx-latency must not be negative")
	}
	return nil
}
