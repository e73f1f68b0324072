// Copyright (C) 2025 sage-x-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

// Package config loads the CLI's YAML configuration: interactor
// timers, reconnect policy, the session store backend, and logging
// level. One struct tree, loaded with gopkg.in/yaml.v3, validated
// with go-playground/validator.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/sage-x-project/walletbridge/pkg/walletconnect/interactor"
)

// StoreConfig selects and configures the session store backend.
type StoreConfig struct {
	Driver string `yaml:"driver" validate:"omitempty,oneof=sqlite postgres none"`
	DSN    string `yaml:"dsn"`
}

// TimersConfig mirrors interactor.Config in YAML-friendly form.
type TimersConfig struct {
	ConnectTimeout   time.Duration `yaml:"connect_timeout"`
	HandshakeTimeout time.Duration `yaml:"handshake_timeout"`
	PingInterval     time.Duration `yaml:"ping_interval"`
	SendTimeout      time.Duration `yaml:"send_timeout"`
}

// ReconnectConfig mirrors interactor.ReconnectPolicy.
type ReconnectConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Wait        time.Duration `yaml:"wait"`
	MaxAttempts int           `yaml:"max_attempts" validate:"omitempty,min=0"`
}

// LoggingConfig sets the zap sink's level. The sink always encodes
// JSON; the JSON field is not read when the logger is built.
type LoggingConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	JSON  bool   `yaml:"json"`
}

// MetricsConfig toggles the Prometheus registry and listener address.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// JanitorConfig governs the store-pruning cron schedule (see
// store/janitor).
type JanitorConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Schedule string        `yaml:"schedule"`
	MaxAge   time.Duration `yaml:"max_age"`
}

// Config is the root of a walletbridge YAML configuration file.
type Config struct {
	Store     StoreConfig     `yaml:"store"`
	Timers    TimersConfig    `yaml:"timers"`
	Reconnect ReconnectConfig `yaml:"reconnect"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Janitor   JanitorConfig   `yaml:"janitor"`
}

var validate = validator.New()

// Default returns a Config whose timer values match
// interactor.DefaultConfig() exactly.
func Default() Config {
	d := interactor.DefaultConfig()
	return Config{
		Store: StoreConfig{Driver: "sqlite", DSN: "walletbridge.db"},
		Timers: TimersConfig{
			ConnectTimeout:   d.ConnectTimeout,
			HandshakeTimeout: d.HandshakeTimeout,
			PingInterval:     d.PingInterval,
			SendTimeout:      d.SendTimeout,
		},
		Reconnect: ReconnectConfig{
			Enabled:     d.Reconnect.Enabled,
			Wait:        d.Reconnect.Wait,
			MaxAttempts: d.Reconnect.MaxAttempts,
		},
		Logging: LoggingConfig{Level: "info", JSON: false},
		Metrics: MetricsConfig{Enabled: false, Addr: ":9090"},
		Janitor: JanitorConfig{Enabled: false, Schedule: "@every 1h", MaxAge: 24 * time.Hour},
	}
}

// Load reads a YAML file at path and overlays it onto Default(). A
// missing file is not an error; callers get the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("config: invalid %s: %w", path, err)
	}
	return cfg, nil
}

// InteractorConfig projects the YAML timer/reconnect fields back onto
// interactor.Config, applying Default() for any zero-valued duration
// so a partial YAML overlay never produces a zero timeout.
func (c Config) InteractorConfig() interactor.Config {
	d := interactor.DefaultConfig()
	ic := interactor.Config{
		ConnectTimeout:   orDefault(c.Timers.ConnectTimeout, d.ConnectTimeout),
		HandshakeTimeout: orDefault(c.Timers.HandshakeTimeout, d.HandshakeTimeout),
		PingInterval:     orDefault(c.Timers.PingInterval, d.PingInterval),
		SendTimeout:      orDefault(c.Timers.SendTimeout, d.SendTimeout),
		Reconnect: interactor.ReconnectPolicy{
			Enabled:     c.Reconnect.Enabled,
			Wait:        orDefault(c.Reconnect.Wait, d.Reconnect.Wait),
			MaxAttempts: c.Reconnect.MaxAttempts,
		},
	}
	return ic
}

func orDefault(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}
