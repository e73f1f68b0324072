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

// Command walletbridge drives a single interactor from a pairing URI.
// It is a scripting/testing harness for the core, not the core itself
// -- the chain-specific approve/reject decisions it prints are meant
// to be answered by a human via `walletbridge-demo` or by another tool.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chelnak/ysmrr"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sage-x-project/walletbridge/config"
	"github.com/sage-x-project/walletbridge/internal/logger"
	"github.com/sage-x-project/walletbridge/internal/metrics"
	"github.com/sage-x-project/walletbridge/pkg/walletconnect/interactor"
	"github.com/sage-x-project/walletbridge/pkg/walletconnect/store"
	"github.com/sage-x-project/walletbridge/pkg/walletconnect/store/janitor"
	"github.com/sage-x-project/walletbridge/pkg/walletconnect/store/postgres"
	"github.com/sage-x-project/walletbridge/pkg/walletconnect/store/sqlite"
	"github.com/sage-x-project/walletbridge/pkg/walletconnect/uri"

	promclient "github.com/prometheus/client_golang/prometheus"
)

var (
	cfgFile   string
	relayFile string
	v         = viper.New()
	rootCmd   = &cobra.Command{Use: "walletbridge"}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to walletbridge.yaml")
	rootCmd.PersistentFlags().StringVar(&relayFile, "relays", "relays.toml", "path to known-relays allow-list")
	v.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	v.SetEnvPrefix("WALLETBRIDGE")
	v.AutomaticEnv()

	rootCmd.AddCommand(connectCmd(), statusCmd())
}

func connectCmd() *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "connect <pairing-uri>",
		Short: "Pair with a dApp and keep the bridge session alive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConnect(args[0], timeout)
		},
	}
	cmd.Flags().DurationVar(&timeout, "handshake-timeout", 0, "override the session-request handshake timeout")
	return cmd
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <pairing-uri>",
		Short: "Parse a pairing URI and print its session fields plus relay allow-list match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(args[0])
		},
	}
}

func runStatus(raw string) error {
	sess, err := uri.Parse(raw)
	if err != nil {
		return err
	}
	rl, err := config.LoadRelayList(relayFile)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Field", "Value")
	_ = table.Append([]string{"topic", sess.Topic})
	_ = table.Append([]string{"version", sess.Version})
	_ = table.Append([]string{"bridge", sess.Bridge})
	_ = table.Append([]string{"key bytes", fmt.Sprintf("%d", len(sess.Key))})
	_ = table.Append([]string{"source", string(sess.Source)})
	_ = table.Append([]string{"extension", fmt.Sprintf("%v", sess.IsExtension)})
	known := "no (not on relays.toml allow-list)"
	if rl.Known(sess.Bridge) {
		known = "yes"
	}
	_ = table.Append([]string{"known relay", known})
	return table.Render()
}

func runConnect(raw string, handshakeOverride time.Duration) error {
	cfg, err := config.Load(v.GetString("config"))
	if err != nil {
		return err
	}

	level := logger.InfoLevel
	switch cfg.Logging.Level {
	case "debug":
		level = logger.DebugLevel
	case "warn":
		level = logger.WarnLevel
	case "error":
		level = logger.ErrorLevel
	}
	log := logger.New(level)

	sess, err := uri.Parse(raw)
	if err != nil {
		return err
	}

	ic := cfg.InteractorConfig()
	if handshakeOverride > 0 {
		ic.HandshakeTimeout = handshakeOverride
	}

	var mcol *metrics.Interactor
	if cfg.Metrics.Enabled {
		reg := promclient.NewRegistry()
		mcol = metrics.NewInteractor(reg)
		go func() {
			if err := metrics.StartServer(cfg.Metrics.Addr, reg); err != nil {
				log.Warn("metrics server stopped", logger.Error(err))
			}
		}()
	}

	st, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	if closeStore != nil {
		defer closeStore()
	}

	if cfg.Janitor.Enabled {
		if pruner, ok := st.(store.Pruner); ok {
			j, err := janitor.New(pruner, cfg.Janitor.Schedule, cfg.Janitor.MaxAge, log)
			if err != nil {
				return err
			}
			j.Start()
			defer j.Stop()
		} else {
			log.Warn("janitor enabled but configured store does not support pruning")
		}
	}

	connected := make(chan struct{}, 1)
	sm := ysmrr.NewSpinnerManager()
	sm.Start()
	spinner := sm.AddSpinner("connecting to " + sess.Bridge + " ...")

	obs := interactor.Observer{
		OnConnected: func() {
			spinner.Complete()
			sm.Stop()
			fmt.Println("connected; waiting for wc_sessionRequest")
			select {
			case connected <- struct{}{}:
			default:
			}
		},
		OnSessionRequest: func(id int64, param interactor.WCSessionRequestParam) {
			fmt.Printf("session request id=%d from %q (%s)\n", id, param.PeerMeta.Name, param.PeerMeta.URL)
		},
		OnSessionKilled: func() {
			fmt.Println("session killed by peer")
		},
		OnDisconnect: func(err error) {
			spinner.Error()
			sm.Stop()
			if err != nil {
				log.Error("disconnected", logger.Error(err))
			} else {
				log.Info("disconnected")
			}
		},
		OnError: func(err error) {
			log.Warn("interactor error", logger.Error(err))
		},
		OnCustomRequest: func(id int64, raw json.RawMessage, ts *uint64) {
			fmt.Printf("custom request id=%d payload=%s\n", id, string(raw))
		},
	}

	ic2 := interactor.New(sess, obs, interactor.WithConfig(ic), interactor.WithLogger(log), interactor.WithStore(st), interactor.WithMetrics(mcol))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		_ = ic2.Disconnect(ctx)
		cancel()
	}()

	if err := ic2.Connect(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	return nil
}

// openStore builds the session store named by cfg.Store.Driver. A
// "none" driver yields a nil store, which the interactor treats as
// "always a fresh session".
func openStore(cfg config.Config) (store.Store, func(), error) {
	switch cfg.Store.Driver {
	case "postgres":
		st, err := postgres.Open(context.Background(), cfg.Store.DSN)
		if err != nil {
			return nil, nil, err
		}
		return st, func() { st.Close() }, nil
	case "sqlite", "":
		dsn := cfg.Store.DSN
		if dsn == "" {
			dsn = "walletbridge.db"
		}
		st, err := sqlite.Open(dsn)
		if err != nil {
			return nil, nil, err
		}
		return st, func() { _ = st.Close() }, nil
	case "none":
		return nil, nil, nil
	default:
		return nil, nil, fmt.Errorf("config: unknown store driver %q", cfg.Store.Driver)
	}
}

func main() {
	// Load .env for local CLI runs; a missing file is not an error --
	// the --config flag and WALLETBRIDGE_CONFIG still apply via viper.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
