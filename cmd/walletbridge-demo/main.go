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

// Command walletbridge-demo is a terminal front-end for a single
// Interactor: it prompts a human to approve or reject sessions and
// requests. It never reaches into interactor internals -- everything
// it knows comes through the public Observer callbacks.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/manifoldco/promptui"

	"github.com/sage-x-project/walletbridge/internal/logger"
	"github.com/sage-x-project/walletbridge/pkg/walletconnect/interactor"
	"github.com/sage-x-project/walletbridge/pkg/walletconnect/uri"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// model is the bubbletea state for the demo's status view. The
// interactor pushes updates as logMsg values via Observer callbacks; the
// approve/reject decision itself happens out-of-band through promptui
// so it can block for input without fighting bubbletea's event loop.
type model struct {
	mu       *sync.Mutex
	state    string
	peer     string
	lines    []string
	quitting bool
	spin     spinner.Model
	connected bool
}

type logMsg string

func newModel() model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return model{mu: &sync.Mutex{}, state: "disconnected", spin: s}
}

func (m model) Init() tea.Cmd { return m.spin.Tick }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			m.quitting = true
			return m, tea.Quit
		}
	case logMsg:
		line := string(msg)
		m.lines = append(m.lines, line)
		if len(m.lines) > 12 {
			m.lines = m.lines[len(m.lines)-12:]
		}
		if line == "connected to relay" {
			m.connected = true
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) View() string {
	if m.quitting {
		return "bye.\n"
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("walletbridge demo") + "\n")
	if !m.connected {
		b.WriteString(m.spin.View() + " connecting...\n")
	}
	b.WriteString(fmt.Sprintf("peer: %s\n\n", m.peer))
	for _, l := range m.lines {
		b.WriteString(dimStyle.Render(l) + "\n")
	}
	b.WriteString(dimStyle.Render("\n(q to quit)"))
	return b.String()
}

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: walletbridge-demo <pairing-uri>")
		os.Exit(1)
	}

	sess, err := uri.Parse(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid pairing uri:", err)
		os.Exit(1)
	}

	log := logger.Nop()
	m := newModel()
	p := tea.NewProgram(m)

	send := func(line string) { p.Send(logMsg(line)) }

	obs := interactor.Observer{
		OnConnected: func() { send("connected to relay") },
		OnDisconnect: func(err error) {
			if err != nil {
				send("disconnected: " + err.Error())
			} else {
				send("disconnected")
			}
		},
		OnError: func(err error) { send("error: " + err.Error()) },
	}

	var ic *interactor.Interactor
	obs.OnSessionRequest = func(id int64, param interactor.WCSessionRequestParam) {
		send(fmt.Sprintf("session request from %s (%s)", param.PeerMeta.Name, param.PeerMeta.URL))
		approved := promptApprove(param.PeerMeta.Name)
		if approved {
			_ = ic.ApproveSession(context.Background(), interactor.SessionApprovalResult{
				Approved: true,
				PeerID:   ic.ClientID(),
			})
			send("approved session " + param.PeerMeta.Name)
		} else {
			_ = ic.RejectSession(context.Background(), "user rejected")
			send("rejected session " + param.PeerMeta.Name)
		}
	}
	obs.OnCustomRequest = func(id int64, raw json.RawMessage, ts *uint64) {
		send(fmt.Sprintf("custom request id=%d", id))
		if promptApprove(fmt.Sprintf("custom request #%d", id)) {
			_ = ic.ApproveRequest(context.Background(), id, map[string]bool{"ok": true})
		} else {
			_ = ic.RejectRequest(context.Background(), id, "user rejected")
		}
	}

	ic = interactor.New(sess, obs, interactor.WithLogger(log))

	go func() {
		if err := ic.Connect(context.Background()); err != nil {
			send("connect failed: " + err.Error())
		}
	}()

	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// promptApprove blocks the calling goroutine (an Observer callback, run
// off bubbletea's event loop) on a yes/no prompt.
func promptApprove(subject string) bool {
	p := promptui.Select{
		Label: fmt.Sprintf("Approve %q?", subject),
		Items: []string{"approve", "reject"},
	}
	_, result, err := p.Run()
	if err != nil {
		return false
	}
	return result == "approve"
}
