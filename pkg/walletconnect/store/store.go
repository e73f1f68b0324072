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

// Package store defines the session persistence contract the
// interactor consumes as an external collaborator. The core only ever
// reads at connect time; writing back a session is the application's
// responsibility, driven from its own observer callbacks.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/sage-x-project/walletbridge/pkg/walletconnect/model"
	"github.com/sage-x-project/walletbridge/pkg/walletconnect/uri"
)

// ErrNotFound is returned by Load when no record exists for a topic.
var ErrNotFound = errors.New("walletconnect: no stored session for topic")

// ErrPruneUnsupported is returned by stores that cannot prune by age.
var ErrPruneUnsupported = errors.New("walletconnect: store does not support pruning")

// Record is what a resumed connect() call restores into the interactor.
type Record struct {
	Session  *uri.Session
	PeerID   string
	PeerMeta model.PeerMeta
	SavedAt  time.Time
}

// Store is the session persistence contract.
type Store interface {
	// Load returns ErrNotFound if topic has no stored record.
	Load(ctx context.Context, topic string) (*Record, error)
	Store(ctx context.Context, topic, peerID string, peerMeta model.PeerMeta, session *uri.Session) error
	Remove(ctx context.Context, topic string) error
}

// Pruner is implemented by stores that can delete records older than a
// given age; the janitor package drives it on a schedule.
type Pruner interface {
	Prune(ctx context.Context, olderThan time.Duration) (removed int, err error)
}
