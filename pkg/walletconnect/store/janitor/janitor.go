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

// Package janitor periodically prunes stale session-store records.
// Stores that can't prune by age return store.ErrPruneUnsupported and
// are skipped.
package janitor

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/sage-x-project/walletbridge/internal/logger"
	"github.com/sage-x-project/walletbridge/pkg/walletconnect/store"
)

// Janitor runs store.Pruner.Prune on a cron schedule.
type Janitor struct {
	cron    *cron.Cron
	pruner  store.Pruner
	maxAge  time.Duration
	log     logger.Logger
	entryID cron.EntryID
}

// New builds a Janitor. schedule is a standard 5-field cron
// expression or a descriptor such as "@every 1h"; maxAge is the record
// age passed to Prune on each run.
func New(pruner store.Pruner, schedule string, maxAge time.Duration, log logger.Logger) (*Janitor, error) {
	if log == nil {
		log = logger.Nop()
	}
	j := &Janitor{
		cron:   cron.New(),
		pruner: pruner,
		maxAge: maxAge,
		log:    log,
	}
	id, err := j.cron.AddFunc(schedule, j.runOnce)
	if err != nil {
		return nil, err
	}
	j.entryID = id
	return j, nil
}

// Start launches the cron scheduler in the background.
func (j *Janitor) Start() { j.cron.Start() }

// Stop halts the scheduler and waits for any in-flight run to finish.
func (j *Janitor) Stop() { <-j.cron.Stop().Done() }

func (j *Janitor) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	removed, err := j.pruner.Prune(ctx, j.maxAge)
	if err == store.ErrPruneUnsupported {
		j.log.Debug("janitor: store does not support pruning, skipping")
		return
	}
	if err != nil {
		j.log.Warn("janitor: prune failed", logger.Error(err))
		return
	}
	if removed > 0 {
		j.log.Info("janitor: pruned stale session records", logger.Int("removed", removed))
	}
}
