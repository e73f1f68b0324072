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

// Package sqlite implements the session store contract on an embedded
// SQLite database — the store the CLI demo and single-user deployments
// use instead of standing up Postgres.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	_ "modernc.org/sqlite"

	"github.com/sage-x-project/walletbridge/pkg/walletconnect/model"
	"github.com/sage-x-project/walletbridge/pkg/walletconnect/store"
	"github.com/sage-x-project/walletbridge/pkg/walletconnect/uri"
)

const schema = `
CREATE TABLE IF NOT EXISTS walletconnect_sessions (
	topic         TEXT PRIMARY KEY,
	version       TEXT NOT NULL,
	bridge        TEXT NOT NULL,
	key           BLOB NOT NULL,
	numerical_ver REAL NOT NULL,
	source        TEXT NOT NULL,
	is_extension  INTEGER NOT NULL,
	peer_id       TEXT NOT NULL,
	peer_meta     TEXT NOT NULL,
	saved_at      INTEGER NOT NULL
);`

// Store is a database/sql-backed store.Store using the modernc.org/sqlite
// pure-Go driver — no cgo toolchain required to build the CLI demo.
type Store struct {
	db *sql.DB
}

var (
	_ store.Store  = (*Store)(nil)
	_ store.Pruner = (*Store)(nil)
)

// Open opens (creating if necessary) the sqlite database at path and
// ensures the schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Load implements store.Store.
func (s *Store) Load(ctx context.Context, topic string) (*store.Record, error) {
	var (
		version, bridge, source, peerID, peerMetaJSON string
		key                                            []byte
		numericalVer                                   float64
		isExtension                                    int
		savedAtUnix                                    int64
	)

	row := s.db.QueryRowContext(ctx, `
		SELECT version, bridge, key, numerical_ver, source, is_extension, peer_id, peer_meta, saved_at
		FROM walletconnect_sessions WHERE topic = ?`, topic)

	err := row.Scan(&version, &bridge, &key, &numericalVer, &source, &isExtension, &peerID, &peerMetaJSON, &savedAtUnix)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var peerMeta model.PeerMeta
	if err := json.Unmarshal([]byte(peerMetaJSON), &peerMeta); err != nil {
		return nil, err
	}

	return &store.Record{
		Session: &uri.Session{
			Topic:            topic,
			Version:          version,
			Bridge:           bridge,
			Key:              key,
			NumericalVersion: numericalVer,
			Source:           uri.Source(source),
			IsExtension:      isExtension != 0,
		},
		PeerID:   peerID,
		PeerMeta: peerMeta,
		SavedAt:  time.Unix(savedAtUnix, 0),
	}, nil
}

// Store implements store.Store.
func (s *Store) Store(ctx context.Context, topic, peerID string, peerMeta model.PeerMeta, session *uri.Session) error {
	peerMetaJSON, err := json.Marshal(peerMeta)
	if err != nil {
		return err
	}

	isExtension := 0
	if session.IsExtension {
		isExtension = 1
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO walletconnect_sessions
			(topic, version, bridge, key, numerical_ver, source, is_extension, peer_id, peer_meta, saved_at)
		VALUES (?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT(topic) DO UPDATE SET
			peer_id = excluded.peer_id,
			peer_meta = excluded.peer_meta,
			saved_at = excluded.saved_at`,
		topic, session.Version, session.Bridge, session.Key, session.NumericalVersion,
		string(session.Source), isExtension, peerID, string(peerMetaJSON), time.Now().Unix())
	return err
}

// Remove implements store.Store.
func (s *Store) Remove(ctx context.Context, topic string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM walletconnect_sessions WHERE topic = ?`, topic)
	return err
}

// Prune implements store.Pruner.
func (s *Store) Prune(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := time.Now().Add(-olderThan).Unix()
	res, err := s.db.ExecContext(ctx, `DELETE FROM walletconnect_sessions WHERE saved_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}
