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

// Package postgres implements the session store contract
// (pkg/walletconnect/store) on top of a Postgres table, for deployments
// that run the bridge as a long-lived service with many concurrent pairings.
package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/sage-x-project/walletbridge/pkg/walletconnect/model"
	"github.com/sage-x-project/walletbridge/pkg/walletconnect/store"
	"github.com/sage-x-project/walletbridge/pkg/walletconnect/uri"
)

const schema = `
CREATE TABLE IF NOT EXISTS walletconnect_sessions (
	topic         TEXT PRIMARY KEY,
	version       TEXT NOT NULL,
	bridge        TEXT NOT NULL,
	key           BYTEA NOT NULL,
	numerical_ver DOUBLE PRECISION NOT NULL,
	source        TEXT NOT NULL,
	is_extension  BOOLEAN NOT NULL,
	peer_id       TEXT NOT NULL,
	peer_meta     JSONB NOT NULL,
	saved_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// Store is a Postgres-backed store.Store.
type Store struct {
	pool *pgxpool.Pool
}

var (
	_ store.Store  = (*Store)(nil)
	_ store.Pruner = (*Store)(nil)
)

// Open connects to dsn and ensures the schema exists.
func Open(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open postgres pool")
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "apply schema")
	}
	return &Store{pool: pool}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() { s.pool.Close() }

// Load implements store.Store.
func (s *Store) Load(ctx context.Context, topic string) (*store.Record, error) {
	var (
		version, bridge, source, peerID string
		key                             []byte
		numericalVer                    float64
		isExtension                     bool
		peerMetaJSON                    []byte
		savedAt                         time.Time
	)

	row := s.pool.QueryRow(ctx, `
		SELECT version, bridge, key, numerical_ver, source, is_extension, peer_id, peer_meta, saved_at
		FROM walletconnect_sessions WHERE topic = $1`, topic)

	err := row.Scan(&version, &bridge, &key, &numericalVer, &source, &isExtension, &peerID, &peerMetaJSON, &savedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "scan session row")
	}

	var peerMeta model.PeerMeta
	if err := json.Unmarshal(peerMetaJSON, &peerMeta); err != nil {
		return nil, errors.Wrap(err, "unmarshal peer meta")
	}

	return &store.Record{
		Session: &uri.Session{
			Topic:            topic,
			Version:          version,
			Bridge:           bridge,
			Key:              key,
			NumericalVersion: numericalVer,
			Source:           uri.Source(source),
			IsExtension:      isExtension,
		},
		PeerID:   peerID,
		PeerMeta: peerMeta,
		SavedAt:  savedAt,
	}, nil
}

// Store implements store.Store.
func (s *Store) Store(ctx context.Context, topic, peerID string, peerMeta model.PeerMeta, session *uri.Session) error {
	peerMetaJSON, err := json.Marshal(peerMeta)
	if err != nil {
		return errors.Wrap(err, "marshal peer meta")
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO walletconnect_sessions
			(topic, version, bridge, key, numerical_ver, source, is_extension, peer_id, peer_meta, saved_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,now())
		ON CONFLICT (topic) DO UPDATE SET
			peer_id = EXCLUDED.peer_id,
			peer_meta = EXCLUDED.peer_meta,
			saved_at = now()`,
		topic, session.Version, session.Bridge, session.Key, session.NumericalVersion,
		string(session.Source), session.IsExtension, peerID, peerMetaJSON)
	return errors.Wrap(err, "upsert session")
}

// Remove implements store.Store.
func (s *Store) Remove(ctx context.Context, topic string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM walletconnect_sessions WHERE topic = $1`, topic)
	return errors.Wrap(err, "delete session")
}

// Prune implements store.Pruner.
func (s *Store) Prune(ctx context.Context, olderThan time.Duration) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM walletconnect_sessions WHERE saved_at < $1`, time.Now().Add(-olderThan))
	if err != nil {
		return 0, errors.Wrap(err, "prune sessions")
	}
	return int(tag.RowsAffected()), nil
}
