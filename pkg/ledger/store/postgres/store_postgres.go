// Package postgres persists ledger entries in the klient_aktivitaeten table.
// A bigserial sequence column carries the append order; timestamps alone are
// not a safe order key when two entries land in the same request.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"domusvita/pkg/domain"
	"domusvita/pkg/ledger"
)

type PostgresStore struct {
	db *sql.DB
}

func New(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Schema creates the backing table. Exposed for integration tests and the
// seed command; production deployments run migrations out of band.
const Schema = `
CREATE TABLE IF NOT EXISTS klient_aktivitaeten (
	seq        BIGSERIAL PRIMARY KEY,
	id         TEXT NOT NULL,
	klient_id  TEXT NOT NULL,
	aktion     TEXT NOT NULL,
	vorher     TEXT NOT NULL DEFAULT '',
	nachher    TEXT NOT NULL DEFAULT '',
	actor      TEXT NOT NULL,
	request_id TEXT NOT NULL DEFAULT '',
	timestamp  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS klient_aktivitaeten_klient_idx ON klient_aktivitaeten (klient_id, seq);
`

func (s *PostgresStore) Append(ctx context.Context, entry ledger.Entry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO klient_aktivitaeten (id, klient_id, aktion, vorher, nachher, actor, request_id, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entry.ID, entry.KlientID.String(), string(entry.Aktion),
		entry.Vorher, entry.Nachher, entry.Actor, entry.RequestID, entry.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByKlient(ctx context.Context, klientID domain.KlientID) ([]ledger.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, klient_id, aktion, vorher, nachher, actor, request_id, timestamp
		FROM klient_aktivitaeten
		WHERE klient_id = $1
		ORDER BY seq ASC`,
		klientID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []ledger.Entry
	for rows.Next() {
		var entry ledger.Entry
		var klient, aktion string
		if err := rows.Scan(&entry.ID, &klient, &aktion, &entry.Vorher, &entry.Nachher,
			&entry.Actor, &entry.RequestID, &entry.Timestamp); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		entry.KlientID = domain.KlientID(klient)
		entry.Aktion = ledger.Aktion(aktion)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
