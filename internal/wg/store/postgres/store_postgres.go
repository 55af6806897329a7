package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"domusvita/internal/wg"
	"domusvita/pkg/domain"
	"domusvita/pkg/platform/sentinel"
)

// Schema creates the facility and room tables.
const Schema = `
CREATE TABLE IF NOT EXISTS pflege_wgs (
    id           TEXT PRIMARY KEY,
    name         TEXT NOT NULL,
    kurzname     TEXT NOT NULL DEFAULT '',
    adresse      TEXT NOT NULL,
    beschreibung TEXT NOT NULL DEFAULT '',
    grundriss    TEXT NOT NULL DEFAULT '',
    kapazitaet   INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS zimmer (
    id          TEXT PRIMARY KEY,
    wg_id       TEXT NOT NULL REFERENCES pflege_wgs(id),
    nummer      TEXT NOT NULL,
    flaeche_qm  DOUBLE PRECISION NOT NULL,
    status      TEXT NOT NULL,
    bewohner_id TEXT NOT NULL DEFAULT '',
    pos_x       DOUBLE PRECISION NOT NULL DEFAULT 0,
    pos_y       DOUBLE PRECISION NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_zimmer_wg ON zimmer (wg_id);
`

// Store persists facilities in PostgreSQL.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) SaveWG(ctx context.Context, w wg.PflegeWG) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO pflege_wgs (id, name, kurzname, adresse, beschreibung, grundriss, kapazitaet)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = $2, kurzname = $3, adresse = $4, beschreibung = $5, grundriss = $6, kapazitaet = $7`,
		w.ID, w.Name, w.Kurzname, w.Adresse, w.Beschreibung, w.Grundriss, w.Kapazitaet)
	if err != nil {
		return fmt.Errorf("upsert wg: %w", err)
	}

	for _, z := range w.Zimmer {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO zimmer (id, wg_id, nummer, flaeche_qm, status, bewohner_id, pos_x, pos_y)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO UPDATE SET
				nummer = $3, flaeche_qm = $4, status = $5, bewohner_id = $6, pos_x = $7, pos_y = $8`,
			z.ID, z.WGID, z.Nummer, z.Flaeche, z.Status, z.BewohnerID, z.PosX, z.PosY)
		if err != nil {
			return fmt.Errorf("upsert zimmer %s: %w", z.ID, err)
		}
	}

	return tx.Commit()
}

func (s *Store) GetWG(ctx context.Context, id domain.WGID) (wg.PflegeWG, error) {
	var w wg.PflegeWG
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, kurzname, adresse, beschreibung, grundriss, kapazitaet
		FROM pflege_wgs WHERE id = $1`, id).
		Scan(&w.ID, &w.Name, &w.Kurzname, &w.Adresse, &w.Beschreibung, &w.Grundriss, &w.Kapazitaet)
	if errors.Is(err, sql.ErrNoRows) {
		return wg.PflegeWG{}, sentinel.ErrNotFound
	}
	if err != nil {
		return wg.PflegeWG{}, fmt.Errorf("query wg: %w", err)
	}

	w.Zimmer, err = s.listZimmer(ctx, id)
	if err != nil {
		return wg.PflegeWG{}, err
	}
	return w, nil
}

func (s *Store) ListWGs(ctx context.Context) ([]wg.PflegeWG, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, kurzname, adresse, beschreibung, grundriss, kapazitaet
		FROM pflege_wgs ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query wgs: %w", err)
	}
	defer rows.Close()

	var out []wg.PflegeWG
	for rows.Next() {
		var w wg.PflegeWG
		if err := rows.Scan(&w.ID, &w.Name, &w.Kurzname, &w.Adresse, &w.Beschreibung, &w.Grundriss, &w.Kapazitaet); err != nil {
			return nil, fmt.Errorf("scan wg: %w", err)
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		out[i].Zimmer, err = s.listZimmer(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Store) GetZimmer(ctx context.Context, id domain.ZimmerID) (wg.Zimmer, error) {
	var z wg.Zimmer
	err := s.db.QueryRowContext(ctx, `
		SELECT id, wg_id, nummer, flaeche_qm, status, bewohner_id, pos_x, pos_y
		FROM zimmer WHERE id = $1`, id).
		Scan(&z.ID, &z.WGID, &z.Nummer, &z.Flaeche, &z.Status, &z.BewohnerID, &z.PosX, &z.PosY)
	if errors.Is(err, sql.ErrNoRows) {
		return wg.Zimmer{}, sentinel.ErrNotFound
	}
	if err != nil {
		return wg.Zimmer{}, fmt.Errorf("query zimmer: %w", err)
	}
	return z, nil
}

func (s *Store) UpdateZimmer(ctx context.Context, z wg.Zimmer) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE zimmer SET status = $2, bewohner_id = $3 WHERE id = $1`,
		z.ID, z.Status, z.BewohnerID)
	if err != nil {
		return fmt.Errorf("update zimmer: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Store) listZimmer(ctx context.Context, wgID domain.WGID) ([]wg.Zimmer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, wg_id, nummer, flaeche_qm, status, bewohner_id, pos_x, pos_y
		FROM zimmer WHERE wg_id = $1 ORDER BY nummer`, wgID)
	if err != nil {
		return nil, fmt.Errorf("query zimmer: %w", err)
	}
	defer rows.Close()

	var out []wg.Zimmer
	for rows.Next() {
		var z wg.Zimmer
		if err := rows.Scan(&z.ID, &z.WGID, &z.Nummer, &z.Flaeche, &z.Status, &z.BewohnerID, &z.PosX, &z.PosY); err != nil {
			return nil, fmt.Errorf("scan zimmer: %w", err)
		}
		out = append(out, z)
	}
	return out, rows.Err()
}
