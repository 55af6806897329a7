package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"domusvita/internal/klienten"
	"domusvita/pkg/domain"
	"domusvita/pkg/platform/sentinel"
)

// Schema creates the klienten table. Nested contact and communication data is
// kept as JSONB: it is read and written whole, never queried by field.
const Schema = `
CREATE TABLE IF NOT EXISTS klienten (
    id            TEXT PRIMARY KEY,
    vorname       TEXT NOT NULL,
    nachname      TEXT NOT NULL,
    geburtsdatum  TEXT NOT NULL DEFAULT '',
    pflegegrad    TEXT NOT NULL,
    status        TEXT NOT NULL,
    dringlichkeit TEXT NOT NULL,
    kontakt       JSONB NOT NULL DEFAULT '{}',
    wunsch_wgs    TEXT[] NOT NULL DEFAULT '{}',
    zimmer_id     TEXT NOT NULL DEFAULT '',
    kommunikation JSONB NOT NULL DEFAULT '[]',
    created_at    TIMESTAMPTZ NOT NULL,
    updated_at    TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_klienten_status ON klienten (status);
`

// Store persists klienten in PostgreSQL.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, k klienten.Klient) error {
	kontakt, komm, err := marshalNested(k)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO klienten
			(id, vorname, nachname, geburtsdatum, pflegegrad, status, dringlichkeit,
			 kontakt, wunsch_wgs, zimmer_id, kommunikation, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		k.ID, k.Vorname, k.Nachname, k.Geburtsdatum, k.Pflegegrad, k.Status,
		k.Dringlichkeit, kontakt, wgIDs(k.WunschWGs), k.ZimmerID, komm,
		k.CreatedAt, k.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert klient: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id domain.KlientID) (klienten.Klient, error) {
	row := s.db.QueryRowContext(ctx, selectClause+` WHERE id = $1`, id)
	k, err := scanKlient(row)
	if errors.Is(err, sql.ErrNoRows) {
		return klienten.Klient{}, sentinel.ErrNotFound
	}
	return k, err
}

func (s *Store) List(ctx context.Context, status klienten.Status) ([]klienten.Klient, error) {
	query := selectClause + ` ORDER BY created_at`
	args := []any{}
	if status != "" {
		query = selectClause + ` WHERE status = $1 ORDER BY created_at`
		args = append(args, status)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query klienten: %w", err)
	}
	defer rows.Close()

	var out []klienten.Klient
	for rows.Next() {
		k, err := scanKlient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

func (s *Store) Update(ctx context.Context, k klienten.Klient) error {
	kontakt, komm, err := marshalNested(k)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE klienten SET
			vorname = $2, nachname = $3, geburtsdatum = $4, pflegegrad = $5,
			status = $6, dringlichkeit = $7, kontakt = $8, wunsch_wgs = $9,
			zimmer_id = $10, kommunikation = $11, updated_at = $12
		WHERE id = $1`,
		k.ID, k.Vorname, k.Nachname, k.Geburtsdatum, k.Pflegegrad, k.Status,
		k.Dringlichkeit, kontakt, wgIDs(k.WunschWGs), k.ZimmerID, komm, k.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update klient: %w", err)
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

const selectClause = `
	SELECT id, vorname, nachname, geburtsdatum, pflegegrad, status, dringlichkeit,
	       kontakt, wunsch_wgs, zimmer_id, kommunikation, created_at, updated_at
	FROM klienten`

type scanner interface {
	Scan(dest ...any) error
}

func scanKlient(row scanner) (klienten.Klient, error) {
	var (
		k       klienten.Klient
		kontakt []byte
		komm    []byte
		wgs     pq.StringArray
	)
	err := row.Scan(&k.ID, &k.Vorname, &k.Nachname, &k.Geburtsdatum, &k.Pflegegrad,
		&k.Status, &k.Dringlichkeit, &kontakt, &wgs, &k.ZimmerID, &komm,
		&k.CreatedAt, &k.UpdatedAt)
	if err != nil {
		return klienten.Klient{}, err
	}
	if err := json.Unmarshal(kontakt, &k.Kontakt); err != nil {
		return klienten.Klient{}, fmt.Errorf("decode kontakt: %w", err)
	}
	if err := json.Unmarshal(komm, &k.Kommunikation); err != nil {
		return klienten.Klient{}, fmt.Errorf("decode kommunikation: %w", err)
	}
	for _, raw := range wgs {
		k.WunschWGs = append(k.WunschWGs, domain.WGID(raw))
	}
	return k, nil
}

func marshalNested(k klienten.Klient) (kontakt, komm []byte, err error) {
	kontakt, err = json.Marshal(k.Kontakt)
	if err != nil {
		return nil, nil, fmt.Errorf("encode kontakt: %w", err)
	}
	if k.Kommunikation == nil {
		komm = []byte("[]")
	} else if komm, err = json.Marshal(k.Kommunikation); err != nil {
		return nil, nil, fmt.Errorf("encode kommunikation: %w", err)
	}
	return kontakt, komm, nil
}

func wgIDs(ids []domain.WGID) pq.StringArray {
	out := make(pq.StringArray, 0, len(ids))
	for _, id := range ids {
		out = append(out, string(id))
	}
	return out
}
