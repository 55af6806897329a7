// Package ledger records every status and occupancy change as an append-only
// activity trail per klient. Entries are immutable once appended and are never
// deleted; the detail view renders them newest-first by reversing the
// chronological order this package returns.
package ledger

import (
	"context"
	"time"

	"domusvita/pkg/domain"
)

// Aktion labels what happened. The set is closed: only the pipeline state
// machine and the assignment coordinator create entries.
type Aktion string

const (
	AktionStatusGeaendert   Aktion = "status_geaendert"
	AktionZimmerBelegt      Aktion = "zimmer_belegt"
	AktionZimmerFreigegeben Aktion = "zimmer_freigegeben"
	AktionKlientAngelegt    Aktion = "klient_angelegt"
	AktionKommunikation     Aktion = "kommunikation_erfasst"
)

// Entry is a single immutable activity record.
type Entry struct {
	ID        string          `json:"id"`
	KlientID  domain.KlientID `json:"klient_id"`
	Aktion    Aktion          `json:"aktion"`
	Vorher    string          `json:"vorher,omitempty"`
	Nachher   string          `json:"nachher,omitempty"`
	Actor     string          `json:"actor"`
	RequestID string          `json:"request_id,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// Store persists entries. Implementations must keep per-klient append order.
type Store interface {
	Append(ctx context.Context, entry Entry) error
	// ListByKlient returns entries in chronological (append) order.
	ListByKlient(ctx context.Context, klientID domain.KlientID) ([]Entry, error)
}

// Sink receives a copy of every appended entry for operational fan-out
// (e.g. a Kafka topic consumed by reporting). Sinks are best-effort and must
// never fail the write path.
type Sink interface {
	Publish(ctx context.Context, entry Entry) error
}
