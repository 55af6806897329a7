package ledger

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"domusvita/pkg/domain"
	"domusvita/pkg/requestcontext"
)

// Publisher is the single write path into the ledger. The store append is
// synchronous so entries for one klient keep causal order; the optional sink
// is fire-and-forget.
type Publisher struct {
	store  Store
	sink   Sink
	logger *slog.Logger
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithSink attaches an operational fan-out sink.
func WithSink(sink Sink) Option {
	return func(p *Publisher) { p.sink = sink }
}

func NewPublisher(store Store, logger *slog.Logger, opts ...Option) *Publisher {
	p := &Publisher{store: store, logger: logger}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Append fills in identity, actor, and timestamp from the context and persists
// the entry. Sink failures are logged, never surfaced: the ledger store is the
// system of record, the sink is a mirror.
func (p *Publisher) Append(ctx context.Context, entry Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = requestcontext.Now(ctx)
	}
	if entry.Actor == "" {
		entry.Actor = requestcontext.Actor(ctx)
	}
	if entry.RequestID == "" {
		entry.RequestID = requestcontext.RequestID(ctx)
	}

	if err := p.store.Append(ctx, entry); err != nil {
		return err
	}

	if p.sink != nil {
		if err := p.sink.Publish(ctx, entry); err != nil {
			p.logger.WarnContext(ctx, "ledger sink publish failed",
				"klient_id", entry.KlientID,
				"aktion", entry.Aktion,
				"error", err,
			)
		}
	}
	return nil
}

// List returns the klient's trail in chronological order.
func (p *Publisher) List(ctx context.Context, klientID domain.KlientID) ([]Entry, error) {
	return p.store.ListByKlient(ctx, klientID)
}
