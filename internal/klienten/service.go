package klienten

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"domusvita/internal/klienten/metrics"
	"domusvita/pkg/domain"
	dErrors "domusvita/pkg/domain-errors"
	"domusvita/pkg/ledger"
	"domusvita/pkg/platform/sentinel"
	"domusvita/pkg/requestcontext"
)

// ErrNoRoomAssigned is returned when a klient would enter bewohner without an
// occupied room. Assignment must precede or accompany the transition.
var ErrNoRoomAssigned = dErrors.New(dErrors.CodeInvalidState,
	"klient has no zimmer assigned: assign a room before setting status bewohner")

// Releaser frees a bewohner's room and applies the exit transition under the
// coordinator's per-room exclusivity. Wired in main; the service never frees
// a room on its own, otherwise the occupancy invariant could be observed
// half-applied.
type Releaser interface {
	Release(ctx context.Context, klientID domain.KlientID, newStatus Status) (Klient, error)
}

// ZimmerZaehler supplies the free-room count for the dashboard.
type ZimmerZaehler interface {
	FreieZimmer(ctx context.Context) (int, error)
}

// Service runs the intake pipeline: klient CRUD plus the status state machine.
type Service struct {
	store    Store
	ledger   *ledger.Publisher
	zimmer   ZimmerZaehler
	releaser Releaser
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func NewService(store Store, lp *ledger.Publisher, zimmer ZimmerZaehler, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{store: store, ledger: lp, zimmer: zimmer, logger: logger, metrics: m}
}

// SetReleaser wires the assignment coordinator in after construction; the
// coordinator itself depends on this package's store.
func (s *Service) SetReleaser(r Releaser) { s.releaser = r }

// Create registers a new klient. Status always starts at neu.
func (s *Service) Create(ctx context.Context, k Klient) (Klient, error) {
	now := requestcontext.Now(ctx)
	if k.ID.IsZero() {
		k.ID = domain.NewKlientID()
	}
	k.Status = StatusNeu
	k.ZimmerID = ""
	if k.Pflegegrad == "" {
		k.Pflegegrad = PflegegradKeiner
	}
	if k.Dringlichkeit == "" {
		k.Dringlichkeit = DringlichkeitFlexibel
	}
	k.CreatedAt = now
	k.UpdatedAt = now

	if err := s.store.Create(ctx, k); err != nil {
		return Klient{}, mapStoreErr(err, fmt.Sprintf("create klient %s", k.ID))
	}

	if err := s.ledger.Append(ctx, ledger.Entry{
		KlientID: k.ID,
		Aktion:   ledger.AktionKlientAngelegt,
		Nachher:  string(StatusNeu),
	}); err != nil {
		s.logger.ErrorContext(ctx, "ledger append failed",
			"klient_id", k.ID,
			"aktion", ledger.AktionKlientAngelegt,
			"error", err,
		)
	}

	s.metrics.IncrementCreated()
	s.logger.InfoContext(ctx, "klient created",
		"klient_id", k.ID,
		"name", k.Name(),
		"dringlichkeit", k.Dringlichkeit,
	)
	return k, nil
}

// Get returns the klient with its activity trail.
func (s *Service) Get(ctx context.Context, id domain.KlientID) (Klient, []ledger.Entry, error) {
	k, err := s.store.Get(ctx, id)
	if err != nil {
		return Klient{}, nil, mapStoreErr(err, fmt.Sprintf("klient %s not found", id))
	}
	trail, err := s.ledger.List(ctx, id)
	if err != nil {
		return Klient{}, nil, mapStoreErr(err, fmt.Sprintf("load activity trail for klient %s", id))
	}
	return k, trail, nil
}

// List returns all klienten, optionally filtered by status.
func (s *Service) List(ctx context.Context, status Status) ([]Klient, error) {
	out, err := s.store.List(ctx, status)
	if err != nil {
		return nil, mapStoreErr(err, "list klienten")
	}
	return out, nil
}

// SetStatus applies one pipeline transition.
//
// Entering bewohner requires an already assigned room; leaving bewohner while
// a room is occupied is delegated to the coordinator so the room is freed
// under the same per-room lock. Setting the current status again succeeds and
// is still ledgered, matching how admins use free-form status edits.
func (s *Service) SetStatus(ctx context.Context, id domain.KlientID, newStatus Status) (Klient, error) {
	k, err := s.store.Get(ctx, id)
	if err != nil {
		return Klient{}, mapStoreErr(err, fmt.Sprintf("klient %s not found", id))
	}

	if err := CanTransition(k.Status, newStatus); err != nil {
		s.metrics.IncrementRejection("invalid_state")
		return Klient{}, err
	}

	if newStatus == StatusBewohner && k.ZimmerID.IsZero() {
		s.metrics.IncrementRejection("no_room")
		return Klient{}, ErrNoRoomAssigned
	}

	if k.Status == StatusBewohner && newStatus != StatusBewohner && !k.ZimmerID.IsZero() {
		if s.releaser == nil {
			return Klient{}, dErrors.New(dErrors.CodeInternal, "no releaser wired")
		}
		return s.releaser.Release(ctx, id, newStatus)
	}

	vorher := k.Status
	k.Status = newStatus
	k.UpdatedAt = requestcontext.Now(ctx)
	if err := s.store.Update(ctx, k); err != nil {
		return Klient{}, mapStoreErr(err, fmt.Sprintf("update klient %s", id))
	}

	if err := s.ledger.Append(ctx, ledger.Entry{
		KlientID: k.ID,
		Aktion:   ledger.AktionStatusGeaendert,
		Vorher:   string(vorher),
		Nachher:  string(newStatus),
	}); err != nil {
		s.logger.ErrorContext(ctx, "ledger append failed",
			"klient_id", k.ID,
			"aktion", ledger.AktionStatusGeaendert,
			"error", err,
		)
	}

	s.metrics.IncrementTransition(string(vorher), string(newStatus))
	s.logger.InfoContext(ctx, "klient status changed",
		"klient_id", k.ID,
		"vorher", vorher,
		"nachher", newStatus,
	)
	return k, nil
}

// AddKommunikation appends one communication-log entry. The log is
// append-only: there is no edit or delete.
func (s *Service) AddKommunikation(ctx context.Context, id domain.KlientID, typ KommunikationTyp, inhalt string) (Klient, error) {
	k, err := s.store.Get(ctx, id)
	if err != nil {
		return Klient{}, mapStoreErr(err, fmt.Sprintf("klient %s not found", id))
	}

	entry := Kommunikation{
		ID:        uuid.NewString(),
		Typ:       typ,
		Inhalt:    inhalt,
		Actor:     requestcontext.Actor(ctx),
		Timestamp: requestcontext.Now(ctx),
	}
	k.Kommunikation = append(k.Kommunikation, entry)
	k.UpdatedAt = entry.Timestamp
	if err := s.store.Update(ctx, k); err != nil {
		return Klient{}, mapStoreErr(err, fmt.Sprintf("update klient %s", id))
	}

	if err := s.ledger.Append(ctx, ledger.Entry{
		KlientID: k.ID,
		Aktion:   ledger.AktionKommunikation,
		Nachher:  string(typ),
	}); err != nil {
		s.logger.ErrorContext(ctx, "ledger append failed",
			"klient_id", k.ID,
			"aktion", ledger.AktionKommunikation,
			"error", err,
		)
	}
	return k, nil
}

// Dashboard summarizes the pipeline.
type Dashboard struct {
	NachStatus    map[Status]int `json:"nach_status"`
	Bewohner      int            `json:"bewohner"`
	Interessenten int            `json:"interessenten"`
	FreieZimmer   int            `json:"freie_zimmer"`
}

// GetDashboard computes per-status counts plus the free-room total.
// Interessenten are klienten still in the pipeline: neither bewohner nor in
// a terminal status.
func (s *Service) GetDashboard(ctx context.Context) (Dashboard, error) {
	all, err := s.store.List(ctx, "")
	if err != nil {
		return Dashboard{}, mapStoreErr(err, "list klienten")
	}

	d := Dashboard{NachStatus: make(map[Status]int, len(AllStatuses))}
	for _, k := range all {
		d.NachStatus[k.Status]++
		switch {
		case k.Status == StatusBewohner:
			d.Bewohner++
		case !k.Status.Terminal():
			d.Interessenten++
		}
	}

	if s.zimmer != nil {
		d.FreieZimmer, err = s.zimmer.FreieZimmer(ctx)
		if err != nil {
			return Dashboard{}, err
		}
	}
	return d, nil
}

func mapStoreErr(err error, msg string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, msg)
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, msg)
	}
	return dErrors.Wrap(err, dErrors.CodeUnavailable, msg)
}
