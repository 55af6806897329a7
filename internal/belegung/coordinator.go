// Package belegung couples a klient status transition with the matching room
// mutation as one unit. It is the only place allowed to perform compensating
// rollback: callers never observe a room occupied by a klient whose status
// change failed.
package belegung

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"domusvita/internal/belegung/metrics"
	"domusvita/internal/klienten"
	"domusvita/internal/wg"
	"domusvita/pkg/domain"
	dErrors "domusvita/pkg/domain-errors"
	"domusvita/pkg/ledger"
	"domusvita/pkg/platform/sentinel"
	"domusvita/pkg/requestcontext"
)

// ErrRoomNotAvailable means a concurrent assignment won the race for the
// room, or the room was never assignable. The caller should refresh and retry
// with a different room.
var ErrRoomNotAvailable = dErrors.New(dErrors.CodeConflict, "zimmer is not available")

// ErrAlreadyAssigned means the klient already occupies a room elsewhere.
var ErrAlreadyAssigned = dErrors.New(dErrors.CodeConflict, "klient already occupies a zimmer")

// Coordinator serializes occupancy changes per room and per klient, keeping
// the klient status and the room state in lockstep.
type Coordinator struct {
	klienten    klienten.Store
	registry    *wg.Registry
	ledger      *ledger.Publisher
	roomLocks   *keyedLocks[domain.ZimmerID]
	klientLocks *keyedLocks[domain.KlientID]
	lockTimeout time.Duration
	logger      *slog.Logger
	metrics     *metrics.Metrics
}

func NewCoordinator(ks klienten.Store, registry *wg.Registry, lp *ledger.Publisher, lockTimeout time.Duration, logger *slog.Logger, m *metrics.Metrics) *Coordinator {
	if lockTimeout <= 0 {
		lockTimeout = 5 * time.Second
	}
	return &Coordinator{
		klienten:    ks,
		registry:    registry,
		ledger:      lp,
		roomLocks:   newKeyedLocks[domain.ZimmerID](),
		klientLocks: newKeyedLocks[domain.KlientID](),
		lockTimeout: lockTimeout,
		logger:      logger,
		metrics:     m,
	}
}

// Assign makes the klient the bewohner of the given room. Validation happens
// under the room and klient locks: both records are re-read there, so two
// concurrent calls on the same room yield exactly one success and one
// conflict, and two calls for the same klient on different rooms do too.
func (c *Coordinator) Assign(ctx context.Context, klientID domain.KlientID, zimmerID domain.ZimmerID) (klienten.Klient, wg.Zimmer, error) {
	release, err := c.lock(ctx, zimmerID, klientID)
	if err != nil {
		c.metrics.IncrementOperation("assign", "timeout")
		return klienten.Klient{}, wg.Zimmer{}, err
	}
	defer release()

	zimmer, err := c.registry.GetZimmer(ctx, zimmerID)
	if err != nil {
		c.metrics.IncrementOperation("assign", "error")
		return klienten.Klient{}, wg.Zimmer{}, err
	}
	assignable := zimmer.Status == wg.ZimmerFrei ||
		(zimmer.Status == wg.ZimmerReserviert && zimmer.BewohnerID == klientID)
	if !assignable {
		c.metrics.IncrementOperation("assign", "conflict")
		return klienten.Klient{}, wg.Zimmer{}, ErrRoomNotAvailable
	}

	k, err := c.klienten.Get(ctx, klientID)
	if err != nil {
		c.metrics.IncrementOperation("assign", "error")
		return klienten.Klient{}, wg.Zimmer{}, mapStoreErr(err, fmt.Sprintf("klient %s not found", klientID))
	}
	if k.Status == klienten.StatusBewohner || !k.ZimmerID.IsZero() {
		c.metrics.IncrementOperation("assign", "conflict")
		return klienten.Klient{}, wg.Zimmer{}, ErrAlreadyAssigned
	}
	if err := klienten.CanTransition(k.Status, klienten.StatusBewohner); err != nil {
		c.metrics.IncrementOperation("assign", "invalid")
		return klienten.Klient{}, wg.Zimmer{}, err
	}

	vorherZimmer := zimmer.Status
	occupied, err := c.registry.MarkOccupied(ctx, zimmerID, klientID)
	if err != nil {
		c.metrics.IncrementOperation("assign", "error")
		return klienten.Klient{}, wg.Zimmer{}, err
	}

	vorherStatus := k.Status
	k.Status = klienten.StatusBewohner
	k.ZimmerID = zimmerID
	k.UpdatedAt = requestcontext.Now(ctx)
	if err := c.klienten.Update(ctx, k); err != nil {
		c.rollbackOccupy(ctx, zimmerID, klientID, vorherZimmer)
		c.metrics.IncrementOperation("assign", "error")
		return klienten.Klient{}, wg.Zimmer{}, mapStoreErr(err, fmt.Sprintf("update klient %s", klientID))
	}

	c.appendEntry(ctx, ledger.Entry{
		KlientID: klientID,
		Aktion:   ledger.AktionZimmerBelegt,
		Vorher:   string(vorherZimmer),
		Nachher:  zimmerID.String(),
	})
	c.appendEntry(ctx, ledger.Entry{
		KlientID: klientID,
		Aktion:   ledger.AktionStatusGeaendert,
		Vorher:   string(vorherStatus),
		Nachher:  string(klienten.StatusBewohner),
	})

	c.metrics.IncrementOperation("assign", "ok")
	c.logger.InfoContext(ctx, "klient assigned to zimmer",
		"klient_id", klientID,
		"zimmer_id", zimmerID,
		"vorher", vorherStatus,
	)
	return k, occupied, nil
}

// Release frees the klient's room and applies the exit transition, both under
// the room and klient locks. Used for the ausgezogen/verstorben/abgesagt
// exits from bewohner.
func (c *Coordinator) Release(ctx context.Context, klientID domain.KlientID, newStatus klienten.Status) (klienten.Klient, error) {
	k, err := c.klienten.Get(ctx, klientID)
	if err != nil {
		c.metrics.IncrementOperation("release", "error")
		return klienten.Klient{}, mapStoreErr(err, fmt.Sprintf("klient %s not found", klientID))
	}
	if k.Status != klienten.StatusBewohner || k.ZimmerID.IsZero() {
		c.metrics.IncrementOperation("release", "invalid")
		return klienten.Klient{}, dErrors.New(dErrors.CodeInvalidState,
			fmt.Sprintf("klient %s occupies no zimmer", klientID))
	}
	if err := klienten.CanTransition(k.Status, newStatus); err != nil {
		c.metrics.IncrementOperation("release", "invalid")
		return klienten.Klient{}, err
	}

	zimmerID := k.ZimmerID
	release, err := c.lock(ctx, zimmerID, klientID)
	if err != nil {
		c.metrics.IncrementOperation("release", "timeout")
		return klienten.Klient{}, err
	}
	defer release()

	// Re-read under the lock; a concurrent release may have won.
	k, err = c.klienten.Get(ctx, klientID)
	if err != nil {
		c.metrics.IncrementOperation("release", "error")
		return klienten.Klient{}, mapStoreErr(err, fmt.Sprintf("klient %s not found", klientID))
	}
	if k.Status != klienten.StatusBewohner || k.ZimmerID != zimmerID {
		c.metrics.IncrementOperation("release", "conflict")
		return klienten.Klient{}, dErrors.New(dErrors.CodeConflict,
			fmt.Sprintf("klient %s was released concurrently", klientID))
	}

	if _, err := c.registry.MarkFree(ctx, zimmerID); err != nil {
		c.metrics.IncrementOperation("release", "error")
		return klienten.Klient{}, err
	}

	vorherStatus := k.Status
	k.Status = newStatus
	k.ZimmerID = ""
	k.UpdatedAt = requestcontext.Now(ctx)
	if err := c.klienten.Update(ctx, k); err != nil {
		c.rollbackFree(ctx, zimmerID, klientID)
		c.metrics.IncrementOperation("release", "error")
		return klienten.Klient{}, mapStoreErr(err, fmt.Sprintf("update klient %s", klientID))
	}

	c.appendEntry(ctx, ledger.Entry{
		KlientID: klientID,
		Aktion:   ledger.AktionZimmerFreigegeben,
		Vorher:   zimmerID.String(),
		Nachher:  string(wg.ZimmerFrei),
	})
	c.appendEntry(ctx, ledger.Entry{
		KlientID: klientID,
		Aktion:   ledger.AktionStatusGeaendert,
		Vorher:   string(vorherStatus),
		Nachher:  string(newStatus),
	})

	c.metrics.IncrementOperation("release", "ok")
	c.logger.InfoContext(ctx, "klient released from zimmer",
		"klient_id", klientID,
		"zimmer_id", zimmerID,
		"nachher", newStatus,
	)
	return k, nil
}

// lock takes the room lock, then the klient lock. The order is fixed across
// all coordinator operations: two calls for the same klient serialize on the
// klient lock even when they target rooms in different facilities, and the
// one-direction ordering rules out deadlock.
func (c *Coordinator) lock(ctx context.Context, zimmerID domain.ZimmerID, klientID domain.KlientID) (func(), error) {
	lockCtx, cancel := context.WithTimeout(ctx, c.lockTimeout)
	defer cancel()

	start := time.Now()
	defer func() { c.metrics.ObserveLockWait(time.Since(start)) }()

	releaseRoom, err := c.roomLocks.acquire(lockCtx, zimmerID)
	if err != nil {
		return nil, err
	}
	releaseKlient, err := c.klientLocks.acquire(lockCtx, klientID)
	if err != nil {
		releaseRoom()
		return nil, err
	}
	return func() {
		releaseKlient()
		releaseRoom()
	}, nil
}

// rollbackOccupy undoes a MarkOccupied after the status half failed. A
// reservation held before the attempt is restored, not dropped.
func (c *Coordinator) rollbackOccupy(ctx context.Context, zimmerID domain.ZimmerID, klientID domain.KlientID, vorher wg.ZimmerStatus) {
	c.metrics.IncrementRollback()
	var err error
	if vorher == wg.ZimmerReserviert {
		_, err = c.registry.MarkReserved(ctx, zimmerID, klientID)
	} else {
		_, err = c.registry.MarkFree(ctx, zimmerID)
	}
	if err != nil {
		c.logger.ErrorContext(ctx, "occupancy rollback failed",
			"zimmer_id", zimmerID,
			"klient_id", klientID,
			"error", err,
		)
	}
}

// rollbackFree re-occupies the room after the exit transition failed.
func (c *Coordinator) rollbackFree(ctx context.Context, zimmerID domain.ZimmerID, klientID domain.KlientID) {
	c.metrics.IncrementRollback()
	if _, err := c.registry.MarkOccupied(ctx, zimmerID, klientID); err != nil {
		c.logger.ErrorContext(ctx, "release rollback failed",
			"zimmer_id", zimmerID,
			"klient_id", klientID,
			"error", err,
		)
	}
}

func (c *Coordinator) appendEntry(ctx context.Context, entry ledger.Entry) {
	if err := c.ledger.Append(ctx, entry); err != nil {
		c.logger.ErrorContext(ctx, "ledger append failed",
			"klient_id", entry.KlientID,
			"aktion", entry.Aktion,
			"error", err,
		)
	}
}

func mapStoreErr(err error, msg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, msg)
	}
	return dErrors.Wrap(err, dErrors.CodeUnavailable, msg)
}
