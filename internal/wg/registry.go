package wg

import (
	"context"
	"errors"
	"fmt"

	"domusvita/internal/wg/metrics"
	"domusvita/pkg/domain"
	dErrors "domusvita/pkg/domain-errors"
	"domusvita/pkg/platform/sentinel"
)

// Registry is the source of truth for room occupancy. Every mutation
// re-validates the owning facility's invariants before it commits, so no
// caller can observe a self-contradictory snapshot.
type Registry struct {
	store   Store
	metrics *metrics.Metrics
}

func NewRegistry(store Store, m *metrics.Metrics) *Registry {
	return &Registry{store: store, metrics: m}
}

func (r *Registry) GetWG(ctx context.Context, id domain.WGID) (PflegeWG, error) {
	w, err := r.store.GetWG(ctx, id)
	if err != nil {
		return PflegeWG{}, mapStoreErr(err, fmt.Sprintf("pflege-wg %s not found", id))
	}
	return w, nil
}

func (r *Registry) ListWGs(ctx context.Context) ([]PflegeWG, error) {
	wgs, err := r.store.ListWGs(ctx)
	if err != nil {
		return nil, mapStoreErr(err, "list pflege-wgs")
	}
	return wgs, nil
}

// FreieZimmer counts free rooms across all facilities.
func (r *Registry) FreieZimmer(ctx context.Context) (int, error) {
	wgs, err := r.ListWGs(ctx)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, w := range wgs {
		total += w.Frei()
	}
	return total, nil
}

func (r *Registry) GetZimmer(ctx context.Context, id domain.ZimmerID) (Zimmer, error) {
	z, err := r.store.GetZimmer(ctx, id)
	if err != nil {
		return Zimmer{}, mapStoreErr(err, fmt.Sprintf("zimmer %s not found", id))
	}
	return z, nil
}

// MarkOccupied transitions a room to belegt for the given klient. The room
// must be frei, or reserviert by that same klient; anything else is a
// conflict. The current status is re-read under the caller's room lock, so
// the check-then-set here is race-free.
func (r *Registry) MarkOccupied(ctx context.Context, zimmerID domain.ZimmerID, klientID domain.KlientID) (Zimmer, error) {
	z, err := r.GetZimmer(ctx, zimmerID)
	if err != nil {
		r.metrics.IncrementMutation("mark_occupied", "error")
		return Zimmer{}, err
	}

	switch {
	case z.Status == ZimmerFrei:
	case z.Status == ZimmerReserviert && z.BewohnerID == klientID:
	default:
		r.metrics.IncrementMutation("mark_occupied", "conflict")
		return Zimmer{}, dErrors.New(dErrors.CodeConflict,
			fmt.Sprintf("zimmer %s is %s and cannot be occupied", z.ID, z.Status))
	}

	z.Status = ZimmerBelegt
	z.BewohnerID = klientID
	if err := r.commit(ctx, z); err != nil {
		r.metrics.IncrementMutation("mark_occupied", "error")
		return Zimmer{}, err
	}
	r.metrics.IncrementMutation("mark_occupied", "ok")
	return z, nil
}

// MarkFree clears the bewohner reference and sets the room frei. Freeing an
// already free room is a no-op, not an error.
func (r *Registry) MarkFree(ctx context.Context, zimmerID domain.ZimmerID) (Zimmer, error) {
	z, err := r.GetZimmer(ctx, zimmerID)
	if err != nil {
		r.metrics.IncrementMutation("mark_free", "error")
		return Zimmer{}, err
	}
	if z.Status == ZimmerFrei {
		return z, nil
	}

	z.Status = ZimmerFrei
	z.BewohnerID = ""
	if err := r.commit(ctx, z); err != nil {
		r.metrics.IncrementMutation("mark_free", "error")
		return Zimmer{}, err
	}
	r.metrics.IncrementMutation("mark_free", "ok")
	return z, nil
}

// MarkReserved is a direct administrative status set with no occupancy
// coupling. The klient reference records who holds the reservation.
func (r *Registry) MarkReserved(ctx context.Context, zimmerID domain.ZimmerID, klientID domain.KlientID) (Zimmer, error) {
	z, err := r.GetZimmer(ctx, zimmerID)
	if err != nil {
		return Zimmer{}, err
	}
	if z.Status == ZimmerBelegt {
		r.metrics.IncrementMutation("mark_reserved", "conflict")
		return Zimmer{}, dErrors.New(dErrors.CodeConflict,
			fmt.Sprintf("zimmer %s is belegt and cannot be reserved", z.ID))
	}

	z.Status = ZimmerReserviert
	z.BewohnerID = klientID
	if err := r.commit(ctx, z); err != nil {
		return Zimmer{}, err
	}
	r.metrics.IncrementMutation("mark_reserved", "ok")
	return z, nil
}

// MarkRenovation takes a room out of service.
func (r *Registry) MarkRenovation(ctx context.Context, zimmerID domain.ZimmerID) (Zimmer, error) {
	z, err := r.GetZimmer(ctx, zimmerID)
	if err != nil {
		return Zimmer{}, err
	}
	if z.Status == ZimmerBelegt {
		r.metrics.IncrementMutation("mark_renovation", "conflict")
		return Zimmer{}, dErrors.New(dErrors.CodeConflict,
			fmt.Sprintf("zimmer %s is belegt and cannot enter renovation", z.ID))
	}

	z.Status = ZimmerRenovierung
	z.BewohnerID = ""
	if err := r.commit(ctx, z); err != nil {
		return Zimmer{}, err
	}
	r.metrics.IncrementMutation("mark_renovation", "ok")
	return z, nil
}

// commit validates the mutated room against its facility and persists it.
// The facility check runs on the prospective state, before the write: a
// mutation the invariant check rejects must never reach the store.
func (r *Registry) commit(ctx context.Context, z Zimmer) error {
	if err := z.CheckInvariant(); err != nil {
		return err
	}
	w, err := r.store.GetWG(ctx, z.WGID)
	if err != nil {
		return mapStoreErr(err, fmt.Sprintf("load wg %s", z.WGID))
	}
	replaced := false
	for i := range w.Zimmer {
		if w.Zimmer[i].ID == z.ID {
			w.Zimmer[i] = z
			replaced = true
			break
		}
	}
	if !replaced {
		return dErrors.New(dErrors.CodeNotFound,
			fmt.Sprintf("zimmer %s does not belong to wg %s", z.ID, z.WGID))
	}
	if err := w.CheckInvariants(); err != nil {
		return err
	}
	if err := r.store.UpdateZimmer(ctx, z); err != nil {
		return mapStoreErr(err, fmt.Sprintf("update zimmer %s", z.ID))
	}
	r.observeOccupancy(w)
	return nil
}

func (r *Registry) observeOccupancy(w PflegeWG) {
	counts := w.Counts()
	for _, status := range AllZimmerStatuses {
		r.metrics.SetZimmerStatusCount(w.Name, string(status), counts[status])
	}
}

func mapStoreErr(err error, msg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, msg)
	}
	return dErrors.Wrap(err, dErrors.CodeUnavailable, msg)
}
