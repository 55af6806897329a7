package klienten

import (
	"context"

	"domusvita/pkg/domain"
)

// Store persists klient records. Implementations return
// sentinel.ErrNotFound for unknown IDs.
type Store interface {
	Create(ctx context.Context, k Klient) error
	Get(ctx context.Context, id domain.KlientID) (Klient, error)
	List(ctx context.Context, status Status) ([]Klient, error)
	Update(ctx context.Context, k Klient) error
}
