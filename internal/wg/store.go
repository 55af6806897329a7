package wg

import (
	"context"

	"domusvita/pkg/domain"
)

// Store persists facilities and their rooms. Implementations must provide
// read-your-writes consistency: a snapshot read after UpdateZimmer returns
// the updated room.
type Store interface {
	SaveWG(ctx context.Context, w PflegeWG) error
	GetWG(ctx context.Context, id domain.WGID) (PflegeWG, error)
	ListWGs(ctx context.Context) ([]PflegeWG, error)
	GetZimmer(ctx context.Context, id domain.ZimmerID) (Zimmer, error)
	UpdateZimmer(ctx context.Context, z Zimmer) error
}
