package kosten

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"domusvita/internal/wg"
	"domusvita/pkg/domain"
)

// Registry supplies occupancy snapshots. The cost model only reads; it never
// blocks writers.
type Registry interface {
	GetWG(ctx context.Context, id domain.WGID) (wg.PflegeWG, error)
	ListWGs(ctx context.Context) ([]wg.PflegeWG, error)
}

// Service computes cost breakdowns from fresh registry snapshots.
type Service struct {
	registry Registry
	rates    *Rates
}

func NewService(registry Registry, rates *Rates) *Service {
	if rates == nil {
		rates = NewRates(nil, nil)
	}
	return &Service{registry: registry, rates: rates}
}

// ForWG computes the breakdown for one facility.
func (s *Service) ForWG(ctx context.Context, id domain.WGID) (Breakdown, error) {
	w, err := s.registry.GetWG(ctx, id)
	if err != nil {
		return Breakdown{}, err
	}
	return Compute(w, s.rates.For(id)), nil
}

// WGSummary is one facility's line in the aggregate payload.
type WGSummary struct {
	WGID       string  `json:"wg_id"`
	WGName     string  `json:"wg_name"`
	Monatlich  float64 `json:"monatlich"`
	Auslastung float64 `json:"auslastung"`
}

// Gesamt is the cost picture across all facilities.
type Gesamt struct {
	WGs              []WGSummary `json:"wgs"`
	GesamtMonatlich  float64     `json:"gesamt_monatlich"`
	GesamtJaehrlich  float64     `json:"gesamt_jaehrlich"`
	GesamtEntgangen  float64     `json:"gesamt_entgangen"`
	GesamtBewohner   int         `json:"gesamt_bewohner"`
	GesamtKapazitaet int         `json:"gesamt_kapazitaet"`
	GesamtAuslastung float64     `json:"gesamt_auslastung"`
}

// Aggregate fans the per-facility computation out and sums the results.
func (s *Service) Aggregate(ctx context.Context) (Gesamt, error) {
	wgs, err := s.registry.ListWGs(ctx)
	if err != nil {
		return Gesamt{}, err
	}

	var (
		mu         sync.Mutex
		breakdowns = make([]Breakdown, 0, len(wgs))
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, w := range wgs {
		g.Go(func() error {
			b, err := s.ForWG(gctx, w.ID)
			if err != nil {
				return err
			}
			mu.Lock()
			breakdowns = append(breakdowns, b)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Gesamt{}, err
	}
	sort.Slice(breakdowns, func(i, j int) bool { return breakdowns[i].WGName < breakdowns[j].WGName })

	var out Gesamt
	for _, b := range breakdowns {
		out.WGs = append(out.WGs, WGSummary{
			WGID:       b.WGID,
			WGName:     b.WGName,
			Monatlich:  b.GesamtMonatlich,
			Auslastung: b.AuslastungProzent,
		})
		out.GesamtMonatlich += b.GesamtMonatlich
		out.GesamtEntgangen += b.EntgangeneEinnahmen
		out.GesamtBewohner += b.BelegteZimmer
		out.GesamtKapazitaet += b.Kapazitaet
	}
	out.GesamtJaehrlich = out.GesamtMonatlich * 12
	if out.GesamtKapazitaet > 0 {
		out.GesamtAuslastung = float64(out.GesamtBewohner) / float64(out.GesamtKapazitaet) * 100
	}
	return out, nil
}
