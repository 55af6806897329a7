package kosten

import (
	"domusvita/pkg/domain"
)

// Kategorie is one monthly cost category.
type Kategorie string

const (
	KatMiete               Kategorie = "miete"
	KatNebenkosten         Kategorie = "nebenkosten"
	KatBetreuungspauschale Kategorie = "betreuungspauschale"
	KatVerpflegung         Kategorie = "verpflegung"
	KatInvestitionskosten  Kategorie = "investitionskosten"
)

// AllKategorien lists the cost categories in payload order.
var AllKategorien = []Kategorie{
	KatMiete, KatNebenkosten, KatBetreuungspauschale, KatVerpflegung, KatInvestitionskosten,
}

// RateConfig maps each category to its monthly rate per room in euros.
type RateConfig map[Kategorie]float64

// DefaultRates returns the global monthly rates. Facilities can override them
// individually.
func DefaultRates() RateConfig {
	return RateConfig{
		KatMiete:               800,
		KatNebenkosten:         150,
		KatBetreuungspauschale: 400,
		KatVerpflegung:         300,
		KatInvestitionskosten:  100,
	}
}

// ProZimmer sums all category rates into the monthly per-room figure.
func (r RateConfig) ProZimmer() float64 {
	total := 0.0
	for _, kat := range AllKategorien {
		total += r[kat]
	}
	return total
}

// Rates resolves the rate config for one facility: the per-WG override when
// present, the defaults otherwise.
type Rates struct {
	defaults  RateConfig
	overrides map[domain.WGID]RateConfig
}

func NewRates(defaults RateConfig, overrides map[domain.WGID]RateConfig) *Rates {
	if defaults == nil {
		defaults = DefaultRates()
	}
	return &Rates{defaults: defaults, overrides: overrides}
}

func (r *Rates) For(wgID domain.WGID) RateConfig {
	if rc, ok := r.overrides[wgID]; ok {
		return rc
	}
	return r.defaults
}
