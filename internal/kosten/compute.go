package kosten

import (
	"domusvita/internal/wg"
)

// KostenDetail is one category's line in a breakdown.
type KostenDetail struct {
	ProZimmer float64 `json:"pro_zimmer"`
	Gesamt    float64 `json:"gesamt"`
}

// Breakdown is the derived cost picture of one facility. It is computed from
// an occupancy snapshot and never persisted.
type Breakdown struct {
	WGID                string                     `json:"wg_id"`
	WGName              string                     `json:"wg_name"`
	BelegteZimmer       int                        `json:"belegte_zimmer"`
	Kapazitaet          int                        `json:"kapazitaet"`
	AuslastungProzent   float64                    `json:"auslastung_prozent"`
	KostenDetail        map[Kategorie]KostenDetail `json:"kosten_detail"`
	KostenProBewohner   float64                    `json:"kosten_pro_bewohner"`
	GesamtMonatlich     float64                    `json:"gesamt_monatlich"`
	GesamtJaehrlich     float64                    `json:"gesamt_jaehrlich"`
	EntgangeneEinnahmen float64                    `json:"entgangene_einnahmen"`
}

// Compute turns one facility snapshot and a rate config into a cost
// breakdown. Pure: no state, no side effects.
//
// With zero occupied rooms the per-bewohner figure falls back to the summed
// rate config instead of dividing by zero, so lost revenue still reflects the
// facility standing empty.
func Compute(w wg.PflegeWG, rates RateConfig) Breakdown {
	belegt := w.Belegt()

	b := Breakdown{
		WGID:              w.ID.String(),
		WGName:            w.Name,
		BelegteZimmer:     belegt,
		Kapazitaet:        w.Kapazitaet,
		AuslastungProzent: w.Auslastung(),
		KostenDetail:      make(map[Kategorie]KostenDetail, len(AllKategorien)),
	}

	for _, kat := range AllKategorien {
		rate := rates[kat]
		b.KostenDetail[kat] = KostenDetail{
			ProZimmer: rate,
			Gesamt:    rate * float64(belegt),
		}
		b.GesamtMonatlich += rate * float64(belegt)
	}
	b.GesamtJaehrlich = b.GesamtMonatlich * 12

	if belegt > 0 {
		b.KostenProBewohner = b.GesamtMonatlich / float64(belegt)
	} else {
		b.KostenProBewohner = rates.ProZimmer()
	}
	b.EntgangeneEinnahmen = float64(w.Kapazitaet-belegt) * b.KostenProBewohner

	return b
}
