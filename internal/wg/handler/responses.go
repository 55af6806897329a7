package handler

import "domusvita/internal/wg"

// WGResponse is the list/detail payload for one facility, with the derived
// occupancy counts computed by the registry rather than the caller.
type WGResponse struct {
	ID                 string      `json:"id"`
	Name               string      `json:"name"`
	Kurzname           string      `json:"kurzname,omitempty"`
	Adresse            string      `json:"adresse"`
	Beschreibung       string      `json:"beschreibung,omitempty"`
	Grundriss          string      `json:"grundriss,omitempty"`
	Kapazitaet         int         `json:"kapazitaet"`
	FreieZimmer        int         `json:"freie_zimmer"`
	BelegteZimmer      int         `json:"belegte_zimmer"`
	ReservierteZimmer  int         `json:"reservierte_zimmer"`
	AuslastungProzent  float64     `json:"auslastung_prozent"`
	Zimmer             []wg.Zimmer `json:"zimmer,omitempty"`
}

func toResponse(w wg.PflegeWG, includeZimmer bool) WGResponse {
	counts := w.Counts()
	resp := WGResponse{
		ID:                w.ID.String(),
		Name:              w.Name,
		Kurzname:          w.Kurzname,
		Adresse:           w.Adresse,
		Beschreibung:      w.Beschreibung,
		Grundriss:         w.Grundriss,
		Kapazitaet:        w.Kapazitaet,
		FreieZimmer:       counts[wg.ZimmerFrei],
		BelegteZimmer:     counts[wg.ZimmerBelegt],
		ReservierteZimmer: counts[wg.ZimmerReserviert],
		AuslastungProzent: w.Auslastung(),
	}
	if includeZimmer {
		resp.Zimmer = w.Zimmer
	}
	return resp
}
