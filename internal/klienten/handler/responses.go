package handler

import (
	"domusvita/internal/klienten"
	"domusvita/pkg/ledger"
)

// KlientResponse is the detail payload: the record plus its activity trail,
// newest entry first for display.
type KlientResponse struct {
	klienten.Klient
	Aktivitaeten []ledger.Entry `json:"aktivitaeten"`
}

func toDetailResponse(k klienten.Klient, trail []ledger.Entry) KlientResponse {
	reversed := make([]ledger.Entry, 0, len(trail))
	for i := len(trail) - 1; i >= 0; i-- {
		reversed = append(reversed, trail[i])
	}
	return KlientResponse{Klient: k, Aktivitaeten: reversed}
}
