package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"domusvita/internal/kosten"
	"domusvita/internal/wg"
)

func newRouter(t *testing.T) (chi.Router, *wg.InMemoryStore) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := wg.NewInMemoryStore()
	service := kosten.NewService(wg.NewRegistry(store, nil), nil)
	r := chi.NewRouter()
	New(service, logger).Register(r)
	return r, store
}

func seed(t *testing.T, store *wg.InMemoryStore) {
	t.Helper()
	w := wg.PflegeWG{
		ID:         "wg-1",
		Name:       "WG Lindenhof",
		Adresse:    "Hauptstr. 1",
		Kapazitaet: 4,
		Zimmer: []wg.Zimmer{
			{ID: "z-1", WGID: "wg-1", Nummer: "101", Status: wg.ZimmerBelegt, BewohnerID: "k-1"},
			{ID: "z-2", WGID: "wg-1", Nummer: "102", Status: wg.ZimmerBelegt, BewohnerID: "k-2"},
			{ID: "z-3", WGID: "wg-1", Nummer: "103", Status: wg.ZimmerBelegt, BewohnerID: "k-3"},
			{ID: "z-4", WGID: "wg-1", Nummer: "104", Status: wg.ZimmerFrei},
		},
	}
	require.NoError(t, store.SaveWG(context.Background(), w))
}

func TestHandleForWG(t *testing.T) {
	r, store := newRouter(t)
	seed(t, store)

	req := httptest.NewRequest(http.MethodGet, "/pflege-wgs/wg-1/kosten", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var b kosten.Breakdown
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&b))
	assert.Equal(t, 5250.0, b.GesamtMonatlich)
	assert.Equal(t, 75.0, b.AuslastungProzent)
	assert.Equal(t, 1750.0, b.KostenProBewohner)
	assert.Equal(t, 1750.0, b.EntgangeneEinnahmen)

	t.Run("unknown wg", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/pflege-wgs/missing/kosten", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandleAggregate(t *testing.T) {
	r, store := newRouter(t)
	seed(t, store)

	// "gesamt" must not be routed as a WG id.
	req := httptest.NewRequest(http.MethodGet, "/pflege-wgs/kosten/gesamt", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var g kosten.Gesamt
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&g))
	require.Len(t, g.WGs, 1)
	assert.Equal(t, "WG Lindenhof", g.WGs[0].WGName)
	assert.Equal(t, 5250.0, g.GesamtMonatlich)
	assert.Equal(t, 63000.0, g.GesamtJaehrlich)
	assert.Equal(t, 3, g.GesamtBewohner)
	assert.Equal(t, 4, g.GesamtKapazitaet)
	assert.Equal(t, 75.0, g.GesamtAuslastung)
}
