package test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"domusvita/internal/belegung"
	belegungHandler "domusvita/internal/belegung/handler"
	"domusvita/internal/klienten"
	klientenHandler "domusvita/internal/klienten/handler"
	"domusvita/internal/kosten"
	kostenHandler "domusvita/internal/kosten/handler"
	httptransport "domusvita/internal/transport/http"
	"domusvita/internal/wg"
	wgHandler "domusvita/internal/wg/handler"
	"domusvita/pkg/ledger"
	ledgerMemory "domusvita/pkg/ledger/store/memory"
	"domusvita/pkg/testutil"
)

func newApp(t *testing.T) http.Handler {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	klientenStore := klienten.NewInMemoryStore()
	wgStore := wg.NewInMemoryStore()
	publisher := ledger.NewPublisher(ledgerMemory.NewInMemoryStore(), log)

	registry := wg.NewRegistry(wgStore, nil)
	pipeline := klienten.NewService(klientenStore, publisher, registry, log, nil)
	coordinator := belegung.NewCoordinator(klientenStore, registry, publisher, time.Second, log, nil)
	pipeline.SetReleaser(coordinator)

	if err := wgStore.SaveWG(context.Background(), wg.PflegeWG{
		ID:         "wg-1",
		Name:       "WG Sonnenhof",
		Adresse:    "Gartenweg 5",
		Kapazitaet: 1,
		Zimmer: []wg.Zimmer{
			{ID: "z-1", WGID: "wg-1", Nummer: "101", Status: wg.ZimmerFrei},
		},
	}); err != nil {
		t.Fatalf("seed wg: %v", err)
	}

	return httptransport.NewRouter(
		klientenHandler.New(pipeline, coordinator, log),
		wgHandler.New(registry, log),
		belegungHandler.New(coordinator, log),
		kostenHandler.New(kosten.NewService(registry, nil), log),
	)
}

func TestRouterScaffold(t *testing.T) {
	testutil.Given(t, "the fully wired application on memory stores", func(t *testing.T) {
		router := newApp(t)

		testutil.When(t, "calling GET /healthz", func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			testutil.Then(t, "it should respond ok", func(t *testing.T) {
				if rec.Code != http.StatusOK {
					t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
				}
			})
		})

		testutil.When(t, "moving a fresh klient into a free zimmer", func(t *testing.T) {
			body := bytes.NewBufferString(`{"vorname":"Erika","nachname":"Mustermann"}`)
			req := httptest.NewRequest(http.MethodPost, "/api/klienten", body)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)
			if rec.Code != http.StatusCreated {
				t.Fatalf("create klient: expected status %d, got %d", http.StatusCreated, rec.Code)
			}
			var created klienten.Klient
			if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
				t.Fatalf("decode created klient: %v", err)
			}

			assignBody := bytes.NewBufferString(`{"klient_id":"` + created.ID.String() + `"}`)
			req = httptest.NewRequest(http.MethodPost, "/api/zimmer/z-1/assign", assignBody)
			rec = httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			testutil.Then(t, "the klient becomes a bewohner of that zimmer", func(t *testing.T) {
				if rec.Code != http.StatusOK {
					t.Fatalf("assign: expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
				}
				var resp belegungHandler.AssignResponse
				if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
					t.Fatalf("decode assign response: %v", err)
				}
				if resp.Klient.Status != klienten.StatusBewohner {
					t.Fatalf("expected status %s, got %s", klienten.StatusBewohner, resp.Klient.Status)
				}
				if resp.Zimmer.Status != wg.ZimmerBelegt {
					t.Fatalf("expected zimmer %s, got %s", wg.ZimmerBelegt, resp.Zimmer.Status)
				}
			})

			testutil.Then(t, "the facility list shows the room occupied", func(t *testing.T) {
				req := httptest.NewRequest(http.MethodGet, "/api/pflege-wgs", nil)
				rec := httptest.NewRecorder()

				router.ServeHTTP(rec, req)
				if rec.Code != http.StatusOK {
					t.Fatalf("list wgs: expected status %d, got %d", http.StatusOK, rec.Code)
				}
				var list []wgHandler.WGResponse
				if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
					t.Fatalf("decode wg list: %v", err)
				}
				if len(list) != 1 || list[0].BelegteZimmer != 1 {
					t.Fatalf("expected one fully occupied wg, got %+v", list)
				}
			})
		})
	})
}
