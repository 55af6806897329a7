package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"domusvita/internal/klienten"
	"domusvita/pkg/domain"
	"domusvita/pkg/ledger"
	ledgermem "domusvita/pkg/ledger/store/memory"
)

type stubReleaser struct {
	result klienten.Klient
	err    error
}

func (s *stubReleaser) Release(context.Context, domain.KlientID, klienten.Status) (klienten.Klient, error) {
	return s.result, s.err
}

func newTestRouter(t *testing.T) (chi.Router, *klienten.Service, *klienten.InMemoryStore) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := klienten.NewInMemoryStore()
	publisher := ledger.NewPublisher(ledgermem.NewInMemoryStore(), logger)
	service := klienten.NewService(store, publisher, nil, logger, nil)

	r := chi.NewRouter()
	New(service, &stubReleaser{}, logger).Register(r)
	return r, service, store
}

func doJSON(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandleCreate(t *testing.T) {
	r, _, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/klienten", `{
		"vorname": "Erika",
		"nachname": "Mustermann",
		"pflegegrad": "3",
		"dringlichkeit": "sofort",
		"kontaktperson": {"name": "Maria Mustermann", "bezug": "Tochter"}
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created klienten.Klient
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Equal(t, klienten.StatusNeu, created.Status)
	assert.Equal(t, klienten.Pflegegrad3, created.Pflegegrad)
	assert.Equal(t, "Tochter", created.Kontakt.Bezug)
	assert.False(t, created.ID.IsZero())
}

func TestHandleCreateValidation(t *testing.T) {
	r, _, _ := newTestRouter(t)

	t.Run("missing name", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/klienten", `{"vorname": "  "}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var envelope map[string]string
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
		assert.Equal(t, "validation_error", envelope["error"])
	})

	t.Run("unknown pflegegrad", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/klienten", `{"vorname": "A", "nachname": "B", "pflegegrad": "6"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("broken JSON", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/klienten", `{"vorname"`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleSetStatus(t *testing.T) {
	r, service, _ := newTestRouter(t)
	k, err := service.Create(context.Background(), klienten.Klient{Vorname: "Hans", Nachname: "Test"})
	require.NoError(t, err)

	t.Run("valid transition", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/klienten/"+k.ID.String()+"/status", `{"status": "zusage"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var updated klienten.Klient
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&updated))
		assert.Equal(t, klienten.StatusZusage, updated.Status)
	})

	t.Run("unknown status value", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/klienten/"+k.ID.String()+"/status", `{"status": "wartet"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bewohner without room is a conflict", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/klienten/"+k.ID.String()+"/status", `{"status": "bewohner"}`)
		require.Equal(t, http.StatusConflict, rec.Code)

		var envelope map[string]string
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
		assert.Equal(t, "invalid_state", envelope["error"])
		assert.Contains(t, envelope["error_description"], "zimmer")
	})

	t.Run("unknown klient", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/klienten/missing/status", `{"status": "zusage"}`)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandleGet(t *testing.T) {
	r, service, _ := newTestRouter(t)
	k, err := service.Create(context.Background(), klienten.Klient{Vorname: "Rosa", Nachname: "Detail"})
	require.NoError(t, err)
	_, err = service.SetStatus(context.Background(), k.ID, klienten.StatusErstgespraech)
	require.NoError(t, err)

	rec := doJSON(t, r, http.MethodGet, "/klienten/"+k.ID.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp KlientResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, k.ID, resp.ID)
	// Newest first for display.
	require.Len(t, resp.Aktivitaeten, 2)
	assert.Equal(t, ledger.AktionStatusGeaendert, resp.Aktivitaeten[0].Aktion)
	assert.Equal(t, ledger.AktionKlientAngelegt, resp.Aktivitaeten[1].Aktion)

	t.Run("unknown id", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodGet, "/klienten/missing", "")
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandleList(t *testing.T) {
	r, service, _ := newTestRouter(t)
	ctx := context.Background()
	_, err := service.Create(ctx, klienten.Klient{Vorname: "A", Nachname: "X"})
	require.NoError(t, err)
	b, err := service.Create(ctx, klienten.Klient{Vorname: "B", Nachname: "Y"})
	require.NoError(t, err)
	_, err = service.SetStatus(ctx, b.ID, klienten.StatusZusage)
	require.NoError(t, err)

	t.Run("all", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodGet, "/klienten", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var list []klienten.Klient
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
		assert.Len(t, list, 2)
	})

	t.Run("filtered", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodGet, "/klienten?status=zusage", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var list []klienten.Klient
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
		require.Len(t, list, 1)
		assert.Equal(t, "B", list[0].Vorname)
	})

	t.Run("bad filter", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodGet, "/klienten?status=nope", "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleRelease(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := klienten.NewInMemoryStore()
	publisher := ledger.NewPublisher(ledgermem.NewInMemoryStore(), logger)
	service := klienten.NewService(store, publisher, nil, logger, nil)

	released := klienten.Klient{ID: domain.NewKlientID(), Status: klienten.StatusAusgezogen}
	r := chi.NewRouter()
	New(service, &stubReleaser{result: released}, logger).Register(r)

	t.Run("terminal status goes through", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/klienten/"+released.ID.String()+"/release", `{"status": "ausgezogen"}`)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("non-terminal status is rejected", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/klienten/"+released.ID.String()+"/release", `{"status": "zusage"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleAddKommunikation(t *testing.T) {
	r, service, _ := newTestRouter(t)
	k, err := service.Create(context.Background(), klienten.Klient{Vorname: "Lena", Nachname: "Log"})
	require.NoError(t, err)

	body, _ := json.Marshal(map[string]string{"typ": "notiz", "inhalt": "Unterlagen angefordert"})
	rec := doJSON(t, r, http.MethodPost, "/klienten/"+k.ID.String()+"/kommunikation", string(body))
	require.Equal(t, http.StatusCreated, rec.Code)

	var updated klienten.Klient
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&updated))
	require.Len(t, updated.Kommunikation, 1)
	assert.Equal(t, klienten.KommNotiz, updated.Kommunikation[0].Typ)

	t.Run("empty inhalt is rejected", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodPost, "/klienten/"+k.ID.String()+"/kommunikation", `{"typ": "notiz", "inhalt": " "}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
