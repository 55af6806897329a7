//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"domusvita/pkg/domain"
	"domusvita/pkg/ledger"
	"domusvita/pkg/ledger/store/postgres"
	"domusvita/pkg/testutil/containers"
)

type LedgerStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *postgres.PostgresStore
}

func TestLedgerStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(LedgerStoreSuite))
}

func (s *LedgerStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.Require().NoError(s.postgres.ApplySchema(context.Background(), postgres.Schema))
	s.store = postgres.New(s.postgres.DB)
}

func (s *LedgerStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "klient_aktivitaeten"))
}

// TestSequenceCarriesOrder appends entries sharing one timestamp and checks
// that list order still matches append order.
func (s *LedgerStoreSuite) TestSequenceCarriesOrder() {
	ctx := context.Background()
	klientID := domain.NewKlientID()
	now := time.Now().UTC().Truncate(time.Microsecond)

	vorher := []string{"neu", "zusage", "einzug_geplant"}
	for _, v := range vorher {
		s.Require().NoError(s.store.Append(ctx, ledger.Entry{
			ID:        uuid.NewString(),
			KlientID:  klientID,
			Aktion:    ledger.AktionStatusGeaendert,
			Vorher:    v,
			Actor:     "verwaltung",
			Timestamp: now,
		}))
	}

	entries, err := s.store.ListByKlient(ctx, klientID)
	s.Require().NoError(err)
	s.Require().Len(entries, 3)
	for i, v := range vorher {
		s.Equal(v, entries[i].Vorher)
	}
}

func (s *LedgerStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	klientID := domain.NewKlientID()
	entry := ledger.Entry{
		ID:        uuid.NewString(),
		KlientID:  klientID,
		Aktion:    ledger.AktionZimmerBelegt,
		Vorher:    "frei",
		Nachher:   "z-101",
		Actor:     "frau.schmidt",
		RequestID: uuid.NewString(),
		Timestamp: time.Now().UTC().Truncate(time.Microsecond),
	}
	s.Require().NoError(s.store.Append(ctx, entry))

	entries, err := s.store.ListByKlient(ctx, klientID)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)

	got := entries[0]
	s.True(entry.Timestamp.Equal(got.Timestamp))
	got.Timestamp = entry.Timestamp
	s.Equal(entry, got)
}

func (s *LedgerStoreSuite) TestUnknownKlientIsEmpty() {
	entries, err := s.store.ListByKlient(context.Background(), domain.NewKlientID())
	s.Require().NoError(err)
	s.Empty(entries)
}
