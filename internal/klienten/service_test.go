package klienten

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"domusvita/pkg/domain"
	dErrors "domusvita/pkg/domain-errors"
	"domusvita/pkg/ledger"
	ledgermem "domusvita/pkg/ledger/store/memory"
)

type fakeReleaser struct {
	called   bool
	klientID domain.KlientID
	status   Status
	result   Klient
}

func (f *fakeReleaser) Release(_ context.Context, id domain.KlientID, newStatus Status) (Klient, error) {
	f.called = true
	f.klientID = id
	f.status = newStatus
	return f.result, nil
}

type fakeZaehler int

func (f fakeZaehler) FreieZimmer(context.Context) (int, error) { return int(f), nil }

type ServiceSuite struct {
	suite.Suite
	store   *InMemoryStore
	ledger  *ledger.Publisher
	service *Service
	ctx     context.Context
}

func (s *ServiceSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.store = NewInMemoryStore()
	s.ledger = ledger.NewPublisher(ledgermem.NewInMemoryStore(), logger)
	s.service = NewService(s.store, s.ledger, fakeZaehler(2), logger, nil)
	s.ctx = context.Background()
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) create(vorname, nachname string) Klient {
	k, err := s.service.Create(s.ctx, Klient{Vorname: vorname, Nachname: nachname})
	s.Require().NoError(err)
	return k
}

func (s *ServiceSuite) TestCreate() {
	k := s.create("Erika", "Mustermann")

	s.Run("starts at neu with defaults", func() {
		s.Equal(StatusNeu, k.Status)
		s.Equal(PflegegradKeiner, k.Pflegegrad)
		s.Equal(DringlichkeitFlexibel, k.Dringlichkeit)
		s.False(k.ID.IsZero())
	})

	s.Run("intake is ledgered", func() {
		trail, err := s.ledger.List(s.ctx, k.ID)
		s.Require().NoError(err)
		s.Require().Len(trail, 1)
		s.Equal(ledger.AktionKlientAngelegt, trail[0].Aktion)
	})
}

func (s *ServiceSuite) TestSetStatus() {
	s.Run("moves through the pipeline and ledgers each step", func() {
		k := s.create("Hans", "Beispiel")

		updated, err := s.service.SetStatus(s.ctx, k.ID, StatusErstgespraech)
		s.Require().NoError(err)
		s.Equal(StatusErstgespraech, updated.Status)

		updated, err = s.service.SetStatus(s.ctx, k.ID, StatusZusage)
		s.Require().NoError(err)
		s.Equal(StatusZusage, updated.Status)

		trail, err := s.ledger.List(s.ctx, k.ID)
		s.Require().NoError(err)
		s.Require().Len(trail, 3)
		s.Equal("erstgespraech", trail[1].Nachher)
		s.Equal("erstgespraech", trail[2].Vorher)
		s.Equal("zusage", trail[2].Nachher)
	})

	s.Run("same status succeeds and appends one entry with vorher == nachher", func() {
		k := s.create("Karin", "Doppelt")

		_, err := s.service.SetStatus(s.ctx, k.ID, StatusNeu)
		s.Require().NoError(err)

		trail, err := s.ledger.List(s.ctx, k.ID)
		s.Require().NoError(err)
		s.Require().Len(trail, 2)
		last := trail[len(trail)-1]
		s.Equal(last.Vorher, last.Nachher)
	})

	s.Run("entering bewohner without a room fails", func() {
		k := s.create("Otto", "Ohnezimmer")

		_, err := s.service.SetStatus(s.ctx, k.ID, StatusBewohner)
		s.Require().ErrorIs(err, ErrNoRoomAssigned)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))

		reloaded, err := s.store.Get(s.ctx, k.ID)
		s.Require().NoError(err)
		s.Equal(StatusNeu, reloaded.Status)
	})

	s.Run("unknown klient", func() {
		_, err := s.service.SetStatus(s.ctx, domain.KlientID("missing"), StatusZusage)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("exit from bewohner with a room goes through the releaser", func() {
		k := s.create("Rosa", "Bewohnerin")
		k.Status = StatusBewohner
		k.ZimmerID = domain.ZimmerID("z-101")
		s.Require().NoError(s.store.Update(s.ctx, k))

		releaser := &fakeReleaser{result: k}
		s.service.SetReleaser(releaser)

		_, err := s.service.SetStatus(s.ctx, k.ID, StatusAusgezogen)
		s.Require().NoError(err)
		s.True(releaser.called)
		s.Equal(k.ID, releaser.klientID)
		s.Equal(StatusAusgezogen, releaser.status)
	})
}

func (s *ServiceSuite) TestAddKommunikation() {
	k := s.create("Lena", "Notiz")

	updated, err := s.service.AddKommunikation(s.ctx, k.ID, KommAnrufEin, "Tochter ruft an, fragt nach Besichtigung")
	s.Require().NoError(err)
	s.Require().Len(updated.Kommunikation, 1)
	s.Equal(KommAnrufEin, updated.Kommunikation[0].Typ)
	s.NotEmpty(updated.Kommunikation[0].ID)

	updated, err = s.service.AddKommunikation(s.ctx, k.ID, KommNotiz, "Unterlagen vollständig")
	s.Require().NoError(err)
	s.Len(updated.Kommunikation, 2)
}

func (s *ServiceSuite) TestDashboard() {
	s.create("A", "Neu")
	b := s.create("B", "Zusage")
	_, err := s.service.SetStatus(s.ctx, b.ID, StatusZusage)
	s.Require().NoError(err)

	c := s.create("C", "Bewohner")
	c.Status = StatusBewohner
	c.ZimmerID = domain.ZimmerID("z-1")
	s.Require().NoError(s.store.Update(s.ctx, c))

	d := s.create("D", "Abgesagt")
	_, err = s.service.SetStatus(s.ctx, d.ID, StatusAbgesagt)
	s.Require().NoError(err)

	dash, err := s.service.GetDashboard(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, dash.Bewohner)
	s.Equal(2, dash.Interessenten)
	s.Equal(2, dash.FreieZimmer)
	s.Equal(1, dash.NachStatus[StatusZusage])
	s.Equal(1, dash.NachStatus[StatusAbgesagt])
}
