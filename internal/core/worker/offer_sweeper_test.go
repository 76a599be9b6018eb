package worker

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/pawsuite/notify/internal/core/domain"
	"github.com/pawsuite/notify/internal/infra/storage/memory"
	"github.com/pawsuite/notify/internal/notify/waitlist"
)

const testServiceID = "99999999-9999-9999-9999-999999999999"

func newTestOfferSweeper(sender *fakeSender) (*OfferSweeper, *memory.MemoryStorage) {
	store := memory.NewMemoryStorage()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := memory.NewWaitlistRepo(store)
	p := waitlist.NewProcessor(repo, sender, waitlist.Config{OfferWindow: 2 * time.Hour}, log)
	return NewOfferSweeper(repo, p, time.Minute, log), store
}

func TestOfferSweeper_ExpiresAndOffersNext(t *testing.T) {
	sender := &fakeSender{}
	s, store := newTestOfferSweeper(sender)

	now := time.Date(2025, 12, 20, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	notifiedAt := now.Add(-3 * time.Hour)
	deadline := now.Add(-time.Hour)
	store.SeedWaitlistEntry(&domain.WaitlistEntry{
		ID:             "e-lapsed",
		CustomerID:     "c-1",
		Phone:          "+15550101",
		PetName:        "Biscuit",
		ServiceID:      testServiceID,
		PreferredDate:  now.Add(24 * time.Hour),
		Status:         domain.WaitlistNotified,
		CreatedAt:      now.Add(-48 * time.Hour),
		NotifiedAt:     &notifiedAt,
		OfferExpiresAt: &deadline,
	})
	store.SeedWaitlistEntry(&domain.WaitlistEntry{
		ID:            "e-next",
		CustomerID:    "c-2",
		Phone:         "+15550102",
		PetName:       "Mochi",
		ServiceID:     testServiceID,
		PreferredDate: now.Add(24 * time.Hour),
		Status:        domain.WaitlistActive,
		CreatedAt:     now.Add(-24 * time.Hour),
	})

	s.sweep(context.Background())

	repo := memory.NewWaitlistRepo(store)
	lapsed, _ := repo.GetByID(context.Background(), "e-lapsed")
	if lapsed.Status != domain.WaitlistExpiredOffer {
		t.Errorf("Expected lapsed entry expired, got %s", lapsed.Status)
	}

	next, _ := repo.GetByID(context.Background(), "e-next")
	if next.Status != domain.WaitlistNotified {
		t.Errorf("Expected next in line notified, got %s", next.Status)
	}
	if sender.sends != 1 {
		t.Errorf("Expected exactly 1 offer send, got %d", sender.sends)
	}
}

func TestOfferSweeper_StopsAfterOneStep(t *testing.T) {
	// With nobody left in line, a sweep only flips the expired entry and
	// sends nothing.
	sender := &fakeSender{}
	s, store := newTestOfferSweeper(sender)

	now := time.Date(2025, 12, 20, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	notifiedAt := now.Add(-3 * time.Hour)
	deadline := now.Add(-time.Hour)
	store.SeedWaitlistEntry(&domain.WaitlistEntry{
		ID:             "e-lapsed",
		CustomerID:     "c-1",
		Phone:          "+15550101",
		PetName:        "Biscuit",
		ServiceID:      testServiceID,
		PreferredDate:  now.Add(24 * time.Hour),
		Status:         domain.WaitlistNotified,
		CreatedAt:      now.Add(-48 * time.Hour),
		NotifiedAt:     &notifiedAt,
		OfferExpiresAt: &deadline,
	})

	s.sweep(context.Background())

	if sender.sends != 0 {
		t.Errorf("Expected no sends with an empty waitlist, got %d", sender.sends)
	}

	lapsed, _ := memory.NewWaitlistRepo(store).GetByID(context.Background(), "e-lapsed")
	if lapsed.Status != domain.WaitlistExpiredOffer {
		t.Errorf("Expected lapsed entry expired, got %s", lapsed.Status)
	}

	// A second sweep finds nothing left to do.
	s.sweep(context.Background())
	if sender.sends != 0 {
		t.Errorf("Expected sweeps to be idempotent, got %d sends", sender.sends)
	}
}

func TestOfferSweeper_SkipsClaimedEntry(t *testing.T) {
	// A claimed entry is out of the offer lifecycle; the sweep must not
	// expire it or offer its slot to anyone.
	sender := &fakeSender{}
	s, store := newTestOfferSweeper(sender)

	now := time.Date(2025, 12, 20, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	deadline := now.Add(-time.Hour)
	store.SeedWaitlistEntry(&domain.WaitlistEntry{
		ID:             "e-claimed",
		CustomerID:     "c-1",
		Phone:          "+15550101",
		PetName:        "Biscuit",
		ServiceID:      testServiceID,
		PreferredDate:  now.Add(24 * time.Hour),
		Status:         domain.WaitlistClaimed,
		CreatedAt:      now.Add(-48 * time.Hour),
		OfferExpiresAt: &deadline,
	})
	store.SeedWaitlistEntry(&domain.WaitlistEntry{
		ID:            "e-next",
		CustomerID:    "c-2",
		Phone:         "+15550102",
		PetName:       "Mochi",
		ServiceID:     testServiceID,
		PreferredDate: now.Add(24 * time.Hour),
		Status:        domain.WaitlistActive,
		CreatedAt:     now.Add(-24 * time.Hour),
	})

	s.sweep(context.Background())

	if sender.sends != 0 {
		t.Errorf("Expected no offer when the expiration lost the race, got %d sends", sender.sends)
	}
}
