package storage_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mmynk/onbeventi/internal/models"
	"github.com/mmynk/onbeventi/internal/storage"
	"github.com/mmynk/onbeventi/internal/storage/memory"
)

type failingStore struct {
	*memory.Store
	getErr error
	putErr error
}

func (f *failingStore) Get(ctx context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.Store.Get(ctx, key)
}

func (f *failingStore) Put(ctx context.Context, key string, value []byte) error {
	if f.putErr != nil {
		return f.putErr
	}
	return f.Store.Put(ctx, key, value)
}

func TestEventStore_LoadAll(t *testing.T) {
	ctx := context.Background()

	t.Run("empty storage yields empty slice", func(t *testing.T) {
		got := storage.NewEventStore(memory.New()).LoadAll(ctx)
		if got == nil || len(got) != 0 {
			t.Errorf("LoadAll() = %#v, want empty non-nil slice", got)
		}
	})

	t.Run("round trip preserves events", func(t *testing.T) {
		s := storage.NewEventStore(memory.New())
		created := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
		in := []models.Event{
			{
				ID:           "e1",
				Title:        "Gala",
				Date:         "2026-11-02",
				Time:         "20:30",
				Cost:         25,
				MaxAttendees: models.IntPtr(2),
				Attendees: []models.Attendee{
					{ID: "a1", Name: "Anna", Status: models.PaymentPaid, RegistrationDate: created},
				},
				Expenses:  []models.Expense{{ID: "x1", Description: "Hall", Amount: 100}},
				CreatedAt: created,
				Revision:  3,
			},
			{ID: "e2", Title: "Workshop", Date: "2026-12-01"},
		}
		if err := s.SaveAll(ctx, in); err != nil {
			t.Fatalf("SaveAll failed: %v", err)
		}

		got := s.LoadAll(ctx)
		if len(got) != 2 {
			t.Fatalf("LoadAll() len = %d, want 2", len(got))
		}
		if got[0].ID != "e1" || got[1].ID != "e2" {
			t.Errorf("order not preserved: %s, %s", got[0].ID, got[1].ID)
		}
		if got[0].MaxAttendees == nil || *got[0].MaxAttendees != 2 {
			t.Errorf("MaxAttendees = %v, want 2", got[0].MaxAttendees)
		}
		if got[1].MaxAttendees != nil {
			t.Errorf("absent MaxAttendees decoded as %v", *got[1].MaxAttendees)
		}
		if len(got[0].Attendees) != 1 || got[0].Attendees[0].Status != models.PaymentPaid {
			t.Errorf("Attendees = %+v", got[0].Attendees)
		}
		if !got[0].CreatedAt.Equal(created) {
			t.Errorf("CreatedAt = %v, want %v", got[0].CreatedAt, created)
		}
		if got[0].Revision != 3 {
			t.Errorf("Revision = %d, want 3", got[0].Revision)
		}
	})

	t.Run("saving empty list stores empty array", func(t *testing.T) {
		backend := memory.New()
		s := storage.NewEventStore(backend)
		if err := s.SaveAll(ctx, nil); err != nil {
			t.Fatalf("SaveAll failed: %v", err)
		}
		raw, err := backend.Get(ctx, storage.EventsKey)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if string(raw) != "[]" {
			t.Errorf("stored %q, want []", raw)
		}
	})

	t.Run("corrupted payload yields empty slice and is quarantined", func(t *testing.T) {
		backend := memory.NewWith(map[string][]byte{storage.EventsKey: []byte("{not json")})
		s := storage.NewEventStore(backend)

		got := s.LoadAll(ctx)
		if len(got) != 0 {
			t.Errorf("LoadAll() = %+v, want empty", got)
		}

		var quarantined string
		for _, k := range backend.Keys() {
			if strings.HasPrefix(k, storage.EventsKey+".corrupt-") {
				quarantined = k
			}
		}
		if quarantined == "" {
			t.Fatalf("no quarantine key in %v", backend.Keys())
		}
		raw, _ := backend.Get(ctx, quarantined)
		if string(raw) != "{not json" {
			t.Errorf("quarantined payload = %q", raw)
		}
	})

	t.Run("Load reports corruption", func(t *testing.T) {
		backend := memory.NewWith(map[string][]byte{storage.EventsKey: []byte(`{"id":"not a list"}`)})
		_, err := storage.NewEventStore(backend).Load(ctx)
		if !errors.Is(err, storage.ErrCorrupt) {
			t.Errorf("Load() error = %v, want ErrCorrupt", err)
		}
	})

	t.Run("read failure yields empty slice", func(t *testing.T) {
		backend := &failingStore{Store: memory.New(), getErr: errors.New("disk gone")}
		got := storage.NewEventStore(backend).LoadAll(ctx)
		if len(got) != 0 {
			t.Errorf("LoadAll() = %+v, want empty", got)
		}
	})
}

func TestEventStore_SaveAllPropagatesWriteErrors(t *testing.T) {
	backend := &failingStore{Store: memory.New(), putErr: errors.New("quota exceeded")}
	err := storage.NewEventStore(backend).SaveAll(context.Background(), []models.Event{{ID: "e1"}})
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("SaveAll() error = %v, want wrapped write error", err)
	}
}
