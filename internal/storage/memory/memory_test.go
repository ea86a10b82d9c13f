package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/mmynk/onbeventi/internal/storage"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	s := New()

	if _, err := s.Get(ctx, "k"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Get() error = %v, want ErrNotFound", err)
	}

	value := []byte("abc")
	if err := s.Put(ctx, "k", value); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	value[0] = 'z'

	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "abc" {
		t.Errorf("Get() = %q, want caller mutation not to leak in", got)
	}
	got[0] = 'y'
	again, _ := s.Get(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("Get() = %q, want returned slice to be a copy", again)
	}

	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if len(s.Keys()) != 0 {
		t.Errorf("Keys() = %v, want none", s.Keys())
	}
}
