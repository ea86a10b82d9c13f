package describe

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mmynk/onbeventi/internal/settings"
)

type staticKey string

func (k staticKey) Resolve(context.Context) (string, settings.Source) {
	if k == "" {
		return "", settings.SourceNone
	}
	return string(k), settings.SourceStored
}

type fakeDescriber struct {
	text      string
	err       error
	gotTitle  string
	gotMood   string
	blockCall bool
}

func (f *fakeDescriber) Describe(ctx context.Context, title, mood string) (string, error) {
	f.gotTitle, f.gotMood = title, mood
	if f.blockCall {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.text, f.err
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()

	t.Run("missing credential makes no call", func(t *testing.T) {
		calls := 0
		factory := func(string) (Describer, error) {
			calls++
			return &fakeDescriber{text: "never"}, nil
		}
		got := NewGenerator(staticKey(""), factory).Generate(ctx, "Gala", "")
		if got != MsgMissingCredential {
			t.Errorf("Generate() = %q, want %q", got, MsgMissingCredential)
		}
		if calls != 0 {
			t.Errorf("factory called %d times, want 0", calls)
		}
	})

	tests := []struct {
		name       string
		describer  *fakeDescriber
		factoryErr error
		want       string
	}{
		{name: "success is trimmed", describer: &fakeDescriber{text: "  A night to remember ✨ \n"}, want: "A night to remember ✨"},
		{name: "provider error", describer: &fakeDescriber{err: errors.New("403 forbidden")}, want: MsgGenerationFailed},
		{name: "empty answer", describer: &fakeDescriber{text: "   "}, want: MsgEmptyResult},
		{name: "factory error", factoryErr: errors.New("bad key"), want: MsgGenerationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var usedKey string
			factory := func(key string) (Describer, error) {
				usedKey = key
				if tt.factoryErr != nil {
					return nil, tt.factoryErr
				}
				return tt.describer, nil
			}
			got := NewGenerator(staticKey("k-123"), factory).Generate(ctx, "Gala", "Playful")
			if got != tt.want {
				t.Errorf("Generate() = %q, want %q", got, tt.want)
			}
			if usedKey != "k-123" {
				t.Errorf("factory got key %q, want k-123", usedKey)
			}
		})
	}

	t.Run("default mood", func(t *testing.T) {
		d := &fakeDescriber{text: "ok"}
		NewGenerator(staticKey("k"), func(string) (Describer, error) { return d, nil }).Generate(ctx, " Gala ", "  ")
		if d.gotMood != DefaultMood {
			t.Errorf("mood = %q, want %q", d.gotMood, DefaultMood)
		}
		if d.gotTitle != "Gala" {
			t.Errorf("title = %q, want trimmed", d.gotTitle)
		}
	})

	t.Run("timeout yields failure message", func(t *testing.T) {
		d := &fakeDescriber{blockCall: true}
		g := NewGenerator(staticKey("k"), func(string) (Describer, error) { return d, nil }, WithTimeout(10*time.Millisecond))
		if got := g.Generate(ctx, "Gala", ""); got != MsgGenerationFailed {
			t.Errorf("Generate() = %q, want %q", got, MsgGenerationFailed)
		}
	})
}

func TestPrompt(t *testing.T) {
	p := Prompt("Summer Gala", "Elegant")
	for _, want := range []string{`"Summer Gala"`, "Elegant", "3 sentences"} {
		if !strings.Contains(p, want) {
			t.Errorf("Prompt() missing %q:\n%s", want, p)
		}
	}
}
