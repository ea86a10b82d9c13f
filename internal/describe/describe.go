// Package describe writes short promotional texts for events using a
// generative language model.
package describe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mmynk/onbeventi/internal/metrics"
	"github.com/mmynk/onbeventi/internal/settings"
)

// Texts returned by Generator instead of an error.
const (
	MsgMissingCredential = "API key missing. Add it in Settings."
	MsgGenerationFailed  = "Error while generating the description. Check your API key in Settings."
	MsgEmptyResult       = "Unable to generate the description right now."
)

const (
	DefaultMood    = "Professional and enthusiastic"
	defaultTimeout = 30 * time.Second
)

// Outcome labels recorded in metrics.
const (
	outcomeOK         = "ok"
	outcomeNoKey      = "missing_credential"
	outcomeFailed     = "failed"
	outcomeEmpty      = "empty"
	outcomeBadRequest = "invalid_request"
)

// ErrEmptyTitle is returned by providers asked to describe an untitled event.
var ErrEmptyTitle = errors.New("title is required")

// Describer produces a description for an event title in the given tone.
type Describer interface {
	Describe(ctx context.Context, title, mood string) (string, error)
}

// Factory builds a Describer bound to one API key.
type Factory func(apiKey string) (Describer, error)

// KeyResolver supplies the API key to use for the next call.
type KeyResolver interface {
	Resolve(ctx context.Context) (string, settings.Source)
}

// Generator turns every outcome of a Describer into user-facing text.
// It never returns an error.
type Generator struct {
	keys    KeyResolver
	factory Factory
	timeout time.Duration
	metrics *metrics.Metrics
}

type Option func(*Generator)

func WithTimeout(d time.Duration) Option {
	return func(g *Generator) {
		if d > 0 {
			g.timeout = d
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Generator) {
		g.metrics = m
	}
}

func NewGenerator(keys KeyResolver, factory Factory, opts ...Option) *Generator {
	g := &Generator{
		keys:    keys,
		factory: factory,
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns a description for title. Without a configured key it
// returns MsgMissingCredential and makes no network call. A new provider is
// built for each call so a key changed in Settings applies immediately.
func (g *Generator) Generate(ctx context.Context, title, mood string) string {
	title = strings.TrimSpace(title)
	mood = strings.TrimSpace(mood)
	if mood == "" {
		mood = DefaultMood
	}

	key, source := g.keys.Resolve(ctx)
	if key == "" {
		g.metrics.ObserveDescription(outcomeNoKey)
		return MsgMissingCredential
	}

	provider, err := g.factory(key)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to create description provider", "source", source, "error", err)
		g.metrics.ObserveDescription(outcomeFailed)
		return MsgGenerationFailed
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	text, err := provider.Describe(ctx, title, mood)
	if err != nil {
		outcome := outcomeFailed
		if errors.Is(err, ErrEmptyTitle) {
			outcome = outcomeBadRequest
		}
		slog.ErrorContext(ctx, "Description generation failed", "source", source, "error", err)
		g.metrics.ObserveDescription(outcome)
		return MsgGenerationFailed
	}

	text = strings.TrimSpace(text)
	if text == "" {
		g.metrics.ObserveDescription(outcomeEmpty)
		return MsgEmptyResult
	}
	g.metrics.ObserveDescription(outcomeOK)
	return text
}

// Prompt builds the instruction sent to the model.
func Prompt(title, mood string) string {
	return fmt.Sprintf(`You are an expert copywriter for an event organization called 'ONBEVENTI'.
Write a short, catchy and exciting description (at most 3 sentences) for an event titled: %q.
The tone must be: %s.
Use fitting emoji.
Reply with the description only.`, title, mood)
}
