package media

import (
	"context"
	"errors"
	"fmt"

	"github.com/anatolykoptev/go_hub/internal/engine"
)

// TranscriptFetcher serves transcripts cache-first: the content cache is
// keyed by URL alone, upstream is only consulted on a miss, and successful
// fetches are written back best-effort.
type TranscriptFetcher struct {
	Cache  ContentCache
	Source TranscriptSource // nil = transcripts disabled
}

// Fetch returns the transcript for rawURL. Every failure mode maps to
// ErrTranscriptUnavailable (with the cause attached) so the orchestrator
// has a single fallback trigger; a disabled source additionally matches
// ErrTranscriptNotConfigured.
func (t *TranscriptFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	key := TranscriptKey(rawURL)

	if t.Cache != nil {
		if text, ok := t.Cache.GetText(ctx, key); ok && text != "" {
			engine.IncrTranscriptCacheHits()
			return text, nil
		}
	}

	if t.Source == nil {
		return "", ErrTranscriptNotConfigured
	}

	text, err := t.Source.Fetch(ctx, rawURL)
	if err != nil {
		if errors.Is(err, ErrTranscriptUnavailable) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", ErrTranscriptUnavailable, err)
	}
	if text == "" {
		return "", fmt.Errorf("%w: upstream returned empty transcript", ErrTranscriptUnavailable)
	}

	if t.Cache != nil {
		t.Cache.PutText(ctx, key, text, "text/plain; charset=utf-8")
	}
	return text, nil
}
