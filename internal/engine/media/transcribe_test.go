package media

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes shared across the package tests ---

type fakeVideos struct{ video bool }

func (f fakeVideos) IsVideoURL(string) bool { return f.video }

func (f fakeVideos) DownloadAudio(context.Context, string, string) (VideoMeta, error) {
	return VideoMeta{}, errors.New("fakeVideos: download not supported")
}

type fakeTranscripts struct {
	text  string
	err   error
	calls int
}

func (f *fakeTranscripts) Fetch(context.Context, string) (string, error) {
	f.calls++
	return f.text, f.err
}

// fakeResolver writes a file of the configured size at the requested path.
type fakeResolver struct {
	size  int
	err   error
	title string
	calls int
	paths []string
}

func (f *fakeResolver) Resolve(_ context.Context, _ string, opts ResolveOptions) (*ResolvedAudio, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	path := opts.OutputPath
	if path == "" {
		path = TempAudioPath(".mp3")
	}
	if err := os.WriteFile(path, bytes.Repeat([]byte("a"), f.size), 0o644); err != nil {
		return nil, err
	}
	f.paths = append(f.paths, path)
	return &ResolvedAudio{Path: path, Title: f.title, Duration: 90 * time.Second}, nil
}

type fakeSTT struct {
	text  string
	err   error
	calls int
	last  string
}

func (f *fakeSTT) Transcribe(_ context.Context, audioPath string, _ TranscribeParams) (string, error) {
	f.calls++
	f.last = audioPath
	return f.text, f.err
}

type memCache struct {
	files map[string][]byte
	texts map[string]string
}

func newMemCache() *memCache {
	return &memCache{files: map[string][]byte{}, texts: map[string]string{}}
}

func (m *memCache) GetFile(_ context.Context, key, destPath string) bool {
	data, ok := m.files[key]
	if !ok {
		return false
	}
	return os.WriteFile(destPath, data, 0o644) == nil
}

func (m *memCache) PutFile(_ context.Context, key, srcPath, _ string) {
	if data, err := os.ReadFile(srcPath); err == nil {
		m.files[key] = data
	}
}

func (m *memCache) GetText(_ context.Context, key string) (string, bool) {
	text, ok := m.texts[key]
	return text, ok
}

func (m *memCache) PutText(_ context.Context, key, text, _ string) {
	m.texts[key] = text
}

func newService(src TranscriptSource, resolver *fakeResolver, stt *fakeSTT) *Service {
	return &Service{
		Videos:         fakeVideos{video: true},
		Transcripts:    &TranscriptFetcher{Source: src},
		Resolver:       resolver,
		STT:            stt,
		MaxUploadBytes: 25 * 1024 * 1024,
	}
}

// --- orchestrator ---

func TestTranscribePrefersTranscript(t *testing.T) {
	src := &fakeTranscripts{text: "hello from captions"}
	resolver := &fakeResolver{size: 10}
	stt := &fakeSTT{text: "should not be used"}
	svc := newService(src, resolver, stt)

	res, err := svc.Transcribe(context.Background(), Request{URL: "https://www.youtube.com/watch?v=abc"})
	require.NoError(t, err)

	assert.Equal(t, "transcript", res.Source)
	assert.Equal(t, "hello from captions", res.Text)
	assert.Equal(t, 0, resolver.calls, "transcript success must not touch audio")
	assert.Equal(t, 0, stt.calls, "transcript success must not call speech-to-text")
}

func TestTranscribeFallsBackWhenTranscriptMissing(t *testing.T) {
	src := &fakeTranscripts{err: errors.New("no caption tracks")}
	resolver := &fakeResolver{size: 100, title: "Conference Talk"}
	stt := &fakeSTT{text: "spoken words"}
	svc := newService(src, resolver, stt)

	res, err := svc.Transcribe(context.Background(), Request{URL: "https://www.youtube.com/watch?v=abc"})
	require.NoError(t, err)

	assert.Equal(t, 1, src.calls)
	assert.Equal(t, "whisper", res.Source)
	assert.Equal(t, "spoken words", res.Text)
	assert.Equal(t, "Conference Talk", res.Title)
	assert.Equal(t, 90.0, res.Duration)
}

func TestTranscribeForceAudioSkipsTranscriptSource(t *testing.T) {
	src := &fakeTranscripts{text: "captions exist"}
	resolver := &fakeResolver{size: 100}
	stt := &fakeSTT{text: "spoken words"}
	svc := newService(src, resolver, stt)

	res, err := svc.Transcribe(context.Background(), Request{
		URL:        "https://www.youtube.com/watch?v=abc",
		ForceAudio: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, src.calls, "force_audio must never consult the transcript source")
	assert.Equal(t, "whisper", res.Source)
	assert.Equal(t, 1, stt.calls)
}

func TestTranscribeNonVideoURLGoesStraightToAudio(t *testing.T) {
	src := &fakeTranscripts{text: "captions exist"}
	resolver := &fakeResolver{size: 100}
	stt := &fakeSTT{text: "spoken words"}
	svc := newService(src, resolver, stt)
	svc.Videos = fakeVideos{video: false}

	res, err := svc.Transcribe(context.Background(), Request{URL: "https://cdn.example.com/podcast.mp3"})
	require.NoError(t, err)

	assert.Equal(t, 0, src.calls)
	assert.Equal(t, "whisper", res.Source)
}

func TestTranscribeFallsBackWhenSourceNotConfigured(t *testing.T) {
	resolver := &fakeResolver{size: 100}
	stt := &fakeSTT{text: "spoken words"}
	svc := newService(nil, resolver, stt)

	res, err := svc.Transcribe(context.Background(), Request{URL: "https://www.youtube.com/watch?v=abc"})
	require.NoError(t, err)
	assert.Equal(t, "whisper", res.Source)
}

func TestTranscribeRejectsOversizedAudio(t *testing.T) {
	resolver := &fakeResolver{size: 101}
	stt := &fakeSTT{text: "never reached"}
	svc := newService(&fakeTranscripts{err: errors.New("none")}, resolver, stt)
	svc.MaxUploadBytes = 100

	_, err := svc.Transcribe(context.Background(), Request{URL: "https://www.youtube.com/watch?v=abc"})

	var tooLarge *PayloadTooLargeError
	require.ErrorAs(t, err, &tooLarge)
	assert.Equal(t, int64(101), tooLarge.Size)
	assert.Equal(t, int64(100), tooLarge.Limit)
	assert.Equal(t, 0, stt.calls, "oversized audio must be rejected before upload")

	require.Len(t, resolver.paths, 1)
	assert.NoFileExists(t, resolver.paths[0], "rejected audio must still be cleaned up")
}

func TestTranscribeCleansUpAudioFile(t *testing.T) {
	t.Run("on success", func(t *testing.T) {
		resolver := &fakeResolver{size: 50}
		stt := &fakeSTT{text: "ok"}
		svc := newService(nil, resolver, stt)

		_, err := svc.Transcribe(context.Background(), Request{URL: "https://www.youtube.com/watch?v=abc", ForceAudio: true})
		require.NoError(t, err)

		require.Len(t, resolver.paths, 1)
		assert.NoFileExists(t, resolver.paths[0])
	})

	t.Run("on transcription error", func(t *testing.T) {
		resolver := &fakeResolver{size: 50}
		stt := &fakeSTT{err: &ServiceError{StatusCode: 503, Body: "overloaded"}}
		svc := newService(nil, resolver, stt)

		_, err := svc.Transcribe(context.Background(), Request{URL: "https://www.youtube.com/watch?v=abc", ForceAudio: true})
		require.Error(t, err)

		require.Len(t, resolver.paths, 1)
		assert.NoFileExists(t, resolver.paths[0])
	})

	t.Run("on cancellation", func(t *testing.T) {
		resolver := &fakeResolver{size: 50}
		svc := &Service{
			Videos:         fakeVideos{video: true},
			Transcripts:    &TranscriptFetcher{},
			Resolver:       resolver,
			STT:            ctxErrSTT{},
			MaxUploadBytes: 1 << 20,
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := svc.Transcribe(ctx, Request{URL: "https://www.youtube.com/watch?v=abc", ForceAudio: true})
		require.ErrorIs(t, err, context.Canceled)

		require.Len(t, resolver.paths, 1)
		assert.NoFileExists(t, resolver.paths[0], "canceled request must not leave audio behind")
	})
}

// ctxErrSTT fails the way a real client does once its context is canceled.
type ctxErrSTT struct{}

func (ctxErrSTT) Transcribe(ctx context.Context, _ string, _ TranscribeParams) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return "", errors.New("expected a canceled context")
}

func TestTranscribeForwardsModelParams(t *testing.T) {
	resolver := &fakeResolver{size: 50}
	temp := 0.2
	var got TranscribeParams
	stt := &capturingSTT{out: "ok", got: &got}
	svc := &Service{
		Videos:         fakeVideos{video: false},
		Transcripts:    &TranscriptFetcher{},
		Resolver:       resolver,
		STT:            stt,
		MaxUploadBytes: 1 << 20,
	}

	_, err := svc.Transcribe(context.Background(), Request{
		URL:            "https://cdn.example.com/a.mp3",
		Prompt:         "technical talk",
		Temperature:    &temp,
		ResponseFormat: "srt",
		Language:       "en",
		Deployment:     "whisper-large",
	})
	require.NoError(t, err)

	assert.Equal(t, "technical talk", got.Prompt)
	require.NotNil(t, got.Temperature)
	assert.Equal(t, 0.2, *got.Temperature)
	assert.Equal(t, "srt", got.ResponseFormat)
	assert.Equal(t, "en", got.Language)
	assert.Equal(t, "whisper-large", got.Deployment)
}

type capturingSTT struct {
	out string
	got *TranscribeParams
}

func (c *capturingSTT) Transcribe(_ context.Context, _ string, p TranscribeParams) (string, error) {
	*c.got = p
	return c.out, nil
}

// --- transcript fetcher ---

func TestTranscriptFetcherCacheHit(t *testing.T) {
	url := "https://www.youtube.com/watch?v=abc"
	cache := newMemCache()
	cache.texts[TranscriptKey(url)] = "cached transcript"
	src := &fakeTranscripts{text: "fresh"}
	fetcher := &TranscriptFetcher{Cache: cache, Source: src}

	text, err := fetcher.Fetch(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, "cached transcript", text)
	assert.Equal(t, 0, src.calls, "cache hit must not consult upstream")
}

func TestTranscriptFetcherStoresFetched(t *testing.T) {
	url := "https://www.youtube.com/watch?v=abc"
	cache := newMemCache()
	src := &fakeTranscripts{text: "fresh transcript"}
	fetcher := &TranscriptFetcher{Cache: cache, Source: src}

	text, err := fetcher.Fetch(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, "fresh transcript", text)
	assert.Equal(t, "fresh transcript", cache.texts[TranscriptKey(url)])
}

func TestTranscriptFetcherNotConfigured(t *testing.T) {
	fetcher := &TranscriptFetcher{}

	_, err := fetcher.Fetch(context.Background(), "https://www.youtube.com/watch?v=abc")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTranscriptNotConfigured)
	assert.ErrorIs(t, err, ErrTranscriptUnavailable, "not-configured must still trigger fallback")
}

func TestTranscriptFetcherWrapsUpstreamErrors(t *testing.T) {
	cause := errors.New("player response missing")
	fetcher := &TranscriptFetcher{Source: &fakeTranscripts{err: cause}}

	_, err := fetcher.Fetch(context.Background(), "https://www.youtube.com/watch?v=abc")
	assert.ErrorIs(t, err, ErrTranscriptUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrTranscriptNotConfigured)
}

func TestTranscriptFetcherRejectsEmptyTranscript(t *testing.T) {
	fetcher := &TranscriptFetcher{Source: &fakeTranscripts{text: ""}}

	_, err := fetcher.Fetch(context.Background(), "https://www.youtube.com/watch?v=abc")
	assert.ErrorIs(t, err, ErrTranscriptUnavailable)
}
