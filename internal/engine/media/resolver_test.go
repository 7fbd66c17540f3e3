package media

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeVideoHost treats video.example URLs as hosted video and streams a
// fixed payload to the requested destination.
type fakeVideoHost struct {
	meta     VideoMeta
	err      error
	calls    int
	streamed string // dest path of the last DownloadAudio call
}

func (f *fakeVideoHost) IsVideoURL(rawURL string) bool {
	return strings.Contains(rawURL, "video.example")
}

func (f *fakeVideoHost) DownloadAudio(_ context.Context, _, destPath string) (VideoMeta, error) {
	f.calls++
	f.streamed = destPath
	if f.err != nil {
		return VideoMeta{}, f.err
	}
	if err := os.WriteFile(destPath, []byte("raw-stream"), 0o644); err != nil {
		return VideoMeta{}, err
	}
	return f.meta, nil
}

// fakeTranscoder prefixes the source bytes so tests can tell transcoded
// output from the raw stream.
type fakeTranscoder struct {
	calls    int
	settings AudioSettings
}

func (f *fakeTranscoder) Transcode(_ context.Context, srcPath, destPath string, s AudioSettings) error {
	f.calls++
	f.settings = s
	data, err := os.ReadFile(srcPath)
	if err != nil {
		return err
	}
	return os.WriteFile(destPath, append([]byte("mp3:"), data...), 0o644)
}

func testSettings() AudioSettings {
	return AudioSettings{SampleRateHz: 16000, Channels: 1, BitrateKbps: 64}
}

func TestResolveVideoMissDownloadsAndTranscodes(t *testing.T) {
	host := &fakeVideoHost{meta: VideoMeta{ID: "abc", Title: "My Talk"}}
	tc := &fakeTranscoder{}
	cache := newMemCache()
	r := &Resolver{
		Videos:     host,
		Cache:      cache,
		Transcoder: tc,
		OutputDir:  t.TempDir(),
		Settings:   testSettings(),
	}

	url := "https://video.example/watch?v=abc"
	res, err := r.Resolve(context.Background(), url, ResolveOptions{})
	require.NoError(t, err)

	assert.Equal(t, "My Talk", res.Title)
	assert.Equal(t, filepath.Join(r.OutputDir, "My Talk.mp3"), res.Path)

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, "mp3:raw-stream", string(data))

	assert.Equal(t, 1, tc.calls)
	assert.Equal(t, testSettings(), tc.settings)
	assert.Equal(t, data, cache.files[AudioKey(url, r.Settings)], "transcoded audio must be written back to the cache")
	assert.NoFileExists(t, host.streamed, "pre-transcode stream must be deleted")
}

func TestResolveVideoCacheHit(t *testing.T) {
	host := &fakeVideoHost{meta: VideoMeta{Title: "never fetched"}}
	tc := &fakeTranscoder{}
	cache := newMemCache()
	r := &Resolver{
		Videos:     host,
		Cache:      cache,
		Transcoder: tc,
		OutputDir:  t.TempDir(),
		Settings:   testSettings(),
	}

	url := "https://video.example/watch?v=abc"
	cache.files[AudioKey(url, r.Settings)] = []byte("cached-mp3")

	res, err := r.Resolve(context.Background(), url, ResolveOptions{})
	require.NoError(t, err)

	assert.Equal(t, 0, host.calls, "cache hit must not contact the video host")
	assert.Equal(t, 0, tc.calls)
	assert.Empty(t, res.Title, "metadata is unavailable on the cache-hit path")

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, "cached-mp3", string(data))
}

func TestResolveDirectURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("direct-bytes"))
	}))
	defer srv.Close()

	cache := newMemCache()
	r := &Resolver{
		Videos:     &fakeVideoHost{},
		Cache:      cache,
		Transcoder: &fakeTranscoder{},
		HTTPClient: srv.Client(),
		OutputDir:  t.TempDir(),
		Settings:   testSettings(),
	}

	dest := filepath.Join(t.TempDir(), "episode.mp3")
	res, err := r.Resolve(context.Background(), srv.URL+"/episode.mp3", ResolveOptions{OutputPath: dest})
	require.NoError(t, err)
	assert.Equal(t, dest, res.Path)

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, "direct-bytes", string(data))

	assert.Empty(t, cache.files, "direct downloads are not cached")
}

func TestResolveDirectHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	r := &Resolver{
		Videos:     &fakeVideoHost{},
		HTTPClient: srv.Client(),
		OutputDir:  t.TempDir(),
	}

	_, err := r.Resolve(context.Background(), srv.URL+"/missing.mp3", ResolveOptions{})
	var resErr *ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Contains(t, resErr.Error(), "404")
}

func TestResolveEmptyURL(t *testing.T) {
	r := &Resolver{Videos: &fakeVideoHost{}}
	_, err := r.Resolve(context.Background(), "  ", ResolveOptions{})
	var resErr *ResolutionError
	require.ErrorAs(t, err, &resErr)
}

func TestResolveDownloadErrorWrapped(t *testing.T) {
	cause := errors.New("stream unavailable in region")
	host := &fakeVideoHost{err: cause}
	r := &Resolver{
		Videos:     host,
		Transcoder: &fakeTranscoder{},
		OutputDir:  t.TempDir(),
		Settings:   testSettings(),
	}

	url := "https://video.example/watch?v=abc"
	_, err := r.Resolve(context.Background(), url, ResolveOptions{})

	var resErr *ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, url, resErr.URL)
	assert.ErrorIs(t, err, cause)
	assert.NoFileExists(t, host.streamed)
}

func TestOutputPathPolicy(t *testing.T) {
	outDir := t.TempDir()
	r := &Resolver{OutputDir: outDir}

	t.Run("empty path uses sanitized title", func(t *testing.T) {
		got, err := r.outputPath("", "My: Talk?")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(outDir, "My_ Talk_.mp3"), got)
	})

	t.Run("empty path and empty title generates a name", func(t *testing.T) {
		got, err := r.outputPath("", "")
		require.NoError(t, err)
		assert.Equal(t, outDir, filepath.Dir(got))
		assert.True(t, strings.HasPrefix(filepath.Base(got), "audio-"), "got %q", got)
		assert.True(t, strings.HasSuffix(got, ".mp3"))
	})

	t.Run("bare filename lands under output dir", func(t *testing.T) {
		got, err := r.outputPath("episode.mp3", "ignored")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(outDir, "episode.mp3"), got)
	})

	t.Run("explicit path used as given", func(t *testing.T) {
		want := filepath.Join(t.TempDir(), "nested", "out.mp3")
		got, err := r.outputPath(want, "ignored")
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.DirExists(t, filepath.Dir(want))
	})
}

func TestDirectExt(t *testing.T) {
	tests := []struct {
		url, want string
	}{
		{"https://cdn.example.com/a.mp3", ".mp3"},
		{"https://cdn.example.com/a.mp3?sig=abc", ".mp3"},
		{"https://cdn.example.com/a.ogg#t=10", ".ogg"},
		{"https://cdn.example.com/stream", ".audio"},
		{"https://cdn.example.com/file.verylongext", ".audio"},
	}
	for _, tt := range tests {
		if got := directExt(tt.url); got != tt.want {
			t.Errorf("directExt(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
