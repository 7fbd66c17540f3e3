package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/anatolykoptev/go_hub/internal/engine"
)

// Resolver turns a URL into a local audio file.
//
// Direct (non-video-host) URLs are stream-downloaded as-is: no caching, no
// transcoding. Video-host URLs go through the content cache keyed by
// URL+settings; on a miss the best audio-only stream is downloaded,
// transcoded to the normalized format, and the result uploaded back to the
// cache best-effort.
type Resolver struct {
	Videos     VideoService
	Cache      ContentCache
	Transcoder Transcoder
	HTTPClient *http.Client
	OutputDir  string
	Settings   AudioSettings
}

// ResolveOptions control where the resolved file lands.
type ResolveOptions struct {
	// OutputPath, when set, is where the audio is written. A bare filename
	// resolves under OutputDir; a path containing separators is used as
	// given. When empty, the name derives from the video title (generic
	// fallback when the title is empty after sanitization).
	OutputPath string
}

// Resolve produces a local audio file for rawURL. Failures are wrapped in
// *ResolutionError with the cause preserved.
func (r *Resolver) Resolve(ctx context.Context, rawURL string, opts ResolveOptions) (*ResolvedAudio, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, &ResolutionError{URL: rawURL, Err: errors.New("empty URL")}
	}

	if !r.Videos.IsVideoURL(rawURL) {
		return r.resolveDirect(ctx, rawURL, opts)
	}

	key := AudioKey(rawURL, r.Settings)

	// Cache hit: copy the cached bytes to the destination. Title/duration
	// are unavailable on this path — the host is not contacted.
	if dest, err := r.outputPath(opts.OutputPath, ""); err == nil {
		if r.Cache != nil && r.Cache.GetFile(ctx, key, dest) {
			slog.Info("resolver: audio cache hit", slog.String("url", rawURL))
			return &ResolvedAudio{Path: dest}, nil
		}
	}

	tmp := TempAudioPath(".stream")
	defer removeQuiet(tmp) // pre-transcode download never outlives the call

	meta, err := r.Videos.DownloadAudio(ctx, rawURL, tmp)
	if err != nil {
		return nil, &ResolutionError{URL: rawURL, Err: err}
	}

	dest, err := r.outputPath(opts.OutputPath, meta.Title)
	if err != nil {
		return nil, &ResolutionError{URL: rawURL, Err: err}
	}

	if err := r.Transcoder.Transcode(ctx, tmp, dest, r.Settings); err != nil {
		removeQuiet(dest)
		return nil, &ResolutionError{URL: rawURL, Err: err}
	}
	engine.IncrTranscodes()

	if r.Cache != nil {
		r.Cache.PutFile(ctx, key, dest, "audio/mpeg")
	}

	return &ResolvedAudio{Path: dest, Title: meta.Title, Duration: meta.Duration}, nil
}

// resolveDirect stream-downloads a direct audio URL.
func (r *Resolver) resolveDirect(ctx context.Context, rawURL string, opts ResolveOptions) (*ResolvedAudio, error) {
	dest := opts.OutputPath
	if dest == "" {
		dest = TempAudioPath(directExt(rawURL))
	} else {
		var err error
		dest, err = r.outputPath(dest, "")
		if err != nil {
			return nil, &ResolutionError{URL: rawURL, Err: err}
		}
	}

	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.UserAgentBot)
		req.Header.Set("Accept", "audio/*,*/*;q=0.9")
		return r.HTTPClient.Do(req)
	})
	if err != nil {
		return nil, &ResolutionError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &ResolutionError{URL: rawURL, Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	}

	f, err := os.Create(dest)
	if err != nil {
		return nil, &ResolutionError{URL: rawURL, Err: err}
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		removeQuiet(dest)
		return nil, &ResolutionError{URL: rawURL, Err: err}
	}
	if err := f.Close(); err != nil {
		removeQuiet(dest)
		return nil, &ResolutionError{URL: rawURL, Err: err}
	}
	return &ResolvedAudio{Path: dest}, nil
}

// outputPath applies the destination policy: explicit paths with separators
// are used as given, bare names land under OutputDir, and an empty path
// derives a name from the title.
func (r *Resolver) outputPath(explicit, title string) (string, error) {
	switch {
	case explicit == "":
		name := engine.SanitizeFilename(title)
		if name == "" {
			name = "audio-" + uuid.NewString()[:8]
		}
		explicit = filepath.Join(r.OutputDir, name+".mp3")
	case strings.ContainsRune(explicit, os.PathSeparator) || filepath.IsAbs(explicit):
		// used as given
	default:
		explicit = filepath.Join(r.OutputDir, explicit)
	}
	if dir := filepath.Dir(explicit); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create output dir: %w", err)
		}
	}
	return explicit, nil
}

// directExt guesses a file extension from a direct download URL.
func directExt(rawURL string) string {
	path := rawURL
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if ext := filepath.Ext(path); ext != "" && len(ext) <= 5 {
		return ext
	}
	return ".audio"
}

// removeQuiet deletes path, logging (never propagating) cleanup failures.
func removeQuiet(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		slog.Warn("temp file cleanup failed", slog.String("path", path), slog.Any("error", err))
	}
}
