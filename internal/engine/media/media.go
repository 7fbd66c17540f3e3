// Package media implements the transcription core: resolving a URL to a
// normalized local audio file, fetching pre-existing transcripts, and the
// orchestrator that prefers transcripts and falls back to speech-to-text.
package media

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// VideoMeta is the metadata the video host reports for a URL.
type VideoMeta struct {
	ID       string
	Title    string
	Duration time.Duration
}

// VideoService extracts audio from a hosted video.
type VideoService interface {
	// IsVideoURL reports whether rawURL points to a recognized video host
	// (as opposed to a direct media file).
	IsVideoURL(rawURL string) bool
	// DownloadAudio fetches the highest-bitrate audio-only stream into
	// destPath and returns the video metadata.
	DownloadAudio(ctx context.Context, rawURL, destPath string) (VideoMeta, error)
}

// Transcoder converts audio to the normalized target format.
type Transcoder interface {
	Transcode(ctx context.Context, srcPath, destPath string, s AudioSettings) error
}

// ContentCache is the soft-fail artifact cache (see blob.ContentCache).
// Get reports a miss on any error; Put is best-effort.
type ContentCache interface {
	GetFile(ctx context.Context, key, destPath string) bool
	PutFile(ctx context.Context, key, srcPath, contentType string)
	GetText(ctx context.Context, key string) (string, bool)
	PutText(ctx context.Context, key, text, contentType string)
}

// TranscriptSource fetches a pre-existing transcript for a video URL.
type TranscriptSource interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

// SpeechToText transcribes a local audio file.
type SpeechToText interface {
	Transcribe(ctx context.Context, audioPath string, p TranscribeParams) (string, error)
}

// AudioResolver resolves a URL to a local audio file.
type AudioResolver interface {
	Resolve(ctx context.Context, rawURL string, opts ResolveOptions) (*ResolvedAudio, error)
}

// ResolvedAudio is a local audio file produced by a resolution call.
// The caller owns the file and must delete it once consumed.
type ResolvedAudio struct {
	Path     string
	Title    string
	Duration time.Duration
}

// TempAudioPath returns a fresh unique path in the system temp directory.
// Concurrent requests never collide on a name.
func TempAudioPath(ext string) string {
	return filepath.Join(os.TempDir(), "go_hub-"+uuid.NewString()+ext)
}
