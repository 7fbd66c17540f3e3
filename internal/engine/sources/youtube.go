package sources

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"

	youtube "github.com/kkdai/youtube/v2"

	"github.com/anatolykoptev/go_hub/internal/engine"
	"github.com/anatolykoptev/go_hub/internal/engine/media"
)

// videoURLRe recognizes YouTube watch/short/live/embed links; anything else
// is treated as a direct media URL by the resolver.
var videoURLRe = regexp.MustCompile(`(?i)^https?://(?:www\.|m\.|music\.)?(?:youtube\.com/(?:watch\?|shorts/|live/|embed/)|youtu\.be/)`)

var videoIDRe = regexp.MustCompile(`(?:v=|youtu\.be/|shorts/|live/|embed/)([A-Za-z0-9_-]{11})`)

// IsVideoURL reports whether rawURL is a recognized video-host link.
func IsVideoURL(rawURL string) bool {
	return videoURLRe.MatchString(rawURL)
}

// ExtractVideoID pulls the 11-character video ID out of a YouTube URL.
func ExtractVideoID(rawURL string) (string, bool) {
	m := videoIDRe.FindStringSubmatch(rawURL)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// YouTubeClient fetches video metadata and audio streams.
type YouTubeClient struct {
	client youtube.Client
}

// NewYouTubeClient builds a client on the shared short-timeout HTTP client.
func NewYouTubeClient(httpClient *http.Client) *YouTubeClient {
	return &YouTubeClient{client: youtube.Client{HTTPClient: httpClient}}
}

func (y *YouTubeClient) IsVideoURL(rawURL string) bool {
	return IsVideoURL(rawURL)
}

// DownloadAudio fetches the highest-bitrate audio-only stream into destPath
// and returns the video metadata.
func (y *YouTubeClient) DownloadAudio(ctx context.Context, rawURL, destPath string) (media.VideoMeta, error) {
	video, err := y.client.GetVideoContext(ctx, rawURL)
	if err != nil {
		return media.VideoMeta{}, fmt.Errorf("video metadata: %w", err)
	}
	meta := media.VideoMeta{ID: video.ID, Title: video.Title, Duration: video.Duration}

	format := bestAudioFormat(video.Formats)
	if format == nil {
		return meta, errors.New("no audio-only stream available")
	}

	stream, _, err := y.client.GetStreamContext(ctx, video, format)
	if err != nil {
		return meta, fmt.Errorf("audio stream: %w", err)
	}
	defer stream.Close()

	f, err := os.Create(destPath)
	if err != nil {
		return meta, err
	}
	if _, err := io.Copy(f, stream); err != nil {
		f.Close()
		os.Remove(destPath)
		return meta, fmt.Errorf("download audio stream: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(destPath)
		return meta, err
	}

	engine.IncrAudioDownloads()
	return meta, nil
}

// bestAudioFormat picks the audio-only format with the highest bitrate.
func bestAudioFormat(formats youtube.FormatList) *youtube.Format {
	var best *youtube.Format
	for i := range formats {
		f := &formats[i]
		if !strings.HasPrefix(f.MimeType, "audio/") {
			continue
		}
		if best == nil || f.Bitrate > best.Bitrate {
			best = f
		}
	}
	return best
}
