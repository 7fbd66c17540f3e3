package media

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// FFmpeg invokes the configured ffmpeg binary. The path is resolved once at
// startup and injected here — nothing reads it from ambient state.
type FFmpeg struct {
	Path string
}

// Transcode converts srcPath to destPath using the normalized settings:
// audio only, target sample rate, channel count, and MP3 bitrate.
func (f *FFmpeg) Transcode(ctx context.Context, srcPath, destPath string, s AudioSettings) error {
	args := []string{
		"-y",
		"-i", srcPath,
		"-vn",
		"-ar", strconv.Itoa(s.SampleRateHz),
		"-ac", strconv.Itoa(s.Channels),
		"-b:a", fmt.Sprintf("%dk", s.BitrateKbps),
		"-codec:a", "libmp3lame",
		destPath,
	}
	cmd := exec.CommandContext(ctx, f.Path, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if len(detail) > 400 {
			detail = detail[len(detail)-400:]
		}
		return fmt.Errorf("ffmpeg transcode: %w: %s", err, detail)
	}
	return nil
}
