package hubserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_hub/internal/engine/media"
)

type ExtractAudioInput struct {
	URL    string `json:"url" jsonschema:"YouTube URL or direct audio URL"`
	Output string `json:"output,omitempty" jsonschema:"Destination file. A bare name lands in the configured output directory; a path with separators is used as given. Defaults to a name derived from the video title."`
}

type ExtractAudioOutput struct {
	Path            string  `json:"path"`
	Title           string  `json:"title,omitempty"`
	DurationSeconds float64 `json:"duration_seconds,omitempty"`
}

func registerExtractAudio(server *mcp.Server, d Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "extract_audio",
		Description: "Download a video's audio track as normalized MP3 (mono, fixed sample rate and bitrate) into the output directory, or download a direct audio URL as-is. Returns the saved file path.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input ExtractAudioInput) (*mcp.CallToolResult, ExtractAudioOutput, error) {
		if input.URL == "" {
			return nil, ExtractAudioOutput{}, fmt.Errorf("url is required")
		}

		audio, err := d.Resolver.Resolve(ctx, input.URL, media.ResolveOptions{OutputPath: input.Output})
		if err != nil {
			return nil, ExtractAudioOutput{}, err
		}

		return nil, ExtractAudioOutput{
			Path:            audio.Path,
			Title:           audio.Title,
			DurationSeconds: audio.Duration.Seconds(),
		}, nil
	})
}
