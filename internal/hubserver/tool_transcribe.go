package hubserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_hub/internal/engine/media"
)

type TranscribeInput struct {
	URL            string   `json:"url" jsonschema:"YouTube URL or direct audio file URL to transcribe"`
	ForceAudio     bool     `json:"force_audio,omitempty" jsonschema:"Skip the transcript lookup and always transcribe the audio track with the speech-to-text service"`
	Prompt         string   `json:"prompt,omitempty" jsonschema:"Optional prompt to guide the transcription model"`
	Temperature    *float64 `json:"temperature,omitempty" jsonschema:"Sampling temperature (0-1)"`
	ResponseFormat string   `json:"response_format,omitempty" jsonschema:"Transcription output format: json, text, srt, vtt, verbose_json"`
	Language       string   `json:"language,omitempty" jsonschema:"ISO-639-1 language of the audio"`
	Deployment     string   `json:"deployment,omitempty" jsonschema:"Override the configured speech-to-text deployment"`
}

type TranscribeOutput struct {
	URL             string  `json:"url"`
	Source          string  `json:"source"` // "transcript" or "whisper"
	Title           string  `json:"title,omitempty"`
	DurationSeconds float64 `json:"duration_seconds,omitempty"`
	Text            string  `json:"text"`
}

func registerTranscribe(server *mcp.Server, d Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "transcribe",
		Description: "Transcribe a YouTube video or direct audio URL to plain text. Prefers the video's existing transcript; falls back to downloading the audio and running speech-to-text. Set force_audio to always use speech-to-text.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input TranscribeInput) (*mcp.CallToolResult, TranscribeOutput, error) {
		if input.URL == "" {
			return nil, TranscribeOutput{}, fmt.Errorf("url is required")
		}

		result, err := d.Transcriber.Transcribe(ctx, media.Request{
			URL:            input.URL,
			ForceAudio:     input.ForceAudio,
			Prompt:         input.Prompt,
			Temperature:    input.Temperature,
			ResponseFormat: input.ResponseFormat,
			Language:       input.Language,
			Deployment:     input.Deployment,
		})
		if err != nil {
			return nil, TranscribeOutput{}, err
		}

		return nil, TranscribeOutput{
			URL:             input.URL,
			Source:          result.Source,
			Title:           result.Title,
			DurationSeconds: result.Duration,
			Text:            result.Text,
		}, nil
	})
}
