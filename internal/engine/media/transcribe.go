package media

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/anatolykoptev/go_hub/internal/engine"
)

// Request is one transcription request, immutable once constructed.
type Request struct {
	URL            string
	ForceAudio     bool // skip the transcript source, always transcribe audio
	Prompt         string
	Temperature    *float64
	ResponseFormat string
	Language       string
	Deployment     string
}

// Result is the transcript plus where it came from.
type Result struct {
	Text     string
	Source   string // "transcript" or "whisper"
	Title    string
	Duration float64 // seconds, zero when unknown
}

// Service is the transcription orchestrator. Per request it tries the
// transcript source first (unless forced to audio), falls back to audio
// resolution plus speech-to-text, and deletes every local audio file it
// caused to exist before returning — on success, failure, and cancellation
// alike.
type Service struct {
	Videos         VideoService
	Transcripts    *TranscriptFetcher
	Resolver       AudioResolver
	STT            SpeechToText
	MaxUploadBytes int64
}

// Transcribe runs one request through the transcript-then-audio policy.
func (s *Service) Transcribe(ctx context.Context, req Request) (*Result, error) {
	engine.IncrTranscribeRequests()

	if s.Videos.IsVideoURL(req.URL) && !req.ForceAudio {
		text, err := s.Transcripts.Fetch(ctx, req.URL)
		if err == nil {
			return &Result{Text: text, Source: "transcript"}, nil
		}
		if !errors.Is(err, ErrTranscriptUnavailable) {
			return nil, err
		}
		if errors.Is(err, ErrTranscriptNotConfigured) {
			slog.Error("transcribe: transcript source not configured, falling back to audio",
				slog.String("url", req.URL))
		} else {
			// Routine: many videos simply have no transcript.
			slog.Info("transcribe: no transcript, falling back to audio",
				slog.String("url", req.URL), slog.Any("error", err))
		}
	}

	return s.transcribeAudio(ctx, req)
}

func (s *Service) transcribeAudio(ctx context.Context, req Request) (_ *Result, err error) {
	dest := TempAudioPath(".mp3")
	audio, err := s.Resolver.Resolve(ctx, req.URL, ResolveOptions{OutputPath: dest})

	// Cleanup runs on every exit path below, including the early error
	// returns and caller cancellation. A failed resolve may still have
	// left a partial file at dest.
	defer func() {
		removeQuiet(dest)
		if audio != nil && audio.Path != dest {
			removeQuiet(audio.Path)
		}
	}()

	if err != nil {
		return nil, err
	}

	fi, err := os.Stat(audio.Path)
	if err != nil {
		return nil, &ResolutionError{URL: req.URL, Err: err}
	}
	if s.MaxUploadBytes > 0 && fi.Size() > s.MaxUploadBytes {
		return nil, &PayloadTooLargeError{Size: fi.Size(), Limit: s.MaxUploadBytes}
	}

	engine.IncrWhisperCalls()
	text, err := s.STT.Transcribe(ctx, audio.Path, TranscribeParams{
		Prompt:         req.Prompt,
		Temperature:    req.Temperature,
		ResponseFormat: req.ResponseFormat,
		Language:       req.Language,
		Deployment:     req.Deployment,
	})
	if err != nil {
		engine.IncrWhisperErrors()
		return nil, err
	}

	return &Result{
		Text:     text,
		Source:   "whisper",
		Title:    audio.Title,
		Duration: audio.Duration.Seconds(),
	}, nil
}
