package media

import (
	"errors"
	"fmt"
)

// ErrServiceNotConfigured means the speech-to-text endpoint/key is missing.
// Fatal for the request; never retried.
var ErrServiceNotConfigured = errors.New("speech-to-text service not configured")

// ErrTranscriptUnavailable is the routine "no transcript" outcome. The
// orchestrator absorbs it and falls back to audio transcription.
var ErrTranscriptUnavailable = errors.New("transcript unavailable")

// ErrTranscriptNotConfigured wraps ErrTranscriptUnavailable so the fallback
// branch still matches, but lets the orchestrator log it as a configuration
// fault instead of a routine miss.
var ErrTranscriptNotConfigured = fmt.Errorf("%w: transcript source not configured", ErrTranscriptUnavailable)

// ResolutionError means a local audio file could not be obtained for a URL.
type ResolutionError struct {
	URL string
	Err error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve audio for %s: %v", e.URL, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// PayloadTooLargeError means the resolved audio exceeds the upload ceiling.
// Raised before any network call to the transcription service.
type PayloadTooLargeError struct {
	Size  int64
	Limit int64
}

func (e *PayloadTooLargeError) Error() string {
	return fmt.Sprintf("audio file is %d bytes, upload limit is %d", e.Size, e.Limit)
}

// ServiceError is a non-success response from the speech-to-text service,
// kept verbatim for diagnostics.
type ServiceError struct {
	StatusCode int
	Body       string
}

func (e *ServiceError) Error() string {
	body := e.Body
	if len(body) > 512 {
		body = body[:512]
	}
	return fmt.Sprintf("transcription service returned HTTP %d: %s", e.StatusCode, body)
}
