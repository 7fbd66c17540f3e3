package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// TranscribeParams are the optional model parameters forwarded to the
// speech-to-text service.
type TranscribeParams struct {
	Prompt         string
	Temperature    *float64 // nil = service default; zero is a valid value
	ResponseFormat string   // json, text, srt, vtt, verbose_json
	Language       string
	Deployment     string // overrides the client default
}

// WhisperClient calls the Azure OpenAI audio transcription endpoint.
// The HTTP client must carry an extended timeout — large files take minutes.
type WhisperClient struct {
	Endpoint   string
	APIKey     string
	APIVersion string
	Deployment string
	HTTPClient *http.Client
}

// Transcribe uploads the audio file as multipart form data and returns the
// transcript text. For JSON responses the "text" field is extracted; any
// other response format (plain text, srt, vtt) is returned verbatim.
func (c *WhisperClient) Transcribe(ctx context.Context, audioPath string, p TranscribeParams) (string, error) {
	if c == nil || c.Endpoint == "" || c.APIKey == "" {
		return "", ErrServiceNotConfigured
	}
	deployment := p.Deployment
	if deployment == "" {
		deployment = c.Deployment
	}

	body, contentType, err := buildMultipart(audioPath, deployment, p)
	if err != nil {
		return "", fmt.Errorf("build upload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/openai/deployments/%s/audio/transcriptions?api-version=%s",
		strings.TrimRight(c.Endpoint, "/"), url.PathEscape(deployment), url.QueryEscape(c.APIVersion))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("api-key", c.APIKey)

	// No retry wrapper: re-uploading a near-limit file on a flaky link does
	// more harm than a clean failure the caller can act on.
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read transcription response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &ServiceError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	return parseTranscriptionBody(resp.Header.Get("Content-Type"), respBody), nil
}

func buildMultipart(audioPath, deployment string, p TranscribeParams) ([]byte, string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", err
	}

	fields := map[string]string{
		"model":           deployment,
		"prompt":          p.Prompt,
		"response_format": p.ResponseFormat,
		"language":        p.Language,
	}
	if p.Temperature != nil {
		fields["temperature"] = strconv.FormatFloat(*p.Temperature, 'f', -1, 64)
	}
	for name, value := range fields {
		if value == "" {
			continue
		}
		if err := w.WriteField(name, value); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

// parseTranscriptionBody is an explicit content-type branch, not a
// speculative parse: JSON bodies yield their "text" field, everything else
// passes through untouched.
func parseTranscriptionBody(contentType string, body []byte) string {
	mediaType, _, _ := mime.ParseMediaType(contentType)
	if mediaType == "application/json" {
		var out struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(body, &out); err == nil && out.Text != "" {
			return out.Text
		}
	}
	return string(body)
}
