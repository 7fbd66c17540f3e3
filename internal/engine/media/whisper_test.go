package media

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.mp3")
	require.NoError(t, os.WriteFile(path, []byte("fake-mp3-bytes"), 0o644))
	return path
}

func whisperTestClient(srv *httptest.Server) *WhisperClient {
	return &WhisperClient{
		Endpoint:   srv.URL,
		APIKey:     "test-key",
		APIVersion: "2024-06-01",
		Deployment: "whisper",
		HTTPClient: srv.Client(),
	}
}

func TestWhisperTranscribeJSON(t *testing.T) {
	audioPath := writeTestAudio(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/openai/deployments/whisper/audio/transcriptions", r.URL.Path)
		assert.Equal(t, "2024-06-01", r.URL.Query().Get("api-version"))
		assert.Equal(t, "test-key", r.Header.Get("api-key"))

		require.NoError(t, r.ParseMultipartForm(32<<20))
		assert.Equal(t, "whisper", r.FormValue("model"))
		assert.Equal(t, "technical talk", r.FormValue("prompt"))
		assert.Equal(t, "en", r.FormValue("language"))
		assert.Equal(t, "0.2", r.FormValue("temperature"))
		assert.Empty(t, r.FormValue("response_format"), "unset params must be omitted")

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "sample.mp3", header.Filename)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":"hello world"}`))
	}))
	defer srv.Close()

	temp := 0.2
	text, err := whisperTestClient(srv).Transcribe(context.Background(), audioPath, TranscribeParams{
		Prompt:      "technical talk",
		Language:    "en",
		Temperature: &temp,
	})
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)
}

func TestWhisperSubtitlePassthrough(t *testing.T) {
	audioPath := writeTestAudio(t)
	srt := "1\n00:00:00,000 --> 00:00:02,000\nhello world\n"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(32<<20))
		assert.Equal(t, "srt", r.FormValue("response_format"))
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte(srt))
	}))
	defer srv.Close()

	text, err := whisperTestClient(srv).Transcribe(context.Background(), audioPath, TranscribeParams{
		ResponseFormat: "srt",
	})
	require.NoError(t, err)
	assert.Equal(t, srt, text, "non-JSON bodies must pass through verbatim")
}

func TestWhisperDeploymentOverride(t *testing.T) {
	audioPath := writeTestAudio(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/openai/deployments/whisper-large/audio/transcriptions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":"ok"}`))
	}))
	defer srv.Close()

	_, err := whisperTestClient(srv).Transcribe(context.Background(), audioPath, TranscribeParams{
		Deployment: "whisper-large",
	})
	require.NoError(t, err)
}

func TestWhisperServiceError(t *testing.T) {
	audioPath := writeTestAudio(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"rate limited"}`))
	}))
	defer srv.Close()

	_, err := whisperTestClient(srv).Transcribe(context.Background(), audioPath, TranscribeParams{})

	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, http.StatusTooManyRequests, svcErr.StatusCode)
	assert.Contains(t, svcErr.Body, "rate limited")
}

func TestWhisperNotConfigured(t *testing.T) {
	audioPath := writeTestAudio(t)

	_, err := (&WhisperClient{}).Transcribe(context.Background(), audioPath, TranscribeParams{})
	assert.ErrorIs(t, err, ErrServiceNotConfigured)

	var nilClient *WhisperClient
	_, err = nilClient.Transcribe(context.Background(), audioPath, TranscribeParams{})
	assert.ErrorIs(t, err, ErrServiceNotConfigured)
}

func TestParseTranscriptionBody(t *testing.T) {
	tests := []struct {
		name, contentType, body, want string
	}{
		{"json text field", "application/json", `{"text":"hi"}`, "hi"},
		{"json with charset", "application/json; charset=utf-8", `{"text":"hi"}`, "hi"},
		{"plain text verbatim", "text/plain", "raw output", "raw output"},
		{"json without text field", "application/json", `{"status":"ok"}`, `{"status":"ok"}`},
		{"malformed json", "application/json", "not json", "not json"},
		{"no content type", "", "body", "body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseTranscriptionBody(tt.contentType, []byte(tt.body)); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
