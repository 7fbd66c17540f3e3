package engine

import (
	"net/http"
	"time"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	AzureOpenAIEndpoint string
	AzureOpenAIKey      string
	AzureAPIVersion     string
	WhisperDeployment   string
	VisionDeployment    string

	StorageConnString string
	MediaContainer    string

	FFmpegPath     string
	AudioOutputDir string
	SampleRateHz   int
	Channels       int
	BitrateKbps    int
	MaxUploadBytes int64

	TranscriptsEnabled bool
	TranscriptLangs    []string

	CacheMaxEntries      int
	CacheCleanupInterval time.Duration

	HTTPClient *http.Client // short timeout, shared by ordinary API calls
	// WhisperHTTPClient carries an extended timeout: transcribing a long
	// audio file can take minutes, far beyond the default API timeout.
	WhisperHTTPClient *http.Client
}

var cfg Config

// Cfg exposes the engine configuration for sub-packages (media, sources).
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
func Init(c Config) {
	cfg = c
	Cfg = &cfg
}
