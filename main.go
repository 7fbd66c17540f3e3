// go_hub — media tools MCP server.
//
// Exposes tools that delegate to external services: YouTube transcription
// with a speech-to-text fallback, audio extraction, Azure Blob Storage
// inspection, NWS weather, image description, and a calculator demo.
// Runs as HTTP MCP server or stdio transport.
package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_hub/internal/engine"
	"github.com/anatolykoptev/go_hub/internal/engine/blob"
	"github.com/anatolykoptev/go_hub/internal/engine/media"
	"github.com/anatolykoptev/go_hub/internal/engine/sources"
	"github.com/anatolykoptev/go_hub/internal/hubserver"
)

var (
	version = "dev"
	mcpPort = env.Str("MCP_PORT", "8892")
)

func main() {
	deps := initEngine()

	slog.Info("starting go_hub",
		slog.String("port", mcpPort),
	)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_hub",
		Version: version,
	}, nil)

	hubserver.RegisterTools(server, deps)
	slog.Info("tools registered", slog.Int("count", 6))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_hub",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 600 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

func initEngine() hubserver.Deps {
	c := engine.Config{
		AzureOpenAIEndpoint: env.Str("AZURE_OPENAI_ENDPOINT", ""),
		AzureOpenAIKey:      env.Str("AZURE_OPENAI_API_KEY", ""),
		AzureAPIVersion:     env.Str("AZURE_OPENAI_API_VERSION", "2024-06-01"),
		WhisperDeployment:   env.Str("WHISPER_DEPLOYMENT", "whisper"),
		VisionDeployment:    env.Str("VISION_DEPLOYMENT", "gpt-4o"),

		StorageConnString: env.Str("AZURE_STORAGE_CONNECTION_STRING", ""),
		MediaContainer:    env.Str("MEDIA_CACHE_CONTAINER", "media-cache"),

		FFmpegPath:     env.Str("FFMPEG_PATH", "ffmpeg"),
		AudioOutputDir: env.Str("AUDIO_OUTPUT_DIR", "./output"),
		SampleRateHz:   env.Int("AUDIO_SAMPLE_RATE", 16000),
		Channels:       env.Int("AUDIO_CHANNELS", 1),
		BitrateKbps:    env.Int("AUDIO_BITRATE_KBPS", 64),
		MaxUploadBytes: int64(env.Int("MAX_UPLOAD_MB", 25)) * 1024 * 1024,

		TranscriptsEnabled: env.Str("TRANSCRIPTS_ENABLED", "true") != "false",
		TranscriptLangs:    env.List("TRANSCRIPT_LANGS", "en"),

		CacheMaxEntries:      env.Int("CACHE_MAX_ENTRIES", 1000),
		CacheCleanupInterval: env.Duration("CACHE_CLEANUP_INTERVAL", 300*time.Second),

		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
		WhisperHTTPClient: &http.Client{
			Timeout: env.Duration("WHISPER_TIMEOUT", 5*time.Minute),
		},
	}
	engine.Init(c)

	if c.AzureOpenAIEndpoint == "" || c.AzureOpenAIKey == "" {
		slog.Error("azure openai not configured, transcription and vision tools will fail",
			slog.String("hint", "set AZURE_OPENAI_ENDPOINT and AZURE_OPENAI_API_KEY"))
	}

	// Blob store (optional — without it the content cache is a no-op and
	// storage_list is disabled).
	var store blob.Store
	if c.StorageConnString != "" {
		azStore, err := blob.NewAzureStore(c.StorageConnString)
		if err != nil {
			slog.Warn("blob store init failed, content cache disabled", slog.Any("error", err))
		} else {
			store = azStore
			slog.Info("blob store initialized", slog.String("container", c.MediaContainer))
		}
	} else {
		slog.Info("no storage connection string, content cache disabled")
	}
	cache := blob.NewContentCache(store, c.MediaContainer)

	youtubeClient := sources.NewYouTubeClient(c.HTTPClient)

	resolver := &media.Resolver{
		Videos:     youtubeClient,
		Cache:      cache,
		Transcoder: &media.FFmpeg{Path: c.FFmpegPath},
		HTTPClient: c.HTTPClient,
		OutputDir:  c.AudioOutputDir,
		Settings: media.AudioSettings{
			SampleRateHz: c.SampleRateHz,
			Channels:     c.Channels,
			BitrateKbps:  c.BitrateKbps,
		},
	}

	var transcriptSource media.TranscriptSource
	if c.TranscriptsEnabled {
		transcriptSource = sources.NewTranscriptClient(c.HTTPClient, c.TranscriptLangs)
	} else {
		slog.Info("transcript fetching disabled, all requests will use speech-to-text")
	}

	transcriber := &media.Service{
		Videos: youtubeClient,
		Transcripts: &media.TranscriptFetcher{
			Cache:  cache,
			Source: transcriptSource,
		},
		Resolver: resolver,
		STT: &media.WhisperClient{
			Endpoint:   c.AzureOpenAIEndpoint,
			APIKey:     c.AzureOpenAIKey,
			APIVersion: c.AzureAPIVersion,
			Deployment: c.WhisperDeployment,
			HTTPClient: c.WhisperHTTPClient,
		},
		MaxUploadBytes: c.MaxUploadBytes,
	}

	vision := &media.VisionClient{
		Endpoint:   c.AzureOpenAIEndpoint,
		APIKey:     c.AzureOpenAIKey,
		APIVersion: c.AzureAPIVersion,
		Deployment: c.VisionDeployment,
		HTTPClient: c.HTTPClient,
	}

	cacheTTL := env.Duration("CACHE_TTL", 15*time.Minute)
	engine.InitCache(env.Str("REDIS_URL", ""), cacheTTL, c.CacheMaxEntries, c.CacheCleanupInterval)

	return hubserver.Deps{
		Transcriber: transcriber,
		Resolver:    resolver,
		Vision:      vision,
		Store:       store,
		Container:   c.MediaContainer,
	}
}
