package engine

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	TranscribeRequests   atomic.Int64
	TranscriptFetches    atomic.Int64
	TranscriptCacheHits  atomic.Int64
	WhisperCalls         atomic.Int64
	WhisperErrors        atomic.Int64
	AudioDownloads       atomic.Int64
	Transcodes           atomic.Int64
	BlobUploads          atomic.Int64
	BlobDownloads        atomic.Int64
	WeatherRequests      atomic.Int64
	VisionRequests       atomic.Int64
	StorageListRequests  atomic.Int64
}

// GetMetrics returns a snapshot of all metrics including cache stats.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"transcribe_requests":   metrics.TranscribeRequests.Load(),
		"transcript_fetches":    metrics.TranscriptFetches.Load(),
		"transcript_cache_hits": metrics.TranscriptCacheHits.Load(),
		"whisper_calls":         metrics.WhisperCalls.Load(),
		"whisper_errors":        metrics.WhisperErrors.Load(),
		"audio_downloads":       metrics.AudioDownloads.Load(),
		"transcodes":            metrics.Transcodes.Load(),
		"blob_uploads":          metrics.BlobUploads.Load(),
		"blob_downloads":        metrics.BlobDownloads.Load(),
		"weather_requests":      metrics.WeatherRequests.Load(),
		"vision_requests":       metrics.VisionRequests.Load(),
		"storage_list_requests": metrics.StorageListRequests.Load(),
		"cache_hits":            hits,
		"cache_misses":          misses,
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	keys := []string{
		"transcribe_requests", "transcript_fetches", "transcript_cache_hits",
		"whisper_calls", "whisper_errors",
		"audio_downloads", "transcodes",
		"blob_uploads", "blob_downloads",
		"weather_requests", "vision_requests", "storage_list_requests",
		"cache_hits", "cache_misses",
	}
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for the media sub-package.
func IncrTranscribeRequests()  { metrics.TranscribeRequests.Add(1) }
func IncrTranscriptCacheHits() { metrics.TranscriptCacheHits.Add(1) }
func IncrWhisperCalls()        { metrics.WhisperCalls.Add(1) }
func IncrWhisperErrors()       { metrics.WhisperErrors.Add(1) }
func IncrTranscodes()          { metrics.Transcodes.Add(1) }
func IncrVisionRequests()      { metrics.VisionRequests.Add(1) }

// Incrementors for the sources sub-package.
func IncrTranscriptFetches() { metrics.TranscriptFetches.Add(1) }
func IncrAudioDownloads()    { metrics.AudioDownloads.Add(1) }
func IncrWeatherRequests()   { metrics.WeatherRequests.Add(1) }

// Incrementors for the blob sub-package.
func IncrBlobUploads()         { metrics.BlobUploads.Add(1) }
func IncrBlobDownloads()       { metrics.BlobDownloads.Add(1) }
func IncrStorageListRequests() { metrics.StorageListRequests.Add(1) }
