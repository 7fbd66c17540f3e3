package media

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// AudioSettings is the normalized format audio is transcoded to before
// caching and transcription. Distinct settings address distinct cache
// entries for the same URL.
type AudioSettings struct {
	SampleRateHz int
	Channels     int
	BitrateKbps  int
}

// Key derivation is pure: no I/O, same inputs always produce the same key.
// The full sha256 digest keeps distinct URLs collision-free.

func hashURL(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return hex.EncodeToString(sum[:])
}

// TranscriptKey addresses a cached transcript by URL alone.
func TranscriptKey(rawURL string) string {
	return "transcripts/" + hashURL(rawURL)
}

// AudioKey addresses cached audio by URL plus the processing settings that
// produced it.
func AudioKey(rawURL string, s AudioSettings) string {
	return fmt.Sprintf("audio/%s_%d_%d_%d.mp3", hashURL(rawURL), s.SampleRateHz, s.Channels, s.BitrateKbps)
}
