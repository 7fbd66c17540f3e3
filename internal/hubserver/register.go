// Package hubserver registers the go_hub MCP tools: media transcription,
// YouTube audio extraction, weather and blob-storage passthroughs, image
// description, and the calculator demo.
package hubserver

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_hub/internal/engine/blob"
	"github.com/anatolykoptev/go_hub/internal/engine/media"
)

// Deps are the shared clients the tools delegate to, wired once in main.
type Deps struct {
	Transcriber *media.Service
	Resolver    *media.Resolver
	Vision      *media.VisionClient
	Store       blob.Store // nil = storage tool reports not configured
	Container   string     // default container for storage_list
}

// RegisterTools registers all hub tools on the given MCP server.
func RegisterTools(server *mcp.Server, d Deps) {
	registerTranscribe(server, d)
	registerExtractAudio(server, d)
	registerWeather(server)
	registerStorageList(server, d)
	registerDescribeImage(server, d)
	registerCalc(server)
}
