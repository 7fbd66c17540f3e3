package hubserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_hub/internal/engine"
	"github.com/anatolykoptev/go_hub/internal/engine/blob"
)

type StorageListInput struct {
	Container string `json:"container,omitempty" jsonschema:"Blob container to list (defaults to the media cache container)"`
	Prefix    string `json:"prefix,omitempty" jsonschema:"List only blobs whose name starts with this prefix, e.g. transcripts/"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Max entries to return (default 50)"`
}

type StorageListOutput struct {
	Container string      `json:"container"`
	Count     int         `json:"count"`
	Blobs     []blob.Info `json:"blobs"`
}

func registerStorageList(server *mcp.Server, d Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "storage_list",
		Description: "List blobs in an Azure Storage container with their size, content type, and last-modified time. Defaults to the media cache container; use prefix audio/ or transcripts/ to inspect cached artifacts.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input StorageListInput) (*mcp.CallToolResult, StorageListOutput, error) {
		if d.Store == nil {
			return nil, StorageListOutput{}, fmt.Errorf("blob storage is not configured")
		}
		engine.IncrStorageListRequests()

		container := input.Container
		if container == "" {
			container = d.Container
		}
		limit := input.Limit
		if limit <= 0 {
			limit = 50
		}

		blobs, err := d.Store.List(ctx, container, input.Prefix, limit)
		if err != nil {
			return nil, StorageListOutput{}, err
		}

		return nil, StorageListOutput{Container: container, Count: len(blobs), Blobs: blobs}, nil
	})
}
