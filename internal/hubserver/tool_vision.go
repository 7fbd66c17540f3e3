package hubserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type DescribeImageInput struct {
	ImageURL string `json:"image_url" jsonschema:"Publicly reachable URL of the image"`
	Prompt   string `json:"prompt,omitempty" jsonschema:"Optional question or instruction about the image"`
}

type DescribeImageOutput struct {
	ImageURL    string `json:"image_url"`
	Description string `json:"description"`
}

func registerDescribeImage(server *mcp.Server, d Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "describe_image",
		Description: "Describe or answer a question about an image using the configured vision model deployment.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input DescribeImageInput) (*mcp.CallToolResult, DescribeImageOutput, error) {
		if input.ImageURL == "" {
			return nil, DescribeImageOutput{}, fmt.Errorf("image_url is required")
		}

		description, err := d.Vision.DescribeImage(ctx, input.ImageURL, input.Prompt)
		if err != nil {
			return nil, DescribeImageOutput{}, err
		}

		return nil, DescribeImageOutput{ImageURL: input.ImageURL, Description: description}, nil
	})
}
