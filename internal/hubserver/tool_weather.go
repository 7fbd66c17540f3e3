package hubserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_hub/internal/engine"
	"github.com/anatolykoptev/go_hub/internal/engine/sources"
	"github.com/anatolykoptev/go_hub/internal/toolutil"
)

type WeatherInput struct {
	Latitude  float64 `json:"latitude" jsonschema:"Latitude in decimal degrees (US coverage only)"`
	Longitude float64 `json:"longitude" jsonschema:"Longitude in decimal degrees"`
}

func registerWeather(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "weather",
		Description: "Get the National Weather Service forecast for a US coordinate. Returns named forecast periods with temperature, wind, and a detailed text forecast.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input WeatherInput) (*mcp.CallToolResult, *sources.Forecast, error) {
		if input.Latitude == 0 && input.Longitude == 0 {
			return nil, nil, fmt.Errorf("latitude and longitude are required")
		}

		cacheKey := engine.CacheKey("weather",
			fmt.Sprintf("%.4f", input.Latitude), fmt.Sprintf("%.4f", input.Longitude))
		if out, ok := toolutil.CacheLoadJSON[*sources.Forecast](ctx, cacheKey); ok {
			return nil, out, nil
		}

		forecast, err := sources.GetForecast(ctx, input.Latitude, input.Longitude)
		if err != nil {
			return nil, nil, err
		}

		toolutil.CacheStoreJSON(ctx, cacheKey, forecast)
		return nil, forecast, nil
	})
}
