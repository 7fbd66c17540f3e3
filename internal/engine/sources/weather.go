package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/anatolykoptev/go_hub/internal/engine"
)

// weather.gov passthrough. Two requests: /points resolves the coordinate to
// a gridpoint forecast URL, which then yields the forecast periods.

const weatherPointsURL = "https://api.weather.gov/points/%.4f,%.4f"

// ForecastPeriod is one named period from the NWS forecast.
type ForecastPeriod struct {
	Name             string `json:"name"`
	Temperature      int    `json:"temperature"`
	TemperatureUnit  string `json:"temperatureUnit"`
	WindSpeed        string `json:"windSpeed"`
	WindDirection    string `json:"windDirection"`
	ShortForecast    string `json:"shortForecast"`
	DetailedForecast string `json:"detailedForecast"`
}

// Forecast is the reshaped NWS response for one coordinate.
type Forecast struct {
	Latitude  float64          `json:"latitude"`
	Longitude float64          `json:"longitude"`
	Periods   []ForecastPeriod `json:"periods"`
}

type pointsResponse struct {
	Properties struct {
		Forecast string `json:"forecast"`
	} `json:"properties"`
}

type forecastResponse struct {
	Properties struct {
		Periods []ForecastPeriod `json:"periods"`
	} `json:"properties"`
}

// GetForecast returns the NWS forecast for a coordinate.
func GetForecast(ctx context.Context, lat, lon float64) (*Forecast, error) {
	engine.IncrWeatherRequests()

	var points pointsResponse
	if err := weatherGet(ctx, fmt.Sprintf(weatherPointsURL, lat, lon), &points); err != nil {
		return nil, fmt.Errorf("resolve gridpoint: %w", err)
	}
	if points.Properties.Forecast == "" {
		return nil, errors.New("no forecast available for this location")
	}

	var forecast forecastResponse
	if err := weatherGet(ctx, points.Properties.Forecast, &forecast); err != nil {
		return nil, fmt.Errorf("fetch forecast: %w", err)
	}

	return &Forecast{
		Latitude:  lat,
		Longitude: lon,
		Periods:   forecast.Properties.Periods,
	}, nil
}

func weatherGet(ctx context.Context, url string, out any) error {
	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		// weather.gov rejects requests without an identifying User-Agent.
		req.Header.Set("User-Agent", engine.UserAgentBot+" (contact: ops@go-hub.dev)")
		req.Header.Set("Accept", "application/geo+json,application/json")
		return engine.Cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
