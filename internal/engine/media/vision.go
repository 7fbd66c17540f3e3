package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/anatolykoptev/go_hub/internal/engine"
)

// VisionClient calls the Azure OpenAI chat completions endpoint with an
// image URL attached, for the describe_image tool.
type VisionClient struct {
	Endpoint   string
	APIKey     string
	APIVersion string
	Deployment string
	HTTPClient *http.Client
}

type visionContentPart struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL *struct {
		URL string `json:"url"`
	} `json:"image_url,omitempty"`
}

type visionMessage struct {
	Role    string              `json:"role"`
	Content []visionContentPart `json:"content"`
}

type visionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// DescribeImage asks the vision deployment about imageURL. An empty prompt
// defaults to a plain description request.
func (c *VisionClient) DescribeImage(ctx context.Context, imageURL, prompt string) (string, error) {
	if c == nil || c.Endpoint == "" || c.APIKey == "" {
		return "", ErrServiceNotConfigured
	}
	if prompt == "" {
		prompt = "Describe this image."
	}
	engine.IncrVisionRequests()

	imagePart := visionContentPart{Type: "image_url"}
	imagePart.ImageURL = &struct {
		URL string `json:"url"`
	}{URL: imageURL}

	payload, err := json.Marshal(map[string]any{
		"messages": []visionMessage{{
			Role: "user",
			Content: []visionContentPart{
				{Type: "text", Text: prompt},
				imagePart,
			},
		}},
	})
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		strings.TrimRight(c.Endpoint, "/"), url.PathEscape(c.Deployment), url.QueryEscape(c.APIVersion))

	resp, err := engine.RetryHTTP(ctx, engine.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("api-key", c.APIKey)
		return c.HTTPClient.Do(req)
	})
	if err != nil {
		return "", fmt.Errorf("vision request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024*1024))
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &ServiceError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var out visionResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode vision response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", errors.New("vision response has no choices")
	}
	return out.Choices[0].Message.Content, nil
}
