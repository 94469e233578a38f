// Package imagegen talks to the OpenAI-compatible image generation endpoint.
package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go-ai-nft-minter/internal/api"
	"go-ai-nft-minter/internal/models"

	log "github.com/sirupsen/logrus"
)

const serviceName = "image generation"

var (
	ErrEmptyResult = errors.New("image generation returned no images")
	ErrDecode      = errors.New("invalid base64 image payload")
)

// pngMagic is the fixed eight byte PNG signature.
var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// Client requests a single square image as base64.
type Client struct {
	ApiKey     string
	BaseUrl    string
	Model      string
	Size       string
	HttpClient *http.Client
}

// NewClient creates a new image generation client. Empty baseUrl and size
// fall back to the OpenAI defaults.
func NewClient(apiKey string, httpClient *http.Client, cfg models.Config) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 120 * time.Second}
	}
	baseUrl := cfg.OpenAIBaseUrl
	if baseUrl == "" {
		baseUrl = models.DefaultOpenAIBaseUrl
	}
	size := cfg.ImageSize
	if size == "" {
		size = models.DefaultImageSize
	}
	return &Client{
		ApiKey:     apiKey,
		BaseUrl:    strings.TrimRight(baseUrl, "/"),
		Model:      cfg.ImageModel,
		Size:       size,
		HttpClient: httpClient,
	}
}

// GenerateImage asks for one image for prompt and returns the base64 payload.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(models.ImageGenerationRequest{
		Model:          c.Model,
		Prompt:         prompt,
		N:              1,
		Size:           c.Size,
		ResponseFormat: "b64_json",
	})
	if err != nil {
		return "", fmt.Errorf("error encoding request: %w", err)
	}

	reqURL := c.BaseUrl + "/v1/images/generations"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.ApiKey)

	log.WithField("size", c.Size).Debugf("Requesting image generation from %s", reqURL)
	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s request failed: %w", serviceName, err)
	}
	if err := api.CheckResponse(serviceName, resp); err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response body: %w", err)
	}
	var result models.ImageGenerationResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("error unmarshalling response JSON: %w", err)
	}
	if result.Error != nil && result.Error.Message != "" {
		return "", fmt.Errorf("%s: %s", serviceName, result.Error.Message)
	}
	if len(result.Data) == 0 || result.Data[0].B64JSON == "" {
		return "", ErrEmptyResult
	}
	if rp := result.Data[0].RevisedPrompt; rp != "" {
		log.WithField("revised_prompt", rp).Debug("Prompt revised by the generation service")
	}
	return result.Data[0].B64JSON, nil
}

// DecodeImage turns the base64 payload into PNG bytes. Payloads that decode
// but do not carry the PNG signature are only warned about; the upload is
// labelled image/png regardless.
func DecodeImage(encoded string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrDecode)
	}
	if !bytes.HasPrefix(data, pngMagic) {
		log.Warn("Decoded image does not start with a PNG signature")
	}
	return data, nil
}
