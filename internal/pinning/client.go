// Package pinning uploads blobs to the Pinata IPFS pinning service.
package pinning

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"go-ai-nft-minter/internal/api"
	"go-ai-nft-minter/internal/helpers"
	"go-ai-nft-minter/internal/models"

	log "github.com/sirupsen/logrus"
)

const serviceName = "pinning"

var ErrMissingHash = errors.New("pinning response did not include an IpfsHash")

// PinResult describes a pinned blob.
type PinResult struct {
	CID         string
	PinSize     int64
	Timestamp   string
	IsDuplicate bool
}

// Client posts files to /pinning/pinFileToIPFS with bearer authentication.
type Client struct {
	JWT        string
	BaseUrl    string
	HttpClient *http.Client
}

// NewClient creates a new pinning client.
func NewClient(jwt string, httpClient *http.Client, cfg models.Config) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	baseUrl := cfg.PinataBaseUrl
	if baseUrl == "" {
		baseUrl = models.DefaultPinataBaseUrl
	}
	return &Client{
		JWT:        jwt,
		BaseUrl:    strings.TrimRight(baseUrl, "/"),
		HttpClient: httpClient,
	}
}

// PinFile uploads data as the multipart "file" field named fileName.
func (c *Client) PinFile(ctx context.Context, fileName, contentType string, data []byte) (*PinResult, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(fileName)))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("failed to write file part: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close writer: %w", err)
	}

	reqURL := c.BaseUrl + "/pinning/pinFileToIPFS"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.JWT)

	log.WithFields(log.Fields{
		"file": fileName,
		"type": contentType,
		"size": helpers.BytesToSize(uint64(len(data))),
	}).Debug("Pinning file")

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", serviceName, err)
	}
	if err := api.CheckResponse(serviceName, resp); err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}
	var pinned models.PinResponse
	if err := json.Unmarshal(raw, &pinned); err != nil {
		return nil, fmt.Errorf("error unmarshalling response JSON: %w", err)
	}
	if pinned.IpfsHash == "" {
		return nil, ErrMissingHash
	}

	log.WithField("cid", pinned.IpfsHash).Debugf("Pinned %s", fileName)
	return &PinResult{
		CID:         pinned.IpfsHash,
		PinSize:     pinned.PinSize,
		Timestamp:   pinned.Timestamp,
		IsDuplicate: pinned.IsDuplicate,
	}, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
