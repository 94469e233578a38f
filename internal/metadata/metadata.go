// Package metadata builds the file names, NFT metadata document and gateway
// URLs derived from a description and content identifiers.
package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"go-ai-nft-minter/internal/helpers"
	"go-ai-nft-minter/internal/models"
)

// NameLength is how many characters of the description go into names.
const NameLength = 20

const (
	ImageContentType    = "image/png"
	MetadataContentType = "application/json"
)

// ImageFileName is the upload name of the generated image.
func ImageFileName(description string) string {
	return "AINFT-" + helpers.Truncate(description, NameLength) + ".png"
}

// MetadataFileName is the upload name of the metadata document.
func MetadataFileName(description string) string {
	return "metadata-" + helpers.Truncate(description, NameLength) + ".json"
}

// GatewayURL joins the gateway base and a content identifier.
func GatewayURL(gateway, cid string) string {
	if gateway == "" {
		gateway = models.DefaultGatewayUrl
	}
	return strings.TrimRight(gateway, "/") + "/" + cid
}

// TokenURI is the URI minted into the token for a pinned metadata document.
func TokenURI(gateway, metadataCID string) string {
	return GatewayURL(gateway, metadataCID)
}

// Build returns the metadata document for an image CID.
func Build(imageCID, description, gateway string) models.NftMetadata {
	return models.NftMetadata{
		Name:        "GeneratedNFT-" + helpers.Truncate(description, NameLength),
		Description: `An NFT generated from AI based on the description: "` + description + `"`,
		Image:       GatewayURL(gateway, imageCID),
	}
}

// Encode serializes the document the way it is uploaded.
// Characters such as <, > and & are written as-is.
func Encode(doc models.NftMetadata) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("error encoding metadata: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
