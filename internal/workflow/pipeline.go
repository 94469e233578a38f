package workflow

import (
	"context"
	"errors"
	"fmt"

	"go-ai-nft-minter/internal/chain"
	"go-ai-nft-minter/internal/helpers"
	"go-ai-nft-minter/internal/imagegen"
	"go-ai-nft-minter/internal/metadata"
	"go-ai-nft-minter/internal/pinning"

	log "github.com/sirupsen/logrus"
)

// ImageGenerator returns a base64 encoded PNG for a prompt.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// Pinner stores a blob and returns its content identifier.
type Pinner interface {
	PinFile(ctx context.Context, fileName, contentType string, data []byte) (*pinning.PinResult, error)
}

// TokenMinter submits mint(to, tokenURI) and waits for confirmation.
type TokenMinter interface {
	Mint(ctx context.Context, tokenURI string) (*chain.MintResult, error)
}

var errNotConfigured = errors.New("stage dependency not configured")

// GeneratedImage is the outcome of the image stage.
type GeneratedImage struct {
	Base64      string
	PNG         []byte
	CID         string
	GatewayURL  string
	Fingerprint string
	Size        int // decoded PNG length in bytes
}

// MintReceipt is the outcome of the mint stage.
type MintReceipt struct {
	ImageCID    string
	MetadataCID string
	TokenURI    string
	TxHash      string
	Recipient   string
	BlockNumber uint64
}

// Pipeline runs the two stages without any state of its own.
type Pipeline struct {
	Generator ImageGenerator
	Pinner    Pinner
	Minter    TokenMinter
	Gateway   string
}

// GenerateImage generates an image for description, decodes it and pins it.
func (p *Pipeline) GenerateImage(ctx context.Context, description string, logger *log.Entry) (*GeneratedImage, error) {
	if p.Generator == nil || p.Pinner == nil {
		return nil, fmt.Errorf("image stage: %w", errNotConfigured)
	}
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}

	encoded, err := p.Generator.GenerateImage(ctx, description)
	if err != nil {
		return nil, fmt.Errorf("generating image: %w", err)
	}
	data, err := imagegen.DecodeImage(encoded)
	if err != nil {
		return nil, err
	}
	fingerprint := helpers.Fingerprint(data)
	logger.WithFields(log.Fields{
		"size":        helpers.BytesToSize(uint64(len(data))),
		"fingerprint": helpers.AbbrevFingerprint(fingerprint),
	}).Info("Image generated")

	pinned, err := p.Pinner.PinFile(ctx, metadata.ImageFileName(description), metadata.ImageContentType, data)
	if err != nil {
		return nil, fmt.Errorf("pinning image: %w", err)
	}
	url := metadata.GatewayURL(p.Gateway, pinned.CID)
	logger.WithField("cid", pinned.CID).Infof("Image pinned: %s", url)

	return &GeneratedImage{
		Base64:      encoded,
		PNG:         data,
		CID:         pinned.CID,
		GatewayURL:  url,
		Fingerprint: fingerprint,
		Size:        len(data),
	}, nil
}

// MintImage pins the metadata document for imageCID and mints a token
// pointing at it. If the mint fails after the metadata was pinned, that
// document is left orphaned.
func (p *Pipeline) MintImage(ctx context.Context, imageCID, description string, logger *log.Entry) (*MintReceipt, error) {
	if p.Pinner == nil || p.Minter == nil {
		return nil, fmt.Errorf("mint stage: %w", errNotConfigured)
	}
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}

	doc := metadata.Build(imageCID, description, p.Gateway)
	payload, err := metadata.Encode(doc)
	if err != nil {
		return nil, err
	}
	pinned, err := p.Pinner.PinFile(ctx, metadata.MetadataFileName(description), metadata.MetadataContentType, payload)
	if err != nil {
		return nil, fmt.Errorf("pinning metadata: %w", err)
	}
	tokenURI := metadata.TokenURI(p.Gateway, pinned.CID)
	logger = logger.WithField("metadata_cid", pinned.CID)
	logger.Infof("Metadata pinned, token URI %s", tokenURI)

	res, err := p.Minter.Mint(ctx, tokenURI)
	if err != nil {
		logger.Warn("Mint failed; pinned metadata is left unused")
		return nil, fmt.Errorf("minting: %w", err)
	}
	logger.WithField("tx", res.TxHash).Info("Transaction hash")

	return &MintReceipt{
		ImageCID:    imageCID,
		MetadataCID: pinned.CID,
		TokenURI:    tokenURI,
		TxHash:      res.TxHash,
		Recipient:   res.Recipient,
		BlockNumber: res.BlockNumber,
	}, nil
}
