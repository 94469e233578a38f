package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go-ai-nft-minter/internal/helpers"
	"go-ai-nft-minter/internal/metadata"
	"go-ai-nft-minter/internal/workflow"

	log "github.com/sirupsen/logrus"
)

// ErrInputClosed is returned when input ends before a token was minted.
var ErrInputClosed = errors.New("input closed before minting")

// Session is the interactive form: describe, generate, confirm, mint.
type Session struct {
	Minter      *workflow.Minter
	In          io.Reader
	Out         io.Writer
	Indicator   *Indicator
	Description string // Used for the first attempt instead of prompting
	AutoConfirm bool   // Mint the first generated image without asking
	PreviewDir  string // When set, generated PNGs are written here

	reader *bufio.Reader
}

// Run drives the workflow until a token is minted, input ends or ctx is
// canceled. Failed stages are logged and the form re-offers whatever the
// workflow fell back to.
func (s *Session) Run(ctx context.Context) (*workflow.MintReceipt, error) {
	if s.Out == nil {
		s.Out = os.Stdout
	}
	if s.In == nil {
		s.In = os.Stdin
	}
	if s.Indicator == nil {
		s.Indicator = NewIndicator(s.Out)
	}
	s.reader = bufio.NewReader(s.In)

	prefill := s.Description
	autoConfirm := s.AutoConfirm

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		switch s.Minter.State() {
		case workflow.Idle:
			description := prefill
			prefill = ""
			if description == "" {
				line, err := s.ask("Enter a description: ")
				if err != nil {
					return nil, err
				}
				description = line
			}
			if err := s.Minter.SetDescription(description); err != nil {
				return nil, err
			}
			s.generate(ctx)

		case workflow.Generated:
			Render(s.Out, s.Minter.View())
			confirmed := autoConfirm
			autoConfirm = false
			if !confirmed {
				answer, err := s.ask("Mint? [y/N]: ")
				if err != nil {
					return nil, err
				}
				confirmed = strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes")
			}
			if !confirmed {
				if err := s.Minter.Cancel(); err != nil {
					return nil, err
				}
				fmt.Fprintln(s.Out, "Image discarded.")
				continue
			}
			if receipt := s.mint(ctx); receipt != nil {
				Render(s.Out, s.Minter.View())
				return receipt, nil
			}

		default:
			// Generating and Minting are only observable from other goroutines.
			return nil, fmt.Errorf("unexpected workflow state %s", s.Minter.State())
		}
	}
}

func (s *Session) generate(ctx context.Context) {
	s.Indicator.Start(workflow.GeneratingLabel)
	img, err := s.Minter.Generate(ctx)
	if err != nil {
		s.Indicator.Stop(renderFailure(s.Out, "No image was generated."))
		return
	}
	s.Indicator.Stop("Image generated.")

	if s.PreviewDir != "" {
		path, err := SavePreview(s.PreviewDir, s.Minter.View().Description, img)
		if err != nil {
			log.WithError(err).Warn("Could not save preview image")
		} else {
			fmt.Fprintf(s.Out, "Preview saved to %s\n", path)
		}
	}
}

func (s *Session) mint(ctx context.Context) *workflow.MintReceipt {
	s.Indicator.Start(workflow.MintingLabel)
	receipt, err := s.Minter.Mint(ctx)
	if err != nil {
		s.Indicator.Stop(renderFailure(s.Out, "Minting did not complete."))
		return nil
	}
	s.Indicator.Stop("NFT minted.")
	return receipt
}

// ask prints prompt and returns the next trimmed input line.
func (s *Session) ask(prompt string) (string, error) {
	fmt.Fprint(s.Out, prompt)
	line, err := s.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && strings.TrimSpace(line) != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrInputClosed
		}
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// SavePreview writes the generated PNG to dir and returns its path.
func SavePreview(dir, description string, img *workflow.GeneratedImage) (string, error) {
	if !helpers.CheckAndMakeDir(dir) {
		return "", fmt.Errorf("cannot create preview directory %s", dir)
	}
	base := helpers.ConvertToSlug(helpers.Truncate(description, metadata.NameLength))
	if base == "" {
		base = "image"
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.png", base, helpers.AbbrevFingerprint(img.Fingerprint)))
	if err := os.WriteFile(path, img.PNG, 0644); err != nil {
		return "", fmt.Errorf("writing preview %s: %w", path, err)
	}
	return path, nil
}
