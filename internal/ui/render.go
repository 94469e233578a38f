package ui

import (
	"fmt"
	"io"

	"go-ai-nft-minter/internal/helpers"
	"go-ai-nft-minter/internal/workflow"
)

const MintQuestion = "Do you want to mint this image as an NFT?"

// Render prints the form for v.
func Render(w io.Writer, v workflow.View) {
	s := newStyles(w)

	if v.Description != "" {
		fmt.Fprintf(w, "%s %s\n", s.label.Render("Description:"), v.Description)
	}
	if v.Loading {
		fmt.Fprintln(w, s.detail.Render(v.LoadingLabel))
	}

	if img := v.Image; img != nil {
		fmt.Fprintf(w, "%s %s\n", s.label.Render("Generated NFT:"), s.link.Render(img.GatewayURL))
		fmt.Fprintln(w, s.detail.Render(fmt.Sprintf("  size %s, fingerprint %s", helpers.BytesToSize(uint64(len(img.PNG))), helpers.AbbrevFingerprint(img.Fingerprint))))
	}

	if v.MintEnabled || v.CancelEnabled {
		fmt.Fprintln(w, s.question.Render(MintQuestion))
		fmt.Fprintln(w, "  [y] Yes, Mint NFT   [n] No, Cancel")
	}

	if v.TransactionHash != "" {
		fmt.Fprintf(w, "%s %s\n", s.label.Render("Transaction Hash:"), s.hash.Render(v.TransactionHash))
		if r := v.Receipt; r != nil {
			fmt.Fprintln(w, s.detail.Render("  token URI "+r.TokenURI))
			if r.BlockNumber > 0 {
				fmt.Fprintln(w, s.detail.Render(fmt.Sprintf("  minted to %s in block %d", r.Recipient, r.BlockNumber)))
			}
		}
	}
}

// renderFailure styles a stage failure line for w.
func renderFailure(w io.Writer, msg string) string {
	return newStyles(w).failure.Render(msg)
}
