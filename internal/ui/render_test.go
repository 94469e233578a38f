package ui

import (
	"bytes"
	"testing"

	"go-ai-nft-minter/internal/workflow"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	img := &workflow.GeneratedImage{
		PNG:         make([]byte, 2048),
		CID:         "Qm111",
		GatewayURL:  "https://gateway.pinata.cloud/ipfs/Qm111",
		Fingerprint: "AF1349B9F5F9A1A6A0404DEA36DCC9499BCB25C9ADC112B7CC9A93CAE41F3262",
	}

	tests := []struct {
		name     string
		view     workflow.View
		contains []string
		excludes []string
	}{
		{
			name:     "idle",
			view:     workflow.View{State: workflow.Idle, InputEnabled: true, GenerateEnabled: true},
			excludes: []string{"Generated NFT", MintQuestion, "Transaction Hash"},
		},
		{
			name:     "generating",
			view:     workflow.View{State: workflow.Generating, Description: "a red fox", Loading: true, LoadingLabel: workflow.GeneratingLabel},
			contains: []string{"Description: a red fox", "Generating Image..."},
			excludes: []string{MintQuestion},
		},
		{
			name: "generated",
			view: workflow.View{State: workflow.Generated, Description: "a red fox", Image: img, MintEnabled: true, CancelEnabled: true},
			contains: []string{
				"Generated NFT: https://gateway.pinata.cloud/ipfs/Qm111",
				"size 2.00KB, fingerprint AF1349B9F5F9",
				MintQuestion,
				"[y] Yes, Mint NFT",
			},
			excludes: []string{"Transaction Hash"},
		},
		{
			name: "minted",
			view: workflow.View{
				State:           workflow.Minted,
				Image:           img,
				TransactionHash: "0xabc",
				Receipt:         &workflow.MintReceipt{TxHash: "0xabc", TokenURI: "https://gateway.pinata.cloud/ipfs/Qm222", Recipient: "0xf39F", BlockNumber: 7},
			},
			contains: []string{"Transaction Hash: 0xabc", "token URI https://gateway.pinata.cloud/ipfs/Qm222", "minted to 0xf39F in block 7"},
			excludes: []string{MintQuestion},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Render(&buf, tt.view)
			for _, s := range tt.contains {
				assert.Contains(t, buf.String(), s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, buf.String(), s)
			}
		})
	}
}
