package main

import (
	"go-ai-nft-minter/cmd/nftminter/cmd"
)

func main() {
	// Execute the root command (defined in cmd/root.go)
	cmd.Execute()
}
