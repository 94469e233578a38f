package cmd

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go-ai-nft-minter/internal/ui"
	"go-ai-nft-minter/internal/workflow"
)

// mintCmd runs the mint stage for an already pinned image
var mintCmd = &cobra.Command{
	Use:   "mint",
	Short: "Mint an NFT for an already pinned image",
	Long: `Builds and pins the metadata document for --image-cid and calls
mint(to, tokenURI) on the configured contract.`,
	RunE: runMint,
}

func init() {
	rootCmd.AddCommand(mintCmd)

	mintCmd.Flags().String("image-cid", "", "CID of the pinned image")
	mintCmd.Flags().StringP("description", "d", "", "Description the image was generated from")
	mintCmd.MarkFlagRequired("image-cid")

	viper.BindPFlag("mint.image_cid", mintCmd.Flags().Lookup("image-cid"))
	viper.BindPFlag("mint.description", mintCmd.Flags().Lookup("description"))
}

func runMint(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	tokenMinter, closeChain, err := newTokenMinter(ctx)
	if err != nil {
		return err
	}
	defer closeChain()

	pipeline := &workflow.Pipeline{
		Pinner:  newPinningClient(newHttpClient()),
		Minter:  tokenMinter,
		Gateway: globalConfig.GatewayUrl,
	}

	indicator := ui.NewIndicator(cmd.ErrOrStderr())
	indicator.Start(workflow.MintingLabel)
	receipt, err := pipeline.MintImage(ctx, viper.GetString("mint.image_cid"), viper.GetString("mint.description"), log.WithField("cmd", "mint"))
	if err != nil {
		indicator.Stop("Minting did not complete.")
		return err
	}
	indicator.Stop("")

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Transaction Hash: %s\n", receipt.TxHash)
	fmt.Fprintf(out, "Token URI: %s\n", receipt.TokenURI)
	return nil
}
