package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go-ai-nft-minter/internal/metadata"
)

// metadataCmd prints the document mint would pin
var metadataCmd = &cobra.Command{
	Use:   "metadata",
	Short: "Print the NFT metadata for an image without uploading it",
	RunE:  runMetadata,
}

func init() {
	rootCmd.AddCommand(metadataCmd)

	metadataCmd.Flags().String("image-cid", "", "CID of the pinned image")
	metadataCmd.Flags().StringP("description", "d", "", "Description the image was generated from")
	metadataCmd.MarkFlagRequired("image-cid")

	viper.BindPFlag("metadata.image_cid", metadataCmd.Flags().Lookup("image-cid"))
	viper.BindPFlag("metadata.description", metadataCmd.Flags().Lookup("description"))
}

func runMetadata(cmd *cobra.Command, args []string) error {
	doc := metadata.Build(viper.GetString("metadata.image_cid"), viper.GetString("metadata.description"), globalConfig.GatewayUrl)
	payload, err := metadata.Encode(doc)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n", payload)
	fmt.Fprintf(out, "File name: %s\n", metadata.MetadataFileName(viper.GetString("metadata.description")))
	return nil
}
