package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go-ai-nft-minter/internal/helpers"
	"go-ai-nft-minter/internal/ui"
	"go-ai-nft-minter/internal/workflow"
)

// generateCmd runs the image stage only
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate and pin an image without minting",
	Long: `Generates an image for the description, pins it and prints its CID and
gateway URL. The CID can be passed to "mint --image-cid" later.`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringP("description", "d", "", "Description of the image to generate")
	generateCmd.Flags().StringP("output", "o", "", "Also write the PNG to this file")
	generateCmd.MarkFlagRequired("description")

	viper.BindPFlag("generate.description", generateCmd.Flags().Lookup("description"))
	viper.BindPFlag("generate.output", generateCmd.Flags().Lookup("output"))
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	httpClient := newHttpClient()
	minter := workflow.New(newImageClient(httpClient), newPinningClient(httpClient), nil,
		workflow.WithGateway(globalConfig.GatewayUrl))
	if err := minter.SetDescription(viper.GetString("generate.description")); err != nil {
		return err
	}

	indicator := ui.NewIndicator(cmd.ErrOrStderr())
	indicator.Start(workflow.GeneratingLabel)
	img, err := minter.Generate(ctx)
	if err != nil {
		indicator.Stop("No image was generated.")
		return err
	}
	indicator.Stop("")

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Image CID: %s\n", img.CID)
	fmt.Fprintf(out, "Generated NFT: %s\n", img.GatewayURL)

	if output := viper.GetString("generate.output"); output != "" {
		if dir := filepath.Dir(output); dir != "." && !helpers.CheckAndMakeDir(dir) {
			return fmt.Errorf("cannot create directory for %s", output)
		}
		if err := os.WriteFile(output, img.PNG, 0644); err != nil {
			return fmt.Errorf("error writing %s: %w", output, err)
		}
		log.WithField("fingerprint", helpers.ShortFingerprint(img.PNG)).Infof("Image saved to %s", output)
	}
	return nil
}
