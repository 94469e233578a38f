package cmd

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go-ai-nft-minter/internal/ui"
)

// runCmd represents the interactive form
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Describe, generate and mint interactively",
	Long: `Prompts for a description, generates and pins an image, shows the
preview and asks whether to mint it. A failed stage returns to the
previous step so it can be retried.`,
	RunE: runInteractive,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("description", "d", "", "Description to use for the first attempt instead of prompting")
	runCmd.Flags().BoolP("yes", "y", false, "Mint the first generated image without asking")
	runCmd.Flags().String("preview-dir", "", "Directory to save generated images to (overrides config)")

	viper.BindPFlag("run.description", runCmd.Flags().Lookup("description"))
	viper.BindPFlag("run.yes", runCmd.Flags().Lookup("yes"))
	viper.BindPFlag("run.preview_dir", runCmd.Flags().Lookup("preview-dir"))
}

func runInteractive(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	minter, closeChain := newWorkflow(ctx)
	defer closeChain()

	previewDir := viper.GetString("run.preview_dir")
	if previewDir == "" {
		previewDir = globalConfig.PreviewDir
	}

	session := &ui.Session{
		Minter:      minter,
		In:          cmd.InOrStdin(),
		Out:         cmd.OutOrStdout(),
		Description: viper.GetString("run.description"),
		AutoConfirm: viper.GetBool("run.yes") || globalConfig.SkipConfirmation,
		PreviewDir:  previewDir,
	}

	receipt, err := session.Run(ctx)
	switch {
	case errors.Is(err, ui.ErrInputClosed):
		log.Info("No NFT was minted")
		return nil
	case errors.Is(err, context.Canceled):
		log.Warn("Interrupted")
		return err
	case err != nil:
		return err
	}

	log.WithFields(log.Fields{
		"tx":        receipt.TxHash,
		"token_uri": receipt.TokenURI,
	}).Info("NFT minted")
	return nil
}
