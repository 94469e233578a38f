package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	log "github.com/sirupsen/logrus"

	"go-ai-nft-minter/internal/chain"
	"go-ai-nft-minter/internal/imagegen"
	"go-ai-nft-minter/internal/pinning"
	"go-ai-nft-minter/internal/workflow"
)

// newHttpClient returns a client on the global transport with the configured timeout.
func newHttpClient() *http.Client {
	if globalHttpTransport == nil {
		log.Error("Global HTTP transport not initialized, using default transport without logging.")
		globalHttpTransport = http.DefaultTransport
	}
	return &http.Client{
		Timeout:   time.Duration(globalConfig.ApiClientTimeoutSec) * time.Second,
		Transport: globalHttpTransport,
	}
}

func newImageClient(httpClient *http.Client) *imagegen.Client {
	return imagegen.NewClient(globalConfig.OpenAIApiKey, httpClient, globalConfig)
}

func newPinningClient(httpClient *http.Client) *pinning.Client {
	return pinning.NewClient(globalConfig.PinataJWT, httpClient, globalConfig)
}

// newTokenMinter connects to the configured node. The returned func closes
// the connection. The signer is only loaded when a mint is submitted.
func newTokenMinter(ctx context.Context) (*chain.Minter, func(), error) {
	client, err := chain.Dial(ctx, globalConfig.RpcUrl)
	if err != nil {
		return nil, nil, err
	}
	minter, err := chain.NewMinter(client, globalConfig.ContractAddress, chain.ConfigSigner(globalConfig),
		chain.WithChainID(globalConfig.ChainID),
		chain.WithRecipient(globalConfig.MintTo),
	)
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	return minter, client.Close, nil
}

// newWorkflow wires the workflow to the configured services. A chain that
// cannot be set up is only warned about: generating still works and
// minting fails at the call.
func newWorkflow(ctx context.Context) (*workflow.Minter, func()) {
	httpClient := newHttpClient()

	var tokenMinter workflow.TokenMinter
	closeChain := func() {}
	minter, closeFn, err := newTokenMinter(ctx)
	if err != nil {
		log.WithError(err).Warn("Minting is unavailable")
	} else {
		tokenMinter = minter
		closeChain = closeFn
	}

	m := workflow.New(newImageClient(httpClient), newPinningClient(httpClient), tokenMinter,
		workflow.WithGateway(globalConfig.GatewayUrl))
	return m, closeChain
}

// signalContext is canceled on the first interrupt.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}
