// Package workflow implements the generate-then-mint state machine.
//
// A Minter moves through Idle, Generating, Generated, Minting and Minted.
// Every trigger goes through Transition, so a trigger that arrives while a
// stage is in flight is rejected instead of starting a second call.
package workflow

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Loading labels shown while a stage runs.
const (
	GeneratingLabel = "Generating Image..."
	MintingLabel    = "Minting..."
)

// View is what the form shows for the current state.
type View struct {
	State           State
	RunID           string
	Description     string
	Loading         bool
	LoadingLabel    string
	InputEnabled    bool
	GenerateEnabled bool
	MintEnabled     bool
	CancelEnabled   bool
	ResetEnabled    bool
	Image           *GeneratedImage // nil when no preview is shown
	TransactionHash string
	Receipt         *MintReceipt
}

// Minter is one user's workflow. It is safe for concurrent use; the lock is
// only held around transitions, never across a stage.
type Minter struct {
	pipeline Pipeline

	mu          sync.Mutex
	state       State
	runID       string
	description string
	image       *GeneratedImage
	receipt     *MintReceipt
}

// Option configures a Minter.
type Option func(*Minter)

// WithGateway sets the IPFS gateway base used for image and token URLs.
func WithGateway(gateway string) Option {
	return func(m *Minter) { m.pipeline.Gateway = gateway }
}

// New returns a Minter in the Idle state.
func New(gen ImageGenerator, pin Pinner, mint TokenMinter, opts ...Option) *Minter {
	m := &Minter{
		pipeline: Pipeline{Generator: gen, Pinner: pin, Minter: mint},
		state:    Idle,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// fire applies ev. Callers hold m.mu.
func (m *Minter) fire(ev Event) error {
	next, err := Transition(m.state, ev)
	if err != nil {
		return err
	}
	m.logger().WithFields(log.Fields{"from": m.state, "to": next}).Debugf("Workflow %s", ev)
	m.state = next
	return nil
}

// logger returns an entry tagged with the current run. Callers hold m.mu.
func (m *Minter) logger() *log.Entry {
	return log.WithField("run", m.runID)
}

// State returns the current state.
func (m *Minter) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// SetDescription updates the prompt. The input is only editable while Idle.
func (m *Minter) SetDescription(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Idle {
		return fmt.Errorf("%w: description is locked while %s", ErrInvalidTransition, m.state)
	}
	m.description = text
	return nil
}

// Generate runs the image stage for the current description. On failure
// the workflow returns to Idle without a preview; the error is logged and
// returned.
func (m *Minter) Generate(ctx context.Context) (*GeneratedImage, error) {
	m.mu.Lock()
	if err := m.fire(EventGenerate); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	m.runID = uuid.NewString()
	description := m.description
	logger := m.logger()
	m.mu.Unlock()

	if strings.TrimSpace(description) == "" {
		logger.Warn("Generating with an empty description")
	}
	logger.WithField("description", description).Info(GeneratingLabel)
	img, err := m.pipeline.GenerateImage(ctx, description, logger)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		logger.WithError(err).Error("Error generating image")
		m.image = nil
		m.fire(EventGenerateFailed)
		return nil, err
	}
	m.image = img
	m.fire(EventGenerateSucceeded)
	return img, nil
}

// Mint runs the mint stage for the generated image. On failure the
// workflow returns to Generated with the preview kept.
func (m *Minter) Mint(ctx context.Context) (*MintReceipt, error) {
	m.mu.Lock()
	if err := m.fire(EventMint); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	imageCID := m.image.CID
	description := m.description
	logger := m.logger()
	m.mu.Unlock()

	logger.WithField("image_cid", imageCID).Info(MintingLabel)
	receipt, err := m.pipeline.MintImage(ctx, imageCID, description, logger)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		logger.WithError(err).Error("Error minting NFT")
		m.fire(EventMintFailed)
		return nil, err
	}
	m.receipt = receipt
	m.fire(EventMintSucceeded)
	return receipt, nil
}

// Cancel discards a generated image without minting it. It never aborts a
// call in flight.
func (m *Minter) Cancel() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fire(EventCancel); err != nil {
		return err
	}
	m.logger().Info("Generated image discarded")
	m.image = nil
	return nil
}

// Reset starts over from a finished or generated run, dropping every
// artefact including the description.
func (m *Minter) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fire(EventReset); err != nil {
		return err
	}
	m.image = nil
	m.receipt = nil
	m.description = ""
	m.runID = ""
	return nil
}

// View returns a snapshot of the form.
func (m *Minter) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := View{
		State:           m.state,
		RunID:           m.runID,
		Description:     m.description,
		Loading:         m.state.Loading(),
		InputEnabled:    m.state == Idle,
		GenerateEnabled: Allowed(m.state, EventGenerate),
		MintEnabled:     Allowed(m.state, EventMint),
		CancelEnabled:   Allowed(m.state, EventCancel),
		ResetEnabled:    Allowed(m.state, EventReset),
	}
	switch m.state {
	case Generating:
		v.LoadingLabel = GeneratingLabel
	case Minting:
		v.LoadingLabel = MintingLabel
	}
	if m.state == Generated || m.state == Minting || m.state == Minted {
		v.Image = m.image
	}
	if m.state == Minted && m.receipt != nil {
		v.TransactionHash = m.receipt.TxHash
		v.Receipt = m.receipt
	}
	return v
}
