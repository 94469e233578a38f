package ui

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

// syncBuffer is a bytes.Buffer safe for the indicator's background writes.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestIndicator_StartStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	out := &syncBuffer{}
	ind := NewIndicator(out)
	ind.Interval = 10 * time.Millisecond

	ind.Start("Generating Image...")
	ind.Start("ignored while running")
	time.Sleep(35 * time.Millisecond)
	ind.Stop("Image generated.")

	got := out.String()
	assert.Contains(t, got, "Generating Image...")
	assert.Contains(t, got, "Image generated.")
	assert.NotContains(t, got, "ignored while running")
}

func TestIndicator_StopWithoutStart(t *testing.T) {
	defer goleak.VerifyNone(t)

	out := &syncBuffer{}
	ind := NewIndicator(out)
	ind.Stop("nothing")
	assert.Empty(t, out.String())
}

func TestIndicator_Restart(t *testing.T) {
	defer goleak.VerifyNone(t)

	out := &syncBuffer{}
	ind := NewIndicator(out)
	ind.Interval = 5 * time.Millisecond

	ind.Start("Generating Image...")
	ind.Stop("")
	ind.Start("Minting...")
	ind.Stop("NFT minted.")

	got := out.String()
	assert.Contains(t, got, "Minting...")
	assert.Contains(t, got, "NFT minted.")
}
