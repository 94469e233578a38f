// Package ui renders the minting workflow in a terminal.
package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/gosuri/uilive"
)

// Indicator shows a single live "label Ns" line while a stage runs.
type Indicator struct {
	Out      io.Writer
	Interval time.Duration

	mu     sync.Mutex
	writer *uilive.Writer
	done   chan struct{}
	wg     sync.WaitGroup
}

// NewIndicator writes to out, or stdout when out is nil.
func NewIndicator(out io.Writer) *Indicator {
	if out == nil {
		out = os.Stdout
	}
	return &Indicator{Out: out, Interval: time.Second}
}

// Start begins updating the line. Calling Start while running is a no-op.
func (i *Indicator) Start(label string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.writer != nil {
		return
	}
	interval := i.Interval
	if interval <= 0 {
		interval = time.Second
	}

	w := uilive.New()
	w.Out = i.Out
	w.RefreshInterval = interval
	w.Start()
	fmt.Fprintf(w, "%s\n", label)

	i.writer = w
	i.done = make(chan struct{})
	i.wg.Add(1)
	go func(done <-chan struct{}, started time.Time) {
		defer i.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				fmt.Fprintf(w, "%s %s\n", label, time.Since(started).Round(time.Second))
			}
		}
	}(i.done, time.Now())
}

// Stop halts the updates and replaces the line with final, if not empty.
func (i *Indicator) Stop(final string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.writer == nil {
		return
	}
	close(i.done)
	i.wg.Wait()
	if final != "" {
		fmt.Fprintf(i.writer, "%s\n", final)
	}
	i.writer.Stop()
	i.writer = nil
}
