package speech

import (
	"context"
	"sync"
)

// NoopEngine discards utterances. It drives the full callback lifecycle
// so controllers behave the same on hosts without a synthesizer.
type NoopEngine struct {
	mu     sync.Mutex
	active *Callbacks
}

// NewNoopEngine creates a silent engine
func NewNoopEngine() *NoopEngine {
	return &NoopEngine{}
}

// Speak reports the utterance as started and leaves it in flight until
// Stop or Finish is called
func (e *NoopEngine) Speak(ctx context.Context, text string, opts Options, cb Callbacks) error {
	e.mu.Lock()
	e.active = &cb
	e.mu.Unlock()

	cb.start()
	return nil
}

// Stop ends the in-flight utterance with the stopped callback
func (e *NoopEngine) Stop() error {
	e.mu.Lock()
	cb := e.active
	e.active = nil
	e.mu.Unlock()

	if cb != nil {
		cb.stopped()
	}
	return nil
}

// Finish ends the in-flight utterance as if playback completed
func (e *NoopEngine) Finish() {
	e.mu.Lock()
	cb := e.active
	e.active = nil
	e.mu.Unlock()

	if cb != nil {
		cb.done()
	}
}
