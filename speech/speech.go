// Package speech wraps a platform text-to-speech engine behind a small
// controller. The underlying platform capability does not support true
// pause/resume: Pause stops the active utterance and remembers it, and
// Resume restarts from the beginning of the full text, not from the
// paused position. That restart-from-start behavior is preserved on
// purpose; see the Speaker docs.
package speech

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Abraxas-365/lectora/logx"
)

// Callbacks carries the utterance lifecycle notifications. Completion,
// explicit stop and error are three distinct terminal callbacks; the
// Speaker updates its state consistently for all three so a stuck
// "playing" indicator is not possible.
type Callbacks struct {
	OnStart   func()
	OnDone    func()
	OnStopped func()
	OnError   func(error)
}

func (c Callbacks) start() {
	if c.OnStart != nil {
		c.OnStart()
	}
}

func (c Callbacks) done() {
	if c.OnDone != nil {
		c.OnDone()
	}
}

func (c Callbacks) stopped() {
	if c.OnStopped != nil {
		c.OnStopped()
	}
}

func (c Callbacks) fail(err error) {
	if c.OnError != nil {
		c.OnError(err)
	}
}

// Engine is the platform text-to-speech binding. Speak returns once
// playback has started; completion arrives through the callbacks.
type Engine interface {
	Speak(ctx context.Context, text string, opts Options, cb Callbacks) error
	Stop() error
}

// Speaker sequences utterances on an Engine. Starting a new utterance
// while one is in flight stops the active one first, then restarts
// after a short delay.
type Speaker struct {
	engine       Engine
	restartDelay time.Duration

	mu       sync.Mutex
	playing  bool
	paused   bool
	lastText string
	lastOpts []Option
}

// SpeakerOption configures a Speaker
type SpeakerOption func(*Speaker)

// WithRestartDelay overrides the delay between stopping an in-flight
// utterance and starting the next one
func WithRestartDelay(d time.Duration) SpeakerOption {
	return func(s *Speaker) {
		s.restartDelay = d
	}
}

// NewSpeaker creates a Speaker on the given engine
func NewSpeaker(engine Engine, opts ...SpeakerOption) *Speaker {
	s := &Speaker{
		engine:       engine,
		restartDelay: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Speak starts reading text aloud, fire-and-forget. An in-flight
// utterance is stopped before the new one begins so audio never
// overlaps. Empty text is a no-op.
func (s *Speaker) Speak(ctx context.Context, text string, opts ...Option) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	s.mu.Lock()
	wasPlaying := s.playing
	s.lastText = text
	s.lastOpts = opts
	s.paused = false
	s.mu.Unlock()

	if wasPlaying {
		if err := s.engine.Stop(); err != nil {
			return Errors.NewWithCause(ErrEngineFailed, err)
		}
		time.Sleep(s.restartDelay)
	}

	return s.start(ctx, text, opts)
}

func (s *Speaker) start(ctx context.Context, text string, opts []Option) error {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	options.Clamp()

	cb := Callbacks{
		OnStart: func() {
			s.setState(true, false)
		},
		OnDone: func() {
			s.setState(false, false)
		},
		OnStopped: func() {
			s.mu.Lock()
			s.playing = false
			// paused survives an explicit stop issued by Pause
			s.mu.Unlock()
		},
		OnError: func(err error) {
			logx.Error("speech playback failed: %v", err)
			s.setState(false, false)
		},
	}

	if err := s.engine.Speak(ctx, text, *options, cb); err != nil {
		s.setState(false, false)
		return Errors.NewWithCause(ErrEngineFailed, err)
	}
	return nil
}

func (s *Speaker) setState(playing, paused bool) {
	s.mu.Lock()
	s.playing = playing
	s.paused = paused
	s.mu.Unlock()
}

// Pause stops the active utterance and remembers it for Resume. The
// platform has no real pause, so this is stop-and-remember-state.
func (s *Speaker) Pause() error {
	s.mu.Lock()
	if !s.playing {
		s.mu.Unlock()
		return nil
	}
	s.paused = true
	s.mu.Unlock()

	if err := s.engine.Stop(); err != nil {
		return Errors.NewWithCause(ErrEngineFailed, err)
	}
	return nil
}

// Resume restarts the paused utterance from the beginning of the full
// text, not from the paused position.
func (s *Speaker) Resume(ctx context.Context) error {
	s.mu.Lock()
	if !s.paused || s.lastText == "" {
		s.mu.Unlock()
		return nil
	}
	text := s.lastText
	opts := s.lastOpts
	s.paused = false
	s.mu.Unlock()

	time.Sleep(s.restartDelay)
	return s.start(ctx, text, opts)
}

// Stop ends playback and clears the paused state
func (s *Speaker) Stop() error {
	s.setState(false, false)
	if err := s.engine.Stop(); err != nil {
		return Errors.NewWithCause(ErrEngineFailed, err)
	}
	return nil
}

// IsPlaying reports whether an utterance is in flight
func (s *Speaker) IsPlaying() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

// IsPaused reports whether playback was paused
func (s *Speaker) IsPaused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}
