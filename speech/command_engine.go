package speech

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
)

// ArgsFunc builds the command arguments for one utterance
type ArgsFunc func(text string, opts Options) []string

// CommandEngine speaks by running an external synthesizer binary such
// as espeak or say. One process runs per utterance; Stop kills it.
type CommandEngine struct {
	name    string
	argsFor ArgsFunc

	mu      sync.Mutex
	cmd     *exec.Cmd
	stopped bool
}

// NewCommandEngine creates an engine around the named binary
func NewCommandEngine(name string, argsFor ArgsFunc) *CommandEngine {
	return &CommandEngine{
		name:    name,
		argsFor: argsFor,
	}
}

// NewEspeakEngine creates a CommandEngine for espeak. Pitch maps to
// espeak's 0-99 scale (1.0 -> 50) and rate to words per minute
// (1.0 -> 175).
func NewEspeakEngine() *CommandEngine {
	return NewCommandEngine("espeak", func(text string, opts Options) []string {
		args := []string{
			"-p", fmt.Sprintf("%d", int(opts.Pitch*50)),
			"-s", fmt.Sprintf("%d", int(opts.Rate*175)),
		}
		if opts.Language != "" {
			args = append(args, "-v", strings.ToLower(opts.Language))
		}
		return append(args, text)
	})
}

// NewSayEngine creates a CommandEngine for the macOS say command
func NewSayEngine() *CommandEngine {
	return NewCommandEngine("say", func(text string, opts Options) []string {
		return []string{
			"-r", fmt.Sprintf("%d", int(opts.Rate*175)),
			text,
		}
	})
}

// Speak starts the synthesizer process and returns once it is running.
// The terminal callback fires from a background goroutine when the
// process exits.
func (e *CommandEngine) Speak(ctx context.Context, text string, opts Options, cb Callbacks) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cmd != nil {
		e.killLocked()
	}

	cmd := exec.CommandContext(ctx, e.name, e.argsFor(text, opts)...)
	if err := cmd.Start(); err != nil {
		return err
	}
	e.cmd = cmd
	e.stopped = false

	cb.start()

	go func() {
		err := cmd.Wait()

		e.mu.Lock()
		wasStopped := e.stopped
		if e.cmd == cmd {
			e.cmd = nil
		}
		e.mu.Unlock()

		switch {
		case wasStopped:
			cb.stopped()
		case err != nil:
			cb.fail(err)
		default:
			cb.done()
		}
	}()

	return nil
}

// Stop kills the running synthesizer process, if any
func (e *CommandEngine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.killLocked()
	return nil
}

func (e *CommandEngine) killLocked() {
	if e.cmd == nil || e.cmd.Process == nil {
		return
	}
	e.stopped = true
	_ = e.cmd.Process.Kill()
}
