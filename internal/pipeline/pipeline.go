// Package pipeline assembles the distribution tree from the catalog. The
// steps are strictly ordered: each one works on the filesystem state the
// previous ones left behind, and the first hard error aborts the run.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"packforge/internal/catalog"
	"packforge/internal/paths"
)

// State is the lifecycle of one pipeline step.
type State int

const (
	StatePending State = iota
	StateRunning
	StateWarning
	StateDone
	StateFailed
)

func (s State) String() string {
	return [...]string{"pending", "running", "warning", "done", "failed"}[s]
}

// Event is sent over the progress channel as steps advance. StateWarning
// events carry a message and do not end the step; StateFailed carries the
// error that aborted the run.
type Event struct {
	Step    string
	State   State
	Warning string
	Err     error
}

// Builder runs the build pipeline. It owns the destination tree
// exclusively for the duration of a run.
type Builder struct {
	Catalog *catalog.Catalog
	Paths   paths.Paths
	Logger  zerolog.Logger

	// Now stamps the changelog header; tests pin it. Defaults to time.Now.
	Now func() time.Time

	events  chan<- Event
	current string
}

type step struct {
	name string
	run  func() error
}

func (b *Builder) steps() []step {
	return []step{
		{"core application", b.createAppDir},
		{"baselines", b.createBaselines},
		{"asset dirs", b.installAssetDirs},
		{"utilities", b.createUtilities},
		{"graphics", b.createGraphics},
		{"default graphics", b.installDefaultGraphics},
		{"launcher", b.setupLauncher},
		{"about", b.createAbout},
		{"defaults", b.makeDefaults},
		{"keybindings", b.makeKeybindings},
	}
}

// StepNames lists the pipeline steps in execution order, for progress
// displays.
func (b *Builder) StepNames() []string {
	steps := b.steps()
	names := make([]string, len(steps))
	for i, s := range steps {
		names[i] = s.name
	}
	return names
}

// Run executes the pipeline, sending progress events on the returned
// channel. The channel is closed when the run finishes; a StateFailed
// event precedes the close on error. The destination root is wiped first,
// so identical inputs always rebuild the identical tree.
func (b *Builder) Run(ctx context.Context) <-chan Event {
	ch := make(chan Event, 16)
	b.events = ch

	go func() {
		defer close(ch)
		if err := os.RemoveAll(b.Paths.Dist); err != nil {
			ch <- Event{Step: "pre-step", State: StateFailed, Err: err}
			return
		}
		for _, s := range b.steps() {
			if err := ctx.Err(); err != nil {
				ch <- Event{Step: s.name, State: StateFailed, Err: err}
				return
			}
			b.current = s.name
			b.Logger.Info().Str("step", s.name).Msg("step started")
			ch <- Event{Step: s.name, State: StateRunning}
			if err := s.run(); err != nil {
				b.Logger.Error().Str("step", s.name).Err(err).Msg("pipeline aborted")
				ch <- Event{Step: s.name, State: StateFailed, Err: fmt.Errorf("%s: %w", s.name, err)}
				return
			}
			ch <- Event{Step: s.name, State: StateDone}
		}
	}()
	return ch
}

// warnf reports a non-fatal structural condition. Warnings never alter
// control flow.
func (b *Builder) warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	b.Logger.Warn().Str("step", b.current).Msg(msg)
	b.events <- Event{Step: b.current, State: StateWarning, Warning: msg}
}

func (b *Builder) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}
