// Package audio plays the countdown alert. Every Beeper is fire-and-forget:
// Beep never blocks the caller and playback failures are swallowed.
package audio

import (
	"context"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultSoundURL is the stock countdown beep.
const DefaultSoundURL = "https://www.soundjay.com/buttons/beep-01a.mp3"

// playTimeout bounds a single external playback.
const playTimeout = 5 * time.Second

// bel is the ASCII bell control character.
const bel = "\a"

// Silent discards every beep.
type Silent struct{}

func (Silent) Beep() {}

// Bell rings the terminal bell by writing BEL to W.
type Bell struct {
	mu sync.Mutex
	W  io.Writer
}

// NewBell returns a Bell writing to w.
func NewBell(w io.Writer) *Bell {
	return &Bell{W: w}
}

func (b *Bell) Beep() {
	if b == nil || b.W == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := io.WriteString(b.W, bel); err != nil {
		logrus.Debugf("bell write failed: %v", err)
	}
}

// runFunc starts an external command and waits for it.
type runFunc func(ctx context.Context, name string, args ...string) error

func execRun(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// Player hands the sound asset to an external audio player such as mpv or
// ffplay. Each Beep runs the player in its own goroutine.
type Player struct {
	command []string
	sound   string
	run     runFunc
	wg      sync.WaitGroup
}

// NewPlayer builds a Player from a command line like "mpv --no-video" and a
// sound path or URL appended as the last argument. An empty command yields nil.
func NewPlayer(command, sound string) *Player {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil
	}
	if sound == "" {
		sound = DefaultSoundURL
	}
	return &Player{command: fields, sound: sound, run: execRun}
}

func (p *Player) Beep() {
	if p == nil {
		return
	}
	args := append(append([]string{}, p.command[1:]...), p.sound)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), playTimeout)
		defer cancel()
		if err := p.run(ctx, p.command[0], args...); err != nil {
			logrus.Debugf("beep playback failed: %v", err)
		}
	}()
}

// Wait blocks until every in-flight playback has finished.
func (p *Player) Wait() {
	if p == nil {
		return
	}
	p.wg.Wait()
}
