package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"
)

// Cue plays the audible part of an escalation.
type Cue interface {
	Play(ctx context.Context) error
}

// ErrAssetMissing is returned when the configured sound file does not exist.
var ErrAssetMissing = errors.New("cue asset missing")

// NopCue stays silent.
type NopCue struct{}

func (NopCue) Play(context.Context) error { return nil }

// BellCue rings the terminal bell.
type BellCue struct {
	Out io.Writer
}

func (c BellCue) Play(context.Context) error {
	if c.Out == nil {
		return errors.New("bell: no output")
	}
	_, err := io.WriteString(c.Out, "\a")
	return err
}

// CommandCue plays Asset through an external player, e.g. "aplay" or "afplay".
type CommandCue struct {
	Player  string
	Asset   string
	Timeout time.Duration
}

func (c CommandCue) Play(ctx context.Context) error {
	if c.Player == "" {
		return errors.New("command cue: no player configured")
	}
	if _, err := os.Stat(c.Asset); err != nil {
		return fmt.Errorf("%w: %s", ErrAssetMissing, c.Asset)
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, c.Player, c.Asset).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", c.Player, err, out)
	}
	return nil
}

// NewCue builds a cue from its configured mode: "bell", "command" or "none".
func NewCue(mode, player, asset string, out io.Writer) (Cue, error) {
	switch mode {
	case "", "bell":
		return BellCue{Out: out}, nil
	case "command":
		return CommandCue{Player: player, Asset: asset}, nil
	case "none":
		return NopCue{}, nil
	default:
		return nil, fmt.Errorf("unknown cue mode %q", mode)
	}
}
