package notify

import (
	"sync"
	"time"
)

// BannerText is shown while the banner is active.
const BannerText = "🚨 HIGH ALERT - IMMEDIATE ATTENTION REQUIRED 🚨"

// BannerState is a point-in-time copy of the banner.
type BannerState struct {
	Active bool      `json:"active" yaml:"active"`
	Text   string    `json:"text,omitempty" yaml:"text,omitempty"`
	Detail string    `json:"detail,omitempty" yaml:"detail,omitempty"`
	Since  time.Time `json:"since,omitempty" yaml:"since,omitempty"`
}

// Banner is the visual alarm read by renderers.
type Banner struct {
	mu    sync.RWMutex
	state BannerState
}

func (b *Banner) activate(detail string, at time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	since := b.state.Since
	if !b.state.Active {
		since = at
	}
	b.state = BannerState{Active: true, Text: BannerText, Detail: detail, Since: since}
}

func (b *Banner) deactivate() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = BannerState{}
}

// State returns the current banner.
func (b *Banner) State() BannerState {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}
