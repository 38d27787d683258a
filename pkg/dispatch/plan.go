package dispatch

import (
	"context"
	"sync"
)

// Action is a recorded browser instruction, executed later by the page script.
type Action struct {
	Kind     Kind   `json:"kind"`
	URL      string `json:"url,omitempty"`
	Filename string `json:"filename,omitempty"`
	Text     string `json:"text,omitempty"`
}

// Plan records actions instead of performing them. It is the Browser and
// Clipboard of the HTTP card: the response carries the recorded actions and
// the page replays them inside the visitor's click.
type Plan struct {
	mu      sync.Mutex
	actions []Action
	// Reject lets callers refuse specific navigation URLs, e.g. schemes a
	// client reported as unsupported.
	Reject func(url string) bool
}

// NewPlan returns an empty plan.
func NewPlan() *Plan {
	return &Plan{}
}

// Download implements Browser.
func (p *Plan) Download(_ context.Context, href, filename string) error {
	p.add(Action{Kind: KindDownload, URL: href, Filename: filename})
	return nil
}

// Navigate implements Browser.
func (p *Plan) Navigate(_ context.Context, url string) error {
	if p.Reject != nil && p.Reject(url) {
		return ErrNavigationBlocked
	}
	p.add(Action{Kind: KindNavigate, URL: url})
	return nil
}

// WriteText implements Clipboard.
func (p *Plan) WriteText(_ context.Context, text string) error {
	p.add(Action{Kind: KindCopy, Text: text})
	return nil
}

// Actions returns a copy of the recorded actions in order.
func (p *Plan) Actions() []Action {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]Action, len(p.actions))
	copy(out, p.actions)
	return out
}

func (p *Plan) add(a Action) {
	p.mu.Lock()
	p.actions = append(p.actions, a)
	p.mu.Unlock()
}
