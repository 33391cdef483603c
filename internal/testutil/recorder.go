package testutil

import (
	"sync"

	"github.com/frudas24/touchmouse/internal/command"
)

// Recorder implements command.Sender and keeps every command it receives.
type Recorder struct {
	mu       sync.Mutex
	cmds     []command.Command
	notReady bool
}

var _ command.Sender = (*Recorder)(nil)

// Send records c.
func (r *Recorder) Send(c command.Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cmds = append(r.cmds, c)
}

// Ready reports the configured readiness.
func (r *Recorder) Ready() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.notReady
}

// SetReady changes the reported readiness.
func (r *Recorder) SetReady(ready bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notReady = !ready
}

// Commands returns a copy of the recorded commands.
func (r *Recorder) Commands() []command.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]command.Command(nil), r.cmds...)
}

// Lines returns the recorded commands rendered as wire text.
func (r *Recorder) Lines() []string {
	cmds := r.Commands()
	out := make([]string, 0, len(cmds))
	for _, c := range cmds {
		out = append(out, c.String())
	}
	return out
}

// Filter returns the wire text of recorded commands of kind k.
func (r *Recorder) Filter(k command.Kind) []string {
	var out []string
	for _, c := range r.Commands() {
		if c.Kind == k {
			out = append(out, c.String())
		}
	}
	return out
}

// Reset forgets every recorded command.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cmds = nil
}
