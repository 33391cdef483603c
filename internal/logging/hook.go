package logging

import (
	log "github.com/sirupsen/logrus"

	"github.com/frudas24/touchmouse/internal/command"
)

// CommentHook sends log entries to the host as comment commands.
type CommentHook struct {
	out   command.Sender
	level log.Level
}

var _ log.Hook = (*CommentHook)(nil)

// NewCommentHook forwards entries at or above min to out.
func NewCommentHook(out command.Sender, min log.Level) *CommentHook {
	return &CommentHook{out: out, level: min}
}

// Levels returns every level at or above the threshold.
func (h *CommentHook) Levels() []log.Level {
	var out []log.Level
	for _, lvl := range log.AllLevels {
		if lvl <= h.level {
			out = append(out, lvl)
		}
	}
	return out
}

// Fire forwards e unless it is local only or the channel is down.
func (h *CommentHook) Fire(e *log.Entry) error {
	if _, skip := e.Data[LocalOnly]; skip {
		return nil
	}
	if !h.out.Ready() {
		return nil
	}
	h.out.Send(command.Comment(LevelPrefix(e.Level) + ": " + e.Message))
	return nil
}
