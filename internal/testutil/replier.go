package testutil

import (
	"context"
	"sync"
)

// Reply is one message captured by RecordingReplier.
type Reply struct {
	Channel string
	Text    string
}

// RecordingReplier captures replies instead of sending them to a chat
// platform. Err, when set, is returned from every Reply call after the
// reply is recorded.
type RecordingReplier struct {
	mu      sync.Mutex
	replies []Reply
	Err     error
}

func (r *RecordingReplier) Reply(_ context.Context, channel, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replies = append(r.replies, Reply{Channel: channel, Text: text})
	return r.Err
}

// Replies returns a copy of all captured replies.
func (r *RecordingReplier) Replies() []Reply {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Reply, len(r.replies))
	copy(out, r.replies)
	return out
}

// Texts returns the text of every captured reply.
func (r *RecordingReplier) Texts() []string {
	replies := r.Replies()
	out := make([]string, len(replies))
	for i, reply := range replies {
		out[i] = reply.Text
	}
	return out
}
