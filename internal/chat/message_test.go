package chat

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter(t *testing.T) {
	tests := []struct {
		name   string
		msg    Message
		want   string
		accept bool
	}{
		{
			name:   "public channel with leading mention",
			msg:    Message{User: "U1", Channel: "C1", Text: "<@UBOT> start coding"},
			want:   "start coding",
			accept: true,
		},
		{
			name:   "public channel with labelled mention and colon",
			msg:    Message{User: "U1", Channel: "C1", Text: "  <@UBOT|taskman>: break lunch "},
			want:   "break lunch",
			accept: true,
		},
		{
			name:   "public channel without mention",
			msg:    Message{User: "U1", Channel: "C1", Text: "start coding"},
			accept: false,
		},
		{
			name:   "public channel mention not first",
			msg:    Message{User: "U1", Channel: "C1", Text: "hey <@UBOT> start"},
			accept: false,
		},
		{
			name:   "mention of another user",
			msg:    Message{User: "U1", Channel: "C1", Text: "<@UBOTX> start"},
			accept: false,
		},
		{
			name:   "direct message",
			msg:    Message{User: "U1", Channel: "D1", Text: "  end  "},
			want:   "end",
			accept: true,
		},
		{
			name:   "direct message with mention",
			msg:    Message{User: "U1", Channel: "D1", Text: "<@UBOT> status"},
			want:   "status",
			accept: true,
		},
		{
			name:   "private group",
			msg:    Message{User: "U1", Channel: "G1", Text: "<@UBOT> start"},
			accept: false,
		},
		{
			name:   "bot talking to itself",
			msg:    Message{User: "UBOT", Channel: "D1", Text: "start"},
			accept: false,
		},
		{
			name:   "no author",
			msg:    Message{Channel: "D1", Text: "start"},
			accept: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Filter(tt.msg, "UBOT")
			assert.Equal(t, tt.accept, ok)
			if tt.accept {
				assert.Equal(t, tt.want, got.Text)
				assert.Equal(t, tt.msg.User, got.User)
				assert.Equal(t, tt.msg.Channel, got.Channel)
			}
		})
	}
}

func TestMention(t *testing.T) {
	assert.Equal(t, "<@U42>", Mention("U42"))
}

func TestCollector_KeepsOrder(t *testing.T) {
	var c Collector
	ctx := context.Background()
	require.NoError(t, c.Reply(ctx, "C1", "one"))
	require.NoError(t, c.Reply(ctx, "C1", "two"))
	assert.Equal(t, []string{"one", "two"}, c.Replies())
}

func TestWriterReplier(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriterReplier{W: &buf}.Reply(context.Background(), "D1", "hello"))
	assert.Equal(t, "hello\n", buf.String())
}
