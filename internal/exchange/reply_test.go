package exchange

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractReply(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantReply   string
		wantDecoder string
	}{
		{
			name:        "choices content",
			body:        `{"choices":[{"message":{"role":"assistant","content":"Use SPF daily."}}]}`,
			wantReply:   "Use SPF daily.",
			wantDecoder: "choices",
		},
		{
			name:        "choices preferred over reply",
			body:        `{"choices":[{"message":{"content":"from choices"}}],"reply":"from reply"}`,
			wantReply:   "from choices",
			wantDecoder: "choices",
		},
		{
			name:        "empty choices content falls through to reply",
			body:        `{"choices":[{"message":{"content":""}}],"reply":"from reply"}`,
			wantReply:   "from reply",
			wantDecoder: "reply",
		},
		{
			name:        "reply field",
			body:        `{"reply":"Hello there"}`,
			wantReply:   "Hello there",
			wantDecoder: "reply",
		},
		{
			name:        "non-string reply is serialized",
			body:        `{"reply": 42}`,
			wantReply:   `{"reply":42}`,
			wantDecoder: "serialized",
		},
		{
			name:        "json string body",
			body:        `"just text"`,
			wantReply:   "just text",
			wantDecoder: "string",
		},
		{
			name:        "object without known fields",
			body:        `{ "status": "ok",  "items": [1, 2] }`,
			wantReply:   `{"status":"ok","items":[1,2]}`,
			wantDecoder: "serialized",
		},
		{
			name:        "plain text body",
			body:        "Here is your routine.\n",
			wantReply:   "Here is your routine.",
			wantDecoder: "text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, decoder := ExtractReply([]byte(tt.body))
			assert.Equal(t, tt.wantReply, reply)
			assert.Equal(t, tt.wantDecoder, decoder)
		})
	}
}
