package exchange

import (
	"strings"

	"github.com/tidwall/gjson"
)

// replyDecoder extracts the reply text from a parsed response body.
type replyDecoder struct {
	name   string
	decode func(body gjson.Result) (string, bool)
}

// replyDecoders are tried in order; the first that matches wins. The last
// one always matches.
var replyDecoders = []replyDecoder{
	{name: "choices", decode: nonEmptyString("choices.0.message.content")},
	{name: "reply", decode: nonEmptyString("reply")},
	{name: "string", decode: func(body gjson.Result) (string, bool) {
		if body.Type != gjson.String {
			return "", false
		}
		return body.Str, true
	}},
	{name: "serialized", decode: func(body gjson.Result) (string, bool) {
		return body.Get("@ugly").Raw, true
	}},
}

func nonEmptyString(path string) func(gjson.Result) (string, bool) {
	return func(body gjson.Result) (string, bool) {
		v := body.Get(path)
		if v.Type != gjson.String || v.Str == "" {
			return "", false
		}
		return v.Str, true
	}
}

// ExtractReply returns the reply text of a successful response and the name
// of the decoder that produced it. A body that is not JSON is returned as
// plain text.
func ExtractReply(body []byte) (string, string) {
	if !gjson.ValidBytes(body) {
		return strings.TrimSpace(string(body)), "text"
	}

	parsed := gjson.ParseBytes(body)
	for _, d := range replyDecoders {
		if reply, ok := d.decode(parsed); ok {
			return reply, d.name
		}
	}
	return parsed.Raw, "raw"
}
