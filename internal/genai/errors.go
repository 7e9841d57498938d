package genai

import (
	"encoding/json"
	"errors"
	"regexp"
)

// Kind classifies a generation failure so callers can react to more than a
// message string.
type Kind string

const (
	// KindPolicyBlocked means the upstream explicitly refused the request
	// for safety or policy reasons.
	KindPolicyBlocked Kind = "policy_blocked"
	// KindEmptyResponse means the call succeeded transport-wise but carried
	// no usable content.
	KindEmptyResponse Kind = "empty_response"
	// KindTextOnly means the model answered with descriptive text and no
	// image payload. The message carries that text verbatim.
	KindTextOnly Kind = "text_only"
	// KindUpstream covers everything else: network failures, non-2xx
	// statuses, quota errors, malformed bodies.
	KindUpstream Kind = "upstream"
)

// Error is the classified failure returned by Client.Generate.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// AsError unwraps a classified generation error, if err carries one.
func AsError(err error) (*Error, bool) {
	var ge *Error
	if errors.As(err, &ge) {
		return ge, true
	}
	return nil, false
}

var embeddedJSON = regexp.MustCompile(`(?s)\{.*\}`)

type upstreamEnvelope struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// upstreamMessage digs a human-readable message out of an upstream failure
// string. Providers often wrap a JSON error envelope inside free text; when
// one is found and carries error.message, that message is preferred.
// Extraction never fails: anything unparseable degrades to the raw input.
func upstreamMessage(raw string) string {
	match := embeddedJSON.FindString(raw)
	if match == "" {
		return raw
	}
	var envelope upstreamEnvelope
	if err := json.Unmarshal([]byte(match), &envelope); err != nil {
		return raw
	}
	if envelope.Error.Message == "" {
		return raw
	}
	return envelope.Error.Message
}
