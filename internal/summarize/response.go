package summarize

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// welcomeMarker appears in the greeting body that ModelScope's API
// root returns when the path does not address a deployed model. Such
// a response is a configuration problem, not a transient failure.
const welcomeMarker = "ModelScope API-Inference"

var (
	// ErrEndpointMisconfigured reports that the endpoint answered with a
	// service welcome message instead of a completion. Retrying cannot
	// help; the URL has to change.
	ErrEndpointMisconfigured = errors.New("endpoint returned a service welcome message: point API_URL at an OpenAI-compatible chat-completions path")

	// ErrNoContent reports an HTTP-success response that carried no
	// extractable text in any recognized shape.
	ErrNoContent = errors.New("response contained no generated text")
)

// chatResponse is the OpenAI-style completion shape. Both the chat
// field (message.content) and the legacy completion field (text) are
// probed, in that order.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		Text string `json:"text"`
	} `json:"choices"`
}

// welcomeResponse matches provider greeting bodies, which carry a
// top-level string message and no choices.
type welcomeResponse struct {
	Message string `json:"message"`
}

// altResponse collects the alternate top-level text fields some
// gateways use in place of the choices array. Fields are captured raw
// and decoded per key, so a structured value in one field cannot mask
// a usable string in another.
type altResponse struct {
	OutputText json.RawMessage `json:"output_text"`
	Result     json.RawMessage `json:"result"`
	Content    json.RawMessage `json:"content"`
	Data       json.RawMessage `json:"data"`
}

// ExtractContent pulls the generated text out of a completion response
// body. Variants are tried in a fixed order: the welcome-message probe
// first (so misconfiguration surfaces as ErrEndpointMisconfigured, not
// as a missing field), then choices[0].message.content, then
// choices[0].text, then the alternate top-level fields output_text,
// result, content and data. The first non-blank candidate wins and is
// returned trimmed.
func ExtractContent(raw []byte) (string, error) {
	if !json.Valid(raw) {
		return "", fmt.Errorf("%w: body is not valid JSON", ErrNoContent)
	}

	var welcome welcomeResponse
	if err := json.Unmarshal(raw, &welcome); err == nil && strings.Contains(welcome.Message, welcomeMarker) {
		return "", ErrEndpointMisconfigured
	}

	var chat chatResponse
	if err := json.Unmarshal(raw, &chat); err == nil && len(chat.Choices) > 0 {
		if content := strings.TrimSpace(chat.Choices[0].Message.Content); content != "" {
			return content, nil
		}
		if text := strings.TrimSpace(chat.Choices[0].Text); text != "" {
			return text, nil
		}
	}

	var alt altResponse
	if err := json.Unmarshal(raw, &alt); err == nil {
		for _, field := range []json.RawMessage{alt.OutputText, alt.Result, alt.Content, alt.Data} {
			if len(field) == 0 {
				continue
			}
			var candidate string
			if err := json.Unmarshal(field, &candidate); err != nil {
				continue
			}
			if s := strings.TrimSpace(candidate); s != "" {
				return s, nil
			}
		}
	}

	return "", ErrNoContent
}
