package promptrouter

import (
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/archrouter/gateway/internal/chatproto"
)

// BuildRequest runs the filter, token-budget, normalization, and emission
// steps and returns the single-turn chat-completions request addressed to
// the router LLM. routesJSON is whichever routing view is in effect for
// this request — the catalog snapshot's, or a per-request override's
// flattened preferences.
func BuildRequest(messages []chatproto.Message, routesJSON, routerModel string, logger *zap.Logger) (*chatproto.Request, error) {
	filtered := filterMessages(messages)
	retained := applyTokenBudget(filtered, logger)
	flat := normalize(retained)

	conversationJSON, err := json.Marshal(flat)
	if err != nil {
		return nil, err
	}

	prompt := strings.Replace(promptTemplate, "{routes}", routesJSON, 1)
	prompt = strings.Replace(prompt, "{conversation}", string(conversationJSON), 1)

	return &chatproto.Request{
		Model:       routerModel,
		Temperature: 0.01,
		Stream:      false,
		Messages: []chatproto.Message{
			{Role: chatproto.RoleUser, Content: chatproto.NewTextContent(prompt)},
		},
	}, nil
}

// filterMessages retains only user/assistant turns carrying non-empty
// content; system and tool turns, and tool-call-only assistant turns,
// carry no classifiable intent.
func filterMessages(messages []chatproto.Message) []chatproto.Message {
	var out []chatproto.Message
	for _, m := range messages {
		if m.Role != chatproto.RoleUser && m.Role != chatproto.RoleAssistant {
			continue
		}
		if m.Content.IsEmpty() {
			continue
		}
		out = append(out, m)
	}
	return out
}

// applyTokenBudget walks filtered in reverse, prepending messages to the
// retained set while the running estimate stays within MaxTokenLen. A user
// message that would overflow the budget is kept anyway and ends the walk;
// any other role is dropped and the walk stops. If nothing survives, the
// single newest filtered message is kept unconditionally.
func applyTokenBudget(filtered []chatproto.Message, logger *zap.Logger) []chatproto.Message {
	if len(filtered) == 0 {
		return filtered
	}

	total := estimateTokens(promptTemplate)
	var retained []chatproto.Message

	for i := len(filtered) - 1; i >= 0; i-- {
		m := filtered[i]
		cost := estimateTokens(m.Content.FlattenedText())
		if total+cost <= MaxTokenLen {
			total += cost
			retained = append([]chatproto.Message{m}, retained...)
			continue
		}
		if m.Role == chatproto.RoleUser {
			retained = append([]chatproto.Message{m}, retained...)
		}
		break
	}

	if len(retained) == 0 {
		retained = []chatproto.Message{filtered[len(filtered)-1]}
	}

	if logger != nil {
		first, last := retained[0], retained[len(retained)-1]
		if first.Role != chatproto.RoleUser || last.Role != chatproto.RoleUser {
			logger.Warn("retained conversation does not start or end on a user turn",
				zap.String("first_role", first.Role), zap.String("last_role", last.Role))
		}
	}

	return retained
}

// normalize flattens each retained message's content to a plain string,
// dropping image_url parts, preserving chronological order.
func normalize(messages []chatproto.Message) []chatproto.FlatMessage {
	out := make([]chatproto.FlatMessage, len(messages))
	for i, m := range messages {
		out[i] = chatproto.FlatMessage{Role: m.Role, Content: m.Content.FlattenedText()}
	}
	return out
}
