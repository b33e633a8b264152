package promptrouter_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/archrouter/gateway/internal/chatproto"
	"github.com/archrouter/gateway/internal/promptrouter"
)

func textMessage(role, text string) chatproto.Message {
	return chatproto.Message{Role: role, Content: chatproto.NewTextContent(text)}
}

func TestBuildRequestFiltersNonClassifiableTurns(t *testing.T) {
	messages := []chatproto.Message{
		textMessage(chatproto.RoleSystem, "you are a helpful assistant"),
		textMessage(chatproto.RoleUser, "write a python quicksort"),
		{Role: chatproto.RoleAssistant}, // tool-call-only, empty content
		textMessage(chatproto.RoleTool, "tool output"),
	}

	req, err := promptrouter.BuildRequest(messages, "[]", "Arch-Router", zap.NewNop())
	require.NoError(t, err)
	require.Len(t, req.Messages, 1)

	prompt := req.Messages[0].Content.FlattenedText()
	assert.Contains(t, prompt, "write a python quicksort")
	assert.NotContains(t, prompt, "you are a helpful assistant")
	assert.NotContains(t, prompt, "tool output")
}

func TestBuildRequestEmbedsRoutesAndConversation(t *testing.T) {
	messages := []chatproto.Message{textMessage(chatproto.RoleUser, "hello there")}
	routesJSON := `[{"name":"chat","description":"general chat"}]`

	req, err := promptrouter.BuildRequest(messages, routesJSON, "Arch-Router", nil)
	require.NoError(t, err)

	prompt := req.Messages[0].Content.FlattenedText()
	assert.Contains(t, prompt, routesJSON)
	assert.Contains(t, prompt, `"content":"hello there"`)
	assert.Equal(t, "Arch-Router", req.Model)
	assert.Equal(t, 0.01, req.Temperature)
	assert.False(t, req.Stream)
}

func TestBuildRequestKeepsNewestMessageWhenOlderTurnOverBudget(t *testing.T) {
	huge := strings.Repeat("x", promptrouter.MaxTokenLen*8)
	messages := []chatproto.Message{
		textMessage(chatproto.RoleAssistant, huge),
		textMessage(chatproto.RoleUser, "final question"),
	}

	req, err := promptrouter.BuildRequest(messages, "[]", "Arch-Router", nil)
	require.NoError(t, err)
	require.Len(t, req.Messages, 1)
	assert.Contains(t, req.Messages[0].Content.FlattenedText(), "final question")
}

func TestBuildRequestOverBudgetKeepsTrailingUserMessage(t *testing.T) {
	huge := strings.Repeat("x", promptrouter.MaxTokenLen*8)
	messages := []chatproto.Message{
		textMessage(chatproto.RoleUser, "earlier turn"),
		textMessage(chatproto.RoleAssistant, huge),
		textMessage(chatproto.RoleUser, "the latest user turn"),
	}

	req, err := promptrouter.BuildRequest(messages, "[]", "Arch-Router", nil)
	require.NoError(t, err)

	var conversation []chatproto.FlatMessage
	prompt := req.Messages[0].Content.FlattenedText()
	start := strings.Index(prompt, "<conversation>\n") + len("<conversation>\n")
	end := strings.Index(prompt, "\n</conversation>")
	require.NoError(t, json.Unmarshal([]byte(prompt[start:end]), &conversation))

	last := conversation[len(conversation)-1]
	assert.Equal(t, chatproto.RoleUser, last.Role)
	assert.Contains(t, last.Content, "the latest user turn")
}
