// Package chatproto defines the OpenAI-compatible chat-completions wire
// types shared by the prompt builder, the router client, and the proxy
// handler.
package chatproto

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Role values recognized on a Message.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ContentPart is one element of a multi-part message content array. Only
// "text" parts carry routable signal; "image_url" parts are opaque to the
// router and are dropped during normalization.
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL is the payload of an "image_url" content part.
type ImageURL struct {
	URL string `json:"url"`
}

// Content is a chat message's content, which on the wire is either a bare
// string or an ordered array of ContentPart. A nil Content (produced by an
// absent or JSON-null field) denotes a tool-call-only assistant turn.
type Content struct {
	text  string
	parts []ContentPart
	multi bool
}

// NewTextContent builds a single-string Content value.
func NewTextContent(text string) *Content {
	return &Content{text: text}
}

// UnmarshalJSON accepts a JSON string, a JSON array of parts, or null.
func (c *Content) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if string(trimmed) == "null" {
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		c.text = s
		c.multi = false
		return nil
	}
	var parts []ContentPart
	if err := json.Unmarshal(trimmed, &parts); err != nil {
		return err
	}
	c.parts = parts
	c.multi = true
	return nil
}

// MarshalJSON re-emits the content in whichever shape it was decoded from.
func (c *Content) MarshalJSON() ([]byte, error) {
	if c == nil {
		return []byte("null"), nil
	}
	if c.multi {
		return json.Marshal(c.parts)
	}
	return json.Marshal(c.text)
}

// FlattenedText concatenates the "text" parts of a multi-part content with
// newlines, dropping "image_url" parts entirely. For a plain string
// content it returns the string unchanged.
func (c *Content) FlattenedText() string {
	if c == nil {
		return ""
	}
	if !c.multi {
		return c.text
	}
	var texts []string
	for _, p := range c.parts {
		if p.Type == "text" {
			texts = append(texts, p.Text)
		}
	}
	return strings.Join(texts, "\n")
}

// IsEmpty reports whether the content carries no routable text: a nil
// Content, an empty string, or a part list with no "text" parts.
func (c *Content) IsEmpty() bool {
	if c == nil {
		return true
	}
	return c.FlattenedText() == ""
}

// Message is one turn of a conversation.
type Message struct {
	Role    string   `json:"role"`
	Content *Content `json:"content,omitempty"`
	Name    string   `json:"name,omitempty"`
}

// FlatMessage is the normalized, router-facing shape of a Message: content
// is always a plain string, as required by the router prompt's embedded
// conversation JSON.
type FlatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is an inbound or outbound chat-completions request.
type Request struct {
	Model          string                 `json:"model"`
	Messages       []Message              `json:"messages"`
	Temperature    float64                `json:"temperature,omitempty"`
	MaxTokens      int                    `json:"max_tokens,omitempty"`
	TopP           float64                `json:"top_p,omitempty"`
	Stream         bool                   `json:"stream,omitempty"`
	Stop           []string               `json:"stop,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
	ResponseFormat *ResponseFormat        `json:"response_format,omitempty"`
}

// ResponseFormat specifies the shape the caller wants back ("text" or
// "json_object").
type ResponseFormat struct {
	Type string `json:"type"`
}

// Response is a chat-completions response from either the router LLM or
// an upstream provider.
type Response struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

// Choice is one candidate completion.
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// Usage tracks token accounting reported by a provider.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
