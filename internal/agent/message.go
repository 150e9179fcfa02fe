package agent

import (
	"bytes"
	"encoding/json"
)

// Message is one decoded line of the agent's stream-json output.
// Concrete types: *SystemMessage, *AssistantMessage, *ResultMessage.
type Message interface {
	Kind() string
}

// Content is one block of an assistant message: *TextContent or *ToolUseContent.
type Content interface {
	ContentKind() string
}

// SystemMessage announces the thread the agent is running in.
type SystemMessage struct {
	SessionID string
}

// AssistantMessage carries the agent's output so far.
type AssistantMessage struct {
	Content []Content
	Usage   *Usage
}

// ResultMessage is the agent's final verdict for the thread.
type ResultMessage struct {
	Result  string
	IsError bool
	Error   string
}

// TextContent is prose produced by the agent.
type TextContent struct {
	Text string
}

// ToolUseContent records a tool invocation by the agent.
type ToolUseContent struct {
	Name  string
	Input json.RawMessage
}

// Usage is token accounting reported with assistant messages.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

func (*SystemMessage) Kind() string    { return "system" }
func (*AssistantMessage) Kind() string { return "assistant" }
func (*ResultMessage) Kind() string    { return "result" }

func (*TextContent) ContentKind() string    { return "text" }
func (*ToolUseContent) ContentKind() string { return "tool_use" }

// ErrorText returns a human readable reason for a failed result.
func (m *ResultMessage) ErrorText() string {
	if m.Error != "" {
		return m.Error
	}
	if m.Result != "" {
		return m.Result
	}
	return "Unknown error"
}

// Text concatenates the text blocks of an assistant message.
func (m *AssistantMessage) Text() string {
	var b bytes.Buffer
	for _, c := range m.Content {
		if t, ok := c.(*TextContent); ok {
			b.WriteString(t.Text)
		}
	}
	return b.String()
}

// wireMessage mirrors the JSON shape on the wire; fields absent for a
// given type stay zero.
type wireMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
	Message   *struct {
		Content []wireContent `json:"content"`
		Usage   *Usage        `json:"usage"`
	} `json:"message"`
	Result  string `json:"result"`
	IsError bool   `json:"is_error"`
	Error   string `json:"error"`
}

type wireContent struct {
	Type  string          `json:"type"`
	Text  string          `json:"text"`
	Name  string          `json:"name"`
	Input json.RawMessage `json:"input"`
}

// DecodeLine decodes one line of agent output. Blank lines, malformed JSON
// and unknown message types are reported as not ok and should be skipped.
func DecodeLine(line []byte) (Message, bool) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return nil, false
	}

	var w wireMessage
	if err := json.Unmarshal(line, &w); err != nil {
		return nil, false
	}

	switch w.Type {
	case "system":
		return &SystemMessage{SessionID: w.SessionID}, true
	case "assistant":
		msg := &AssistantMessage{}
		if w.Message != nil {
			msg.Usage = w.Message.Usage
			for _, c := range w.Message.Content {
				switch c.Type {
				case "text":
					msg.Content = append(msg.Content, &TextContent{Text: c.Text})
				case "tool_use":
					msg.Content = append(msg.Content, &ToolUseContent{Name: c.Name, Input: c.Input})
				}
			}
		}
		return msg, true
	case "result":
		return &ResultMessage{Result: w.Result, IsError: w.IsError, Error: w.Error}, true
	default:
		return nil, false
	}
}
