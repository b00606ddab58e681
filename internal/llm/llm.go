package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoToolCall is returned when a response carries no tool call to decode.
var ErrNoToolCall = errors.New("response contains no tool call")

// Role tags a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of a conversation. Order within a conversation is significant.
type Message struct {
	Role    Role
	Content string
}

// Request is a single chat completion call. When Tool is set the model is forced to call it.
type Request struct {
	Messages []Message
	Tool     *ToolSchema
}

// ToolCall is the model's structured invocation of a declared tool.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// AssistantMessage is the model output of one choice.
type AssistantMessage struct {
	Content   string
	ToolCalls []ToolCall
}

// Choice is one completion alternative.
type Choice struct {
	Message AssistantMessage
}

// Response is a provider-neutral chat completion response.
type Response struct {
	Choices []Choice
}

// Provider sends one chat completion request to an LLM backend.
type Provider interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}

// FirstToolCall returns the first tool call of the first choice. An empty tool call
// list counts as no tool call.
func (r *Response) FirstToolCall() (ToolCall, bool) {
	if r == nil || len(r.Choices) == 0 {
		return ToolCall{}, false
	}
	calls := r.Choices[0].Message.ToolCalls
	if len(calls) == 0 {
		return ToolCall{}, false
	}
	return calls[0], true
}

// DecodeToolCall unmarshals the arguments of the first tool call into dst.
func DecodeToolCall(resp *Response, dst any) error {
	call, ok := resp.FirstToolCall()
	if !ok {
		return ErrNoToolCall
	}
	if err := json.Unmarshal([]byte(call.Arguments), dst); err != nil {
		return fmt.Errorf("decode %s arguments: %w", call.Name, err)
	}
	return nil
}
