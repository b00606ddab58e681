package llm

import (
	"context"
	"log/slog"
)

// Invoker is the single-attempt model invocation primitive. Provider and transport
// errors stop here: they are logged and reported as a nil response.
type Invoker struct {
	provider Provider
	log      *slog.Logger
}

// NewInvoker wraps a provider.
func NewInvoker(provider Provider, log *slog.Logger) *Invoker {
	if log == nil {
		log = slog.Default()
	}
	return &Invoker{provider: provider, log: log}
}

// Invoke sends the conversation, forcing a call of tool when it is non-nil.
// It returns nil when no usable response was obtained.
func (i *Invoker) Invoke(ctx context.Context, messages []Message, tool *ToolSchema) *Response {
	log := i.log
	if tool != nil {
		log = log.With("tool", tool.Name)
		if err := tool.Validate(); err != nil {
			log.Error("error calling LLM API", "err", err)
			return nil
		}
	}
	resp, err := i.provider.Complete(ctx, Request{Messages: messages, Tool: tool})
	if err != nil {
		log.Error("error calling LLM API", "err", err)
		return nil
	}
	if resp == nil {
		log.Error("error calling LLM API", "err", "empty response")
		return nil
	}
	log.Debug("LLM API call succeeded", "choices", len(resp.Choices))
	return resp
}
