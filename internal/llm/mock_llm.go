package llm

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockProvider is a mock implementation of Provider using testify/mock.
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Response), args.Error(1)
}

// ToolResponse builds a response whose first choice calls tool with the given JSON arguments.
func ToolResponse(tool, arguments string) *Response {
	return &Response{Choices: []Choice{{
		Message: AssistantMessage{ToolCalls: []ToolCall{{ID: "call_" + tool, Name: tool, Arguments: arguments}}},
	}}}
}
