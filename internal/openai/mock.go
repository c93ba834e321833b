package openai

import (
	"context"
	"fmt"
)

// MockProvider returns canned answers. Used when no API key is configured
// and in tests.
type MockProvider struct{}

func (MockProvider) ChatCompletion(_ context.Context, _ string, userMessage string) (string, error) {
	return fmt.Sprintf(
		"I can help you with your permit application. You asked: %q. "+
			"Please make sure your project details and documents are complete before submitting.",
		userMessage,
	), nil
}
