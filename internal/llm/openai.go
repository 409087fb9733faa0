package llm

import (
	"context"
	"errors"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// OpenAI implements CompletionService on top of the OpenAI chat API.
type OpenAI struct {
	model   *openai.LLM
	timeout time.Duration
}

func NewOpenAI(apiKey, model string, timeout time.Duration) (*OpenAI, error) {
	client, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, err
	}
	return &OpenAI{model: client, timeout: timeout}, nil
}

func (o *OpenAI) Complete(ctx context.Context, req Request) (string, error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, req.System),
		llms.TextParts(llms.ChatMessageTypeHuman, req.Prompt),
	}
	opts := []llms.CallOption{llms.WithTemperature(req.Temperature)}
	if req.JSONOnly {
		opts = append(opts, llms.WithJSONMode())
	}

	resp, err := o.model.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("completion returned no choices")
	}
	return resp.Choices[0].Content, nil
}
