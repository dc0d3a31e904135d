package ai

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/okrause/elaborate/internal/config"
)

// Service turns a transcript excerpt plus a system prompt into a completion.
// Conversation history travels inside the transcript field, so the chain
// needs no separate history placeholder.
type Service struct {
	chatModel model.ChatModel
	cfg       config.AIConfig
	chain     compose.Runnable[map[string]any, *schema.Message]
}

// NewService builds the completion chain once at startup.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile completion chain: %w", err)
	}

	return &Service{
		chatModel: chatModel,
		cfg:       cfg,
		chain:     runnable,
	}, nil
}

// Elaborate runs one completion over the given transcript.
func (s *Service) Elaborate(ctx context.Context, transcript, systemPrompt string) (string, error) {
	response, err := s.chain.Invoke(ctx, map[string]any{
		"system": systemPrompt,
		"query":  transcript,
	})
	if err != nil {
		return "", fmt.Errorf("failed to run completion chain: %w", err)
	}

	log.Printf("[ai] generated reply, length=%d", len(response.Content))
	return response.Content, nil
}
