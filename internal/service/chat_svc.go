package service

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/karanmanglani/RiskSentinel/internal/model"
	"github.com/karanmanglani/RiskSentinel/internal/rag"
)

// MessageStore is the history persistence the chat service needs; satisfied
// by *repository.MessageRepository.
type MessageStore interface {
	Create(ctx context.Context, msg *model.Message) error
	FindByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.Message, error)
}

type ChatService struct {
	messages MessageStore
	engine   *rag.Engine
}

func NewChatService(messages MessageStore, engine *rag.Engine) *ChatService {
	return &ChatService{messages: messages, engine: engine}
}

// Analyze answers a question and records both turns under the caller's
// identity: the question before the engine call, the answer after it. A
// failed generation leaves the question turn in place.
func (s *ChatService) Analyze(ctx context.Context, userID uuid.UUID, question string) (*rag.Answer, error) {
	if err := s.messages.Create(ctx, &model.Message{
		UserID:  userID,
		Role:    model.RoleUser,
		Content: question,
	}); err != nil {
		return nil, err
	}

	answer, err := s.engine.Answer(ctx, question)
	if err != nil {
		return nil, err
	}

	if err := s.messages.Create(ctx, &model.Message{
		UserID:  userID,
		Role:    model.RoleAssistant,
		Content: answer.Text,
	}); err != nil {
		// the answer is already produced; losing the history row is not
		// worth failing the request over
		log.Printf("failed to persist assistant turn for user %s: %v", userID, err)
	}
	return answer, nil
}

func (s *ChatService) History(ctx context.Context, userID uuid.UUID, limit int) ([]model.Message, error) {
	return s.messages.FindByUser(ctx, userID, limit)
}
