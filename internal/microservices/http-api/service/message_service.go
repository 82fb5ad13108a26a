package service

import (
	"context"
	"strings"

	"studymate/internal/microservices/http-api/dto"
	"studymate/internal/microservices/http-api/events"
	"studymate/internal/microservices/http-api/models"
	"studymate/internal/microservices/http-api/repository"
)

type MessageService interface {
	Send(ctx context.Context, senderID int64, req dto.SendMessageRequest) (*dto.MessageResponse, error)
	Inbox(ctx context.Context, userID int64) ([]dto.MessageResponse, error)
	Conversation(ctx context.Context, userID, otherID int64) ([]dto.MessageResponse, error)
	MarkRead(ctx context.Context, userID, messageID int64) error
	UnreadCount(ctx context.Context, userID int64) (int64, error)
}

type messageService struct {
	repos *repository.Repositories
	options
}

func NewMessageService(repos *repository.Repositories, opts ...Option) MessageService {
	return &messageService{repos: repos, options: buildOptions(opts)}
}

func (s *messageService) Send(ctx context.Context, senderID int64, req dto.SendMessageRequest) (*dto.MessageResponse, error) {
	sender, err := actingUser(ctx, s.repos, senderID)
	if err != nil {
		return nil, err
	}
	body := strings.TrimSpace(req.Body)
	if body == "" || req.ReceiverID == senderID {
		return nil, ErrInvalidInput
	}

	receiver, err := s.repos.Users.FindByID(ctx, req.ReceiverID)
	if err != nil {
		return nil, storeError(err)
	}
	if req.TopicID != nil {
		if _, err := s.repos.Topics.GetByID(ctx, *req.TopicID); err != nil {
			return nil, storeError(err)
		}
	}

	var subject *string
	if req.Subject != nil {
		if sub := strings.TrimSpace(*req.Subject); sub != "" {
			subject = &sub
		}
	}

	message := &models.Message{
		SenderID:   senderID,
		ReceiverID: receiver.ID,
		TopicID:    req.TopicID,
		Subject:    subject,
		Body:       body,
		CreatedAt:  s.now(),
	}
	if err := s.repos.Messages.Create(ctx, message); err != nil {
		return nil, err
	}

	s.logger.Info("message_sent", "message_id", message.ID, "sender_id", senderID, "receiver_id", receiver.ID)
	s.publisher.Publish(events.Event{
		Type:        events.MessageReceived,
		ActorID:     senderID,
		RecipientID: receiver.ID,
		Data:        map[string]any{"message_id": message.ID, "sender_username": sender.Username},
		Timestamp:   s.now().UTC(),
	})
	return &dto.MessageResponse{
		ID:               message.ID,
		SenderID:         sender.ID,
		SenderUsername:   sender.Username,
		ReceiverID:       receiver.ID,
		ReceiverUsername: receiver.Username,
		TopicID:          message.TopicID,
		Subject:          message.Subject,
		Body:             message.Body,
		CreatedAt:        message.CreatedAt,
	}, nil
}

// Inbox lists messages received by the user, newest first.
func (s *messageService) Inbox(ctx context.Context, userID int64) ([]dto.MessageResponse, error) {
	if userID <= 0 {
		return nil, ErrUnauthorized
	}
	views, err := s.repos.Messages.ListInbox(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toMessageResponses(views), nil
}

// Conversation lists both directions between two users, oldest first.
func (s *messageService) Conversation(ctx context.Context, userID, otherID int64) ([]dto.MessageResponse, error) {
	if userID <= 0 {
		return nil, ErrUnauthorized
	}
	if _, err := s.repos.Users.FindByID(ctx, otherID); err != nil {
		return nil, storeError(err)
	}
	views, err := s.repos.Messages.ListConversation(ctx, userID, otherID)
	if err != nil {
		return nil, err
	}
	return toMessageResponses(views), nil
}

// MarkRead flags a message as read. Only its receiver may do so.
func (s *messageService) MarkRead(ctx context.Context, userID, messageID int64) error {
	if userID <= 0 {
		return ErrUnauthorized
	}
	message, err := s.repos.Messages.GetByID(ctx, messageID)
	if err != nil {
		return storeError(err)
	}
	if message.ReceiverID != userID {
		return ErrUnauthorized
	}
	return storeError(s.repos.Messages.MarkRead(ctx, messageID))
}

func (s *messageService) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	if userID <= 0 {
		return 0, ErrUnauthorized
	}
	return s.repos.Messages.CountUnread(ctx, userID)
}

func toMessageResponses(views []models.MessageView) []dto.MessageResponse {
	out := make([]dto.MessageResponse, 0, len(views))
	for _, v := range views {
		out = append(out, dto.FromMessageView(v))
	}
	return out
}
