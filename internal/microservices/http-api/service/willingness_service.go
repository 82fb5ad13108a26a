package service

import (
	"context"
	"errors"

	"studymate/internal/microservices/http-api/dto"
	"studymate/internal/microservices/http-api/events"
	"studymate/internal/microservices/http-api/models"
	"studymate/internal/microservices/http-api/repository"
)

// Toggle actions
const (
	ActionAdded   = "added"
	ActionRemoved = "removed"
)

type WillingnessService interface {
	Toggle(ctx context.Context, userID, topicID int64) (*dto.WillingnessResponse, error)
}

type willingnessService struct {
	repos *repository.Repositories
	options
}

func NewWillingnessService(repos *repository.Repositories, opts ...Option) WillingnessService {
	return &willingnessService{repos: repos, options: buildOptions(opts)}
}

// Toggle joins the topic if the user has not, otherwise leaves it, and
// returns the new number of willing users.
func (s *willingnessService) Toggle(ctx context.Context, userID, topicID int64) (*dto.WillingnessResponse, error) {
	resp := &dto.WillingnessResponse{TopicID: topicID}

	err := s.repos.Transaction(ctx, func(ctx context.Context, tx *repository.Repositories) error {
		if _, err := actingUser(ctx, tx, userID); err != nil {
			return err
		}
		topic, err := tx.Topics.GetByID(ctx, topicID)
		if err != nil {
			return storeError(err)
		}
		if topic.OwnerID == userID {
			return ErrSelfJoinForbidden
		}

		removed, err := tx.Willingness.Delete(ctx, userID, topicID)
		if err != nil {
			return err
		}
		if removed {
			resp.Action = ActionRemoved
		} else {
			err := tx.Willingness.Create(ctx, &models.Willingness{
				UserID:    userID,
				TopicID:   topicID,
				CreatedAt: s.now(),
			})
			if err != nil {
				return storeError(err)
			}
			resp.Action = ActionAdded
		}

		resp.Count, err = tx.Willingness.CountByTopic(ctx, topicID)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			s.logger.Warn("willingness_conflict", "user_id", userID, "topic_id", topicID)
		}
		return nil, err
	}

	s.logger.Info("willingness_toggled", "user_id", userID, "topic_id", topicID, "action", resp.Action, "count", resp.Count)
	s.publish(events.WillingnessChanged, topicID, userID, map[string]any{"action": resp.Action, "count": resp.Count})
	return resp, nil
}
