package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"studymate/internal/microservices/http-api/dto"
	"studymate/internal/microservices/http-api/events"
	"studymate/internal/microservices/http-api/models"
	"studymate/internal/microservices/http-api/repository"
	"studymate/internal/schedule"

	"gorm.io/gorm"
)

type RatingService interface {
	RateTopic(ctx context.Context, userID, topicID int64, value float64, feedback string) (*dto.RatingSummaryResponse, error)
	ListTopicRatings(ctx context.Context, topicID int64) ([]dto.RatingResponse, error)
	GetTopicAverageRating(ctx context.Context, topicID int64) (*dto.RatingSummaryResponse, error)
}

type ratingService struct {
	repos *repository.Repositories
	gate  *schedule.Gate
	options
}

func NewRatingService(repos *repository.Repositories, gate *schedule.Gate, opts ...Option) RatingService {
	return &ratingService{
		repos:   repos,
		gate:    gate,
		options: buildOptions(opts),
	}
}

func validRating(value float64) bool {
	return !math.IsNaN(value) && value >= models.MinRating && value <= models.MaxRating
}

// RateTopic creates or updates the caller's rating once the session has
// started and returns the topic's recomputed average.
func (s *ratingService) RateTopic(ctx context.Context, userID, topicID int64, value float64, feedback string) (*dto.RatingSummaryResponse, error) {
	if userID <= 0 {
		return nil, ErrUnauthorized
	}
	if !validRating(value) {
		return nil, ErrInvalidRating
	}

	var text *string
	if f := strings.TrimSpace(feedback); f != "" {
		text = &f
	}

	now := s.now()
	summary, err := s.upsert(ctx, userID, topicID, value, text, now)
	if errors.Is(err, repository.ErrDuplicate) {
		// A concurrent first rating won the insert. The row exists now, so
		// a second pass takes the update path.
		s.logger.Warn("rating_insert_collision", "user_id", userID, "topic_id", topicID)
		summary, err = s.upsert(ctx, userID, topicID, value, text, now)
	}
	if err != nil {
		return nil, storeError(err)
	}

	s.logger.Info("topic_rated", "user_id", userID, "topic_id", topicID, "value", value, "avg_rating", summary.Average, "ratings_count", summary.Count)
	resp := dto.FromRatingSummary(topicID, summary)
	s.publish(events.RatingChanged, topicID, userID, resp)
	return resp, nil
}

// upsert runs one attempt in its own transaction. Insert collisions are
// returned as repository.ErrDuplicate so the caller can retry.
func (s *ratingService) upsert(ctx context.Context, userID, topicID int64, value float64, feedback *string, now time.Time) (models.RatingSummary, error) {
	var summary models.RatingSummary

	err := s.repos.Transaction(ctx, func(ctx context.Context, tx *repository.Repositories) error {
		if _, err := actingUser(ctx, tx, userID); err != nil {
			return err
		}
		topic, err := tx.Topics.GetByID(ctx, topicID)
		if err != nil {
			return storeError(err)
		}
		if !s.gate.CanGiveFeedback(topic.ScheduledAt, now) {
			return ErrTooEarly
		}

		existing, err := tx.Ratings.GetByUserAndTopic(ctx, userID, topicID)
		switch {
		case err == nil:
			if err := tx.Ratings.Update(ctx, existing.ID, value, feedback, now); err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			err := tx.Ratings.Create(ctx, &models.Rating{
				UserID:    userID,
				TopicID:   topicID,
				Value:     value,
				Feedback:  feedback,
				CreatedAt: now,
				UpdatedAt: now,
			})
			if err != nil {
				return err
			}
		default:
			return err
		}

		summary, err = tx.Ratings.Summary(ctx, topicID)
		return err
	})
	return summary, err
}

// ListTopicRatings returns a topic's ratings, most recently updated first.
func (s *ratingService) ListTopicRatings(ctx context.Context, topicID int64) ([]dto.RatingResponse, error) {
	if _, err := s.repos.Topics.GetByID(ctx, topicID); err != nil {
		return nil, storeError(err)
	}

	rows, err := s.repos.Ratings.ListByTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}
	ratings := make([]dto.RatingResponse, 0, len(rows))
	for _, row := range rows {
		ratings = append(ratings, dto.FromRatingWithUser(row))
	}
	return ratings, nil
}

func (s *ratingService) GetTopicAverageRating(ctx context.Context, topicID int64) (*dto.RatingSummaryResponse, error) {
	if _, err := s.repos.Topics.GetByID(ctx, topicID); err != nil {
		return nil, storeError(err)
	}
	summary, err := s.repos.Ratings.Summary(ctx, topicID)
	if err != nil {
		return nil, err
	}
	return dto.FromRatingSummary(topicID, summary), nil
}
