package service

import (
	"context"
	"strings"

	"studymate/internal/microservices/http-api/dto"
	"studymate/internal/microservices/http-api/events"
	"studymate/internal/microservices/http-api/models"
	"studymate/internal/microservices/http-api/repository"
	"studymate/internal/schedule"
)

// TopicService covers the topic lifecycle: posting, the aggregated views,
// scheduling and deletion.
type TopicService interface {
	PostTopic(ctx context.Context, userID int64, req dto.CreateTopicRequest) (*dto.TopicResponse, error)
	GetTopic(ctx context.Context, viewerID, topicID int64) (*dto.TopicResponse, error)
	ListTopics(ctx context.Context, viewerID int64) ([]dto.TopicResponse, error)
	ListOwnedTopics(ctx context.Context, userID int64) ([]dto.TopicResponse, error)
	ListJoinedTopics(ctx context.Context, userID int64) ([]dto.TopicResponse, error)
	ListWillingUsers(ctx context.Context, userID, topicID int64) ([]dto.WillingUserResponse, error)
	ScheduleTopic(ctx context.Context, userID, topicID int64, raw string) (*dto.ScheduleResponse, error)
	DeleteTopic(ctx context.Context, userID, topicID int64) error
}

type topicService struct {
	repos *repository.Repositories
	gate  *schedule.Gate
	options
}

func NewTopicService(repos *repository.Repositories, gate *schedule.Gate, opts ...Option) TopicService {
	return &topicService{
		repos:   repos,
		gate:    gate,
		options: buildOptions(opts),
	}
}

func (s *topicService) PostTopic(ctx context.Context, userID int64, req dto.CreateTopicRequest) (*dto.TopicResponse, error) {
	if _, err := actingUser(ctx, s.repos, userID); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	duration := strings.TrimSpace(req.Duration)
	if title == "" || description == "" || duration == "" {
		return nil, ErrInvalidInput
	}

	var category *string
	if req.Category != nil {
		if c := strings.TrimSpace(*req.Category); c != "" {
			category = &c
		}
	}

	topic := &models.Topic{
		Title:       title,
		Description: description,
		Duration:    duration,
		Category:    category,
		OwnerID:     userID,
		CreatedAt:   s.now(),
	}
	if err := s.repos.Topics.Create(ctx, topic); err != nil {
		return nil, err
	}

	s.logger.Info("topic_posted", "topic_id", topic.ID, "owner_id", userID)
	s.publish(events.TopicCreated, topic.ID, userID, map[string]any{"title": topic.Title})
	return s.GetTopic(ctx, userID, topic.ID)
}

func (s *topicService) GetTopic(ctx context.Context, viewerID, topicID int64) (*dto.TopicResponse, error) {
	rows, err := s.repos.Topics.ListWithStats(ctx, repository.TopicFilter{ViewerID: viewerID, TopicID: topicID})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	resp := s.toResponse(rows[0], viewerID)
	return &resp, nil
}

// ListTopics is the home feed: every topic, newest first.
func (s *topicService) ListTopics(ctx context.Context, viewerID int64) ([]dto.TopicResponse, error) {
	return s.list(ctx, viewerID, repository.TopicFilter{ViewerID: viewerID})
}

func (s *topicService) ListOwnedTopics(ctx context.Context, userID int64) ([]dto.TopicResponse, error) {
	return s.list(ctx, userID, repository.TopicFilter{ViewerID: userID, OwnerID: userID})
}

func (s *topicService) ListJoinedTopics(ctx context.Context, userID int64) ([]dto.TopicResponse, error) {
	return s.list(ctx, userID, repository.TopicFilter{ViewerID: userID, JoinedBy: userID})
}

func (s *topicService) list(ctx context.Context, viewerID int64, filter repository.TopicFilter) ([]dto.TopicResponse, error) {
	if viewerID <= 0 {
		return nil, ErrUnauthorized
	}
	rows, err := s.repos.Topics.ListWithStats(ctx, filter)
	if err != nil {
		return nil, err
	}

	topics := make([]dto.TopicResponse, 0, len(rows))
	for _, row := range rows {
		topics = append(topics, s.toResponse(row, viewerID))
	}
	return topics, nil
}

func (s *topicService) toResponse(row models.TopicStats, viewerID int64) dto.TopicResponse {
	ratings := row.Ratings()
	return dto.TopicResponse{
		ID:               row.ID,
		Title:            row.Title,
		Description:      row.Description,
		Duration:         row.Duration,
		Category:         row.Category,
		OwnerID:          row.OwnerID,
		OwnerUsername:    row.OwnerUsername,
		OwnerName:        row.OwnerName,
		CreatedAt:        row.CreatedAt,
		CreatedDisplay:   schedule.FormatCreated(row.CreatedAt.In(s.gate.Location())),
		ScheduledAt:      row.ScheduledAt,
		ScheduledDisplay: s.gate.Display(row.ScheduledAt),
		WillingnessCount: row.WillingnessCount,
		AverageRating:    ratings.Average,
		RatingsCount:     ratings.Count,
		IsOwner:          row.OwnerID == viewerID,
		ViewerJoined:     row.ViewerJoined > 0,
		CanGiveFeedback:  s.gate.CanGiveFeedback(row.ScheduledAt, s.now()),
	}
}

// ListWillingUsers shows the owner who intends to join their topic.
func (s *topicService) ListWillingUsers(ctx context.Context, userID, topicID int64) ([]dto.WillingUserResponse, error) {
	if userID <= 0 {
		return nil, ErrUnauthorized
	}
	topic, err := s.repos.Topics.GetByID(ctx, topicID)
	if err != nil {
		return nil, storeError(err)
	}
	if topic.OwnerID != userID {
		return nil, ErrUnauthorized
	}

	users, err := s.repos.Willingness.ListUsers(ctx, topicID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.WillingUserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, dto.WillingUserResponse{
			ID:         u.ID,
			Username:   u.Username,
			Name:       u.Name,
			Profession: u.Profession,
		})
	}
	return resp, nil
}

// ScheduleTopic stores raw as the session time, replacing any earlier value.
// The text is kept exactly as entered; only the gate interprets it.
func (s *topicService) ScheduleTopic(ctx context.Context, userID, topicID int64, raw string) (*dto.ScheduleResponse, error) {
	if userID <= 0 {
		return nil, ErrUnauthorized
	}
	if strings.TrimSpace(raw) == "" {
		return nil, ErrInvalidSchedule
	}

	err := s.repos.Transaction(ctx, func(ctx context.Context, tx *repository.Repositories) error {
		if _, err := actingUser(ctx, tx, userID); err != nil {
			return err
		}
		topic, err := tx.Topics.GetByID(ctx, topicID)
		if err != nil {
			return storeError(err)
		}
		if topic.OwnerID != userID {
			return ErrUnauthorized
		}
		return storeError(tx.Topics.UpdateSchedule(ctx, topicID, raw))
	})
	if err != nil {
		return nil, err
	}

	if _, perr := s.gate.Parse(raw); perr != nil {
		s.logger.Warn("topic_schedule_unparsable", "topic_id", topicID, "scheduled_at", raw, "fail_open", s.gate.FailOpen())
	}
	s.logger.Info("topic_scheduled", "topic_id", topicID, "owner_id", userID)
	s.publish(events.TopicScheduled, topicID, userID, map[string]any{"scheduled_at": raw})

	return &dto.ScheduleResponse{
		TopicID:          topicID,
		ScheduledAt:      raw,
		ScheduledDisplay: s.gate.Display(&raw),
		CanGiveFeedback:  s.gate.CanGiveFeedback(&raw, s.now()),
	}, nil
}

// DeleteTopic removes a topic with every row that references it.
func (s *topicService) DeleteTopic(ctx context.Context, userID, topicID int64) error {
	if userID <= 0 {
		return ErrUnauthorized
	}

	err := s.repos.Transaction(ctx, func(ctx context.Context, tx *repository.Repositories) error {
		topic, err := tx.Topics.GetByID(ctx, topicID)
		if err != nil {
			return storeError(err)
		}
		if topic.OwnerID != userID {
			return ErrUnauthorized
		}

		if err := tx.Ratings.DeleteByTopic(ctx, topicID); err != nil {
			return err
		}
		if err := tx.Willingness.DeleteByTopic(ctx, topicID); err != nil {
			return err
		}
		if err := tx.Messages.DetachTopic(ctx, topicID); err != nil {
			return err
		}
		return storeError(tx.Topics.Delete(ctx, topicID))
	})
	if err != nil {
		return err
	}

	s.logger.Info("topic_deleted", "topic_id", topicID, "owner_id", userID)
	s.publish(events.TopicDeleted, topicID, userID, nil)
	return nil
}
