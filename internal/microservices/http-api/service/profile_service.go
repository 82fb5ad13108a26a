package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"studymate/internal/microservices/http-api/dto"
	"studymate/internal/microservices/http-api/models"
	"studymate/internal/microservices/http-api/repository"
	"studymate/internal/schedule"
)

const recentActivityLimit = 5

type ProfileService interface {
	GetProfile(ctx context.Context, username string) (*dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID int64, req dto.UpdateProfileRequest) (*models.User, error)
}

type profileService struct {
	repos *repository.Repositories
	gate  *schedule.Gate
	options
}

func NewProfileService(repos *repository.Repositories, gate *schedule.Gate, opts ...Option) ProfileService {
	return &profileService{repos: repos, gate: gate, options: buildOptions(opts)}
}

// GetProfile returns a user with their posting and rating stats and the
// latest topics they created or joined.
func (s *profileService) GetProfile(ctx context.Context, username string) (*dto.ProfileResponse, error) {
	user, err := s.repos.Users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, storeError(err)
	}

	created, err := s.repos.Topics.CountByOwner(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	joined, err := s.repos.Willingness.CountByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	ratings, err := s.repos.Ratings.SummaryByOwner(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	activities, err := s.recentActivities(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &dto.ProfileResponse{
		User: dto.FromUser(user),
		Stats: dto.ProfileStats{
			TopicsCreated: created,
			TopicsJoined:  joined,
			AverageRating: ratings.Average,
			TotalRatings:  ratings.Count,
		},
		Activities: activities,
	}, nil
}

func (s *profileService) recentActivities(ctx context.Context, userID int64) ([]dto.ActivityResponse, error) {
	posted, err := s.repos.Topics.RecentByOwner(ctx, userID, recentActivityLimit)
	if err != nil {
		return nil, err
	}
	joins, err := s.repos.Willingness.RecentByUser(ctx, userID, recentActivityLimit)
	if err != nil {
		return nil, err
	}

	activities := make([]dto.ActivityResponse, 0, len(posted)+len(joins))
	for _, t := range posted {
		activities = append(activities, s.activity(dto.ActivityCreated, t.ID, t.Title, t.CreatedAt))
	}
	for _, j := range joins {
		activities = append(activities, s.activity(dto.ActivityJoined, j.TopicID, j.Title, j.CreatedAt))
	}

	sort.SliceStable(activities, func(i, j int) bool {
		return activities[i].At.After(activities[j].At)
	})
	if len(activities) > recentActivityLimit {
		activities = activities[:recentActivityLimit]
	}
	return activities, nil
}

func (s *profileService) activity(kind string, topicID int64, title string, at time.Time) dto.ActivityResponse {
	return dto.ActivityResponse{
		Kind:      kind,
		TopicID:   topicID,
		Title:     title,
		At:        at,
		AtDisplay: schedule.FormatDisplay(at.In(s.gate.Location())),
	}
}

func (s *profileService) UpdateProfile(ctx context.Context, userID int64, req dto.UpdateProfileRequest) (*models.User, error) {
	if userID <= 0 {
		return nil, ErrUnauthorized
	}
	name := strings.TrimSpace(req.Name)
	profession := strings.TrimSpace(req.Profession)
	if name == "" || profession == "" {
		return nil, ErrInvalidInput
	}

	if err := s.repos.Users.UpdateProfile(ctx, userID, name, profession); err != nil {
		return nil, storeError(err)
	}
	user, err := s.repos.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, storeError(err)
	}

	s.logger.Info("profile_updated", "user_id", userID)
	return user, nil
}
