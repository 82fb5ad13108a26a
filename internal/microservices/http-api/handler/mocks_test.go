package handler_test

import (
	"context"

	"studymate/internal/microservices/http-api/dto"
	"studymate/internal/microservices/http-api/models"
	"studymate/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

// --- MOCK SERVICES ---

type MockTopicService struct {
	mock.Mock
}

func (m *MockTopicService) PostTopic(ctx context.Context, userID int64, req dto.CreateTopicRequest) (*dto.TopicResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TopicResponse), args.Error(1)
}

func (m *MockTopicService) GetTopic(ctx context.Context, viewerID, topicID int64) (*dto.TopicResponse, error) {
	args := m.Called(ctx, viewerID, topicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TopicResponse), args.Error(1)
}

func (m *MockTopicService) ListTopics(ctx context.Context, viewerID int64) ([]dto.TopicResponse, error) {
	args := m.Called(ctx, viewerID)
	return args.Get(0).([]dto.TopicResponse), args.Error(1)
}

func (m *MockTopicService) ListOwnedTopics(ctx context.Context, userID int64) ([]dto.TopicResponse, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]dto.TopicResponse), args.Error(1)
}

func (m *MockTopicService) ListJoinedTopics(ctx context.Context, userID int64) ([]dto.TopicResponse, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]dto.TopicResponse), args.Error(1)
}

func (m *MockTopicService) ListWillingUsers(ctx context.Context, userID, topicID int64) ([]dto.WillingUserResponse, error) {
	args := m.Called(ctx, userID, topicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.WillingUserResponse), args.Error(1)
}

func (m *MockTopicService) ScheduleTopic(ctx context.Context, userID, topicID int64, raw string) (*dto.ScheduleResponse, error) {
	args := m.Called(ctx, userID, topicID, raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ScheduleResponse), args.Error(1)
}

func (m *MockTopicService) DeleteTopic(ctx context.Context, userID, topicID int64) error {
	return m.Called(ctx, userID, topicID).Error(0)
}

type MockWillingnessService struct {
	mock.Mock
}

func (m *MockWillingnessService) Toggle(ctx context.Context, userID, topicID int64) (*dto.WillingnessResponse, error) {
	args := m.Called(ctx, userID, topicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.WillingnessResponse), args.Error(1)
}

type MockRatingService struct {
	mock.Mock
}

func (m *MockRatingService) RateTopic(ctx context.Context, userID, topicID int64, value float64, feedback string) (*dto.RatingSummaryResponse, error) {
	args := m.Called(ctx, userID, topicID, value, feedback)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RatingSummaryResponse), args.Error(1)
}

func (m *MockRatingService) ListTopicRatings(ctx context.Context, topicID int64) ([]dto.RatingResponse, error) {
	args := m.Called(ctx, topicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.RatingResponse), args.Error(1)
}

func (m *MockRatingService) GetTopicAverageRating(ctx context.Context, topicID int64) (*dto.RatingSummaryResponse, error) {
	args := m.Called(ctx, topicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RatingSummaryResponse), args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req dto.RegisterRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.AuthResponse), args.Error(1)
}

func (m *MockAuthService) Authenticate(ctx context.Context, token string) (*models.User, *service.Claims, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.User), args.Get(1).(*service.Claims), args.Error(2)
}

func (m *MockAuthService) Logout(ctx context.Context, claims *service.Claims) error {
	return m.Called(ctx, claims).Error(0)
}

// --- SETUP ---

// mockAuthMiddleware stands in for AuthMiddleware with a fixed user.
func mockAuthMiddleware(userID int64, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("user", &models.User{ID: userID, Username: "testuser", Role: role})
		c.Set("role", role)
		c.Set("claims", &service.Claims{})
		c.Next()
	}
}
