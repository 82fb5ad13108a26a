package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"studymate/internal/microservices/http-api/dto"
	"studymate/internal/microservices/http-api/models"
	"studymate/internal/microservices/http-api/service"
	"studymate/internal/ratelimit"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

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

func setupRouter(auth service.AuthService, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(nil), AuthMiddleware(auth))
	r.Use(extra...)
	r.GET("/me", func(c *gin.Context) {
		id, _ := CurrentUserID(c)
		user, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "username": user.Username})
	})
	return r
}

func get(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_Success(t *testing.T) {
	auth := new(MockAuthService)
	user := &models.User{ID: 7, Username: "ann", Role: models.RoleUser}
	auth.On("Authenticate", mock.Anything, "good").Return(user, &service.Claims{}, nil)

	w := get(setupRouter(auth), "Bearer good")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":7,"username":"ann"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	auth.AssertExpectations(t)
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	auth := new(MockAuthService)
	auth.On("Authenticate", mock.Anything, "bad").Return(nil, nil, service.ErrInvalidToken)
	auth.On("Authenticate", mock.Anything, "down").Return(nil, nil, errors.New("redis: connection refused"))
	r := setupRouter(auth)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"Missing", "", http.StatusUnauthorized},
		{"NotBearer", "Basic abc", http.StatusUnauthorized},
		{"Invalid", "Bearer bad", http.StatusUnauthorized},
		{"StoreDown", "Bearer down", http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, get(r, tt.header).Code)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	auth := new(MockAuthService)
	auth.On("Authenticate", mock.Anything, "user").Return(&models.User{ID: 1, Username: "u", Role: models.RoleUser}, &service.Claims{}, nil)
	auth.On("Authenticate", mock.Anything, "admin").Return(&models.User{ID: 2, Username: "a", Role: models.RoleAdmin}, &service.Claims{}, nil)
	r := setupRouter(auth, RequireAdmin())

	assert.Equal(t, http.StatusForbidden, get(r, "Bearer user").Code)
	assert.Equal(t, http.StatusOK, get(r, "Bearer admin").Code)
}

func TestRequestID_PropagatesIncoming(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(nil), RequestLog())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, RequestIDFrom(c)) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(ratelimit.NewLocalLimiter(2, time.Minute), "login"))
	r.POST("/login", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
}
