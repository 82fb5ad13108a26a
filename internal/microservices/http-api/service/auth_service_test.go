package service

import (
	"testing"
	"time"

	"studymate/internal/microservices/http-api/dto"
	"studymate/internal/microservices/http-api/models"
	"studymate/internal/microservices/http-api/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type authSuite struct {
	serviceSuite
	redis *miniredis.Miniredis
	svc   AuthService
}

func TestAuthService(t *testing.T) {
	suite.Run(t, new(authSuite))
}

func (s *authSuite) SetupTest() {
	s.serviceSuite.SetupTest()
	s.redis = miniredis.RunT(s.T())
	revoker := repository.NewRedisTokenRevoker(redis.NewClient(&redis.Options{Addr: s.redis.Addr()}))
	s.svc = NewAuthService(s.repos, revoker, testSecret, time.Hour, s.clock())
}

func (s *authSuite) register(username, password string) *models.User {
	user, err := s.svc.Register(s.ctx, dto.RegisterRequest{
		Username:   username,
		Password:   password,
		Name:       "Ann Lee",
		Profession: "engineer",
	})
	s.Require().NoError(err)
	return user
}

func (s *authSuite) TestRegisterAndLogin() {
	user := s.register("ann", "password123")
	s.Equal(models.RoleUser, user.Role)
	s.NotEqual("password123", user.Password)

	resp, err := s.svc.Login(s.ctx, dto.LoginRequest{Username: "ann", Password: "password123"})
	s.Require().NoError(err)
	s.Equal("Bearer", resp.TokenType)
	s.Equal(int64(3600), resp.ExpiresIn)
	s.Equal(user.ID, resp.User.ID)

	got, claims, err := s.svc.Authenticate(s.ctx, resp.AccessToken)
	s.Require().NoError(err)
	s.Equal(user.ID, got.ID)
	s.NotEmpty(claims.ID)
}

func (s *authSuite) TestTokenCarriesOnlyIdentity() {
	s.register("ann", "password123")
	resp, err := s.svc.Login(s.ctx, dto.LoginRequest{Username: "ann", Password: "password123"})
	s.Require().NoError(err)

	claims := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(resp.AccessToken, claims)
	s.Require().NoError(err)

	for key := range claims {
		s.Contains([]string{"sub", "jti", "iat", "exp"}, key)
	}
}

func (s *authSuite) TestRegisterDuplicateUsername() {
	s.register("ann", "password123")

	_, err := s.svc.Register(s.ctx, dto.RegisterRequest{Username: "ann", Password: "password456", Name: "A", Profession: "B"})
	s.ErrorIs(err, ErrNameInUse)
}

func (s *authSuite) TestLoginFailures() {
	s.register("ann", "password123")

	_, err := s.svc.Login(s.ctx, dto.LoginRequest{Username: "ann", Password: "wrong-password"})
	s.ErrorIs(err, ErrInvalidCredentials)

	_, err = s.svc.Login(s.ctx, dto.LoginRequest{Username: "nobody", Password: "password123"})
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *authSuite) TestAuthenticateSeesFreshProfile() {
	user := s.register("ann", "password123")
	resp, err := s.svc.Login(s.ctx, dto.LoginRequest{Username: "ann", Password: "password123"})
	s.Require().NoError(err)

	s.Require().NoError(s.repos.Users.UpdateProfile(s.ctx, user.ID, "Ann Park", "teacher"))
	s.Require().NoError(s.repos.Users.SetRole(s.ctx, "ann", models.RoleAdmin))

	got, _, err := s.svc.Authenticate(s.ctx, resp.AccessToken)
	s.Require().NoError(err)
	s.Equal("Ann Park", got.Name)
	s.True(got.IsAdmin())
}

func (s *authSuite) TestAuthenticateRejects() {
	user := s.register("ann", "password123")
	resp, err := s.svc.Login(s.ctx, dto.LoginRequest{Username: "ann", Password: "password123"})
	s.Require().NoError(err)

	_, _, err = s.svc.Authenticate(s.ctx, "not.a.token")
	s.ErrorIs(err, ErrInvalidToken)

	other := NewAuthService(s.repos, nil, "another-secret-another-secret-000", time.Hour, s.clock())
	_, _, err = other.Authenticate(s.ctx, resp.AccessToken)
	s.ErrorIs(err, ErrInvalidToken)

	s.now = s.now.Add(2 * time.Hour)
	_, _, err = s.svc.Authenticate(s.ctx, resp.AccessToken)
	s.ErrorIs(err, ErrInvalidToken, "expired")

	s.now = s.now.Add(-2 * time.Hour)
	s.Require().NoError(s.repos.Users.Delete(s.ctx, user.ID))
	_, _, err = s.svc.Authenticate(s.ctx, resp.AccessToken)
	s.ErrorIs(err, ErrInvalidToken, "deleted account")
}

func (s *authSuite) TestLogoutRevokesToken() {
	s.register("ann", "password123")
	resp, err := s.svc.Login(s.ctx, dto.LoginRequest{Username: "ann", Password: "password123"})
	s.Require().NoError(err)

	_, claims, err := s.svc.Authenticate(s.ctx, resp.AccessToken)
	s.Require().NoError(err)
	s.Require().NoError(s.svc.Logout(s.ctx, claims))

	_, _, err = s.svc.Authenticate(s.ctx, resp.AccessToken)
	s.ErrorIs(err, ErrInvalidToken)

	ttl := s.redis.TTL("studymate:revoked:" + claims.ID)
	s.Equal(time.Hour, ttl)
}

func (s *authSuite) TestRevocationStoreDown() {
	s.register("ann", "password123")
	resp, err := s.svc.Login(s.ctx, dto.LoginRequest{Username: "ann", Password: "password123"})
	s.Require().NoError(err)

	s.redis.Close()
	_, _, err = s.svc.Authenticate(s.ctx, resp.AccessToken)
	s.Error(err)
	s.NotErrorIs(err, ErrInvalidToken)
}
