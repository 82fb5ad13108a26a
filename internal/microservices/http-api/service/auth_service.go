package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"studymate/internal/microservices/http-api/dto"
	"studymate/internal/microservices/http-api/models"
	"studymate/internal/microservices/http-api/repository"
	"studymate/internal/middleware/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Claims carries only the account id (sub) and token id (jti). Everything
// else about the user is loaded from the store on each request.
type Claims struct {
	jwt.RegisteredClaims
}

// UserID returns the numeric subject.
func (c *Claims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
	Authenticate(ctx context.Context, tokenString string) (*models.User, *Claims, error)
	Logout(ctx context.Context, claims *Claims) error
}

type authService struct {
	repos          *repository.Repositories
	revoker        repository.TokenRevoker
	jwtSecret      []byte
	accessTokenTTL time.Duration
	options
}

func NewAuthService(
	repos *repository.Repositories,
	revoker repository.TokenRevoker,
	jwtSecret string,
	accessTokenTTL time.Duration,
	opts ...Option,
) AuthService {
	if revoker == nil {
		revoker = repository.NewNoopTokenRevoker()
	}
	return &authService{
		repos:          repos,
		revoker:        revoker,
		jwtSecret:      []byte(jwtSecret),
		accessTokenTTL: accessTokenTTL,
		options:        buildOptions(opts),
	}
}

// Register creates an account with the default role.
func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*models.User, error) {
	username := strings.TrimSpace(req.Username)
	name := strings.TrimSpace(req.Name)
	profession := strings.TrimSpace(req.Profession)
	if username == "" || name == "" || profession == "" || req.Password == "" {
		return nil, ErrInvalidInput
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:   username,
		Password:   hashedPassword,
		Name:       name,
		Profession: profession,
		Role:       models.RoleUser,
		CreatedAt:  s.now(),
	}

	// The unique index on username decides races between two registrations.
	if err := s.repos.Users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrNameInUse
		}
		return nil, err
	}

	s.logger.Info("user_registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Login: authenticates a user and returns a signed access token.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.repos.Users.FindByUsername(ctx, strings.TrimSpace(req.Username))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// same bcrypt cost whether or not the account exists
		auth.BurnCompare(req.Password)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := auth.VerifyPassword(user.Password, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.accessTokenTTL.Seconds()),
		User:        dto.FromUser(user),
	}, nil
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *authService) parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Authenticate validates the token and loads its user fresh, so role and
// profile changes apply on the next request.
func (s *authService) Authenticate(ctx context.Context, tokenString string) (*models.User, *Claims, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, nil, err
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, nil, ErrInvalidToken
	}

	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("check token revocation: %w", err)
	}
	if revoked {
		return nil, nil, ErrInvalidToken
	}

	user, err := s.repos.Users.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// account deleted after the token was issued
		return nil, nil, ErrInvalidToken
	}
	if err != nil {
		return nil, nil, err
	}
	return user, claims, nil
}

// Logout revokes the token until it would have expired anyway.
func (s *authService) Logout(ctx context.Context, claims *Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return ErrInvalidToken
	}
	ttl := claims.ExpiresAt.Sub(s.now())
	if err := s.revoker.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	s.logger.Info("user_logged_out", "sub", claims.Subject, "jti", claims.ID)
	return nil
}
