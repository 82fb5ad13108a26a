package service

import (
	"context"
	"errors"

	"studymate/internal/microservices/http-api/models"
	"studymate/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

// actingUser resolves the caller. An empty or unknown id is ErrUnauthorized.
func actingUser(ctx context.Context, repos *repository.Repositories, userID int64) (*models.User, error) {
	if userID <= 0 {
		return nil, ErrUnauthorized
	}
	user, err := repos.Users.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
