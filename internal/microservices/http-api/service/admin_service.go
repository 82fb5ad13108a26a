package service

import (
	"context"

	"studymate/internal/microservices/http-api/models"
	"studymate/internal/microservices/http-api/repository"
)

type AdminService interface {
	ListUsers(ctx context.Context) ([]models.UserPostCount, error)
	DeleteUser(ctx context.Context, adminID, userID int64) error
	PromoteAdmin(ctx context.Context, username string) error
}

type adminService struct {
	repos *repository.Repositories
	options
}

func NewAdminService(repos *repository.Repositories, opts ...Option) AdminService {
	return &adminService{repos: repos, options: buildOptions(opts)}
}

// ListUsers returns every account with its topic count, most active first.
func (s *adminService) ListUsers(ctx context.Context) ([]models.UserPostCount, error) {
	return s.repos.Users.ListWithPostCounts(ctx)
}

// DeleteUser removes an account and everything it owns in one transaction:
// its topics with their joins and ratings, its own joins and ratings, and
// its messages. Admins cannot delete themselves.
func (s *adminService) DeleteUser(ctx context.Context, adminID, userID int64) error {
	if adminID == userID {
		return ErrForbidden
	}

	err := s.repos.Transaction(ctx, func(ctx context.Context, tx *repository.Repositories) error {
		if _, err := tx.Users.FindByID(ctx, userID); err != nil {
			return storeError(err)
		}

		steps := []func(context.Context, int64) error{
			tx.Messages.DetachTopicsOfOwner,
			tx.Willingness.DeleteByTopicOwner,
			tx.Ratings.DeleteByTopicOwner,
			tx.Willingness.DeleteByUser,
			tx.Ratings.DeleteByUser,
			tx.Messages.DeleteByUser,
			tx.Topics.DeleteByOwner,
			tx.Users.Delete,
		}
		for _, step := range steps {
			if err := step(ctx, userID); err != nil {
				return storeError(err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("user_deleted", "user_id", userID, "admin_id", adminID)
	return nil
}

// PromoteAdmin grants the admin role to an existing account.
func (s *adminService) PromoteAdmin(ctx context.Context, username string) error {
	if err := s.repos.Users.SetRole(ctx, username, models.RoleAdmin); err != nil {
		return storeError(err)
	}
	s.logger.Info("admin_promoted", "username", username)
	return nil
}
