package service

import (
	"errors"

	"studymate/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

// Domain errors. Handlers map each of these onto an HTTP status.
var (
	ErrUnauthorized      = errors.New("not allowed for this user")
	ErrForbidden         = errors.New("forbidden")
	ErrSelfJoinForbidden = errors.New("cannot join your own topic")
	ErrInvalidRating     = errors.New("rating must be between 0 and 5")
	ErrTooEarly          = errors.New("feedback opens once the session has started")
	ErrConflict          = errors.New("conflicting concurrent update, retry")
	ErrNotFound          = errors.New("not found")
	ErrInvalidSchedule   = errors.New("scheduled time is required")
	ErrInvalidInput      = errors.New("invalid input")

	ErrNameInUse          = errors.New("username already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// storeError maps repository errors onto domain errors and passes the rest
// through unchanged.
func storeError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrDuplicate):
		return ErrConflict
	default:
		return err
	}
}
