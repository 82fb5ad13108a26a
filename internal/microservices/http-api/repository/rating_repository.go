package repository

import (
	"context"
	"database/sql"
	"time"

	"studymate/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type RatingRepository interface {
	Create(ctx context.Context, rating *models.Rating) error
	Update(ctx context.Context, id int64, value float64, feedback *string, updatedAt time.Time) error
	GetByUserAndTopic(ctx context.Context, userID, topicID int64) (*models.Rating, error)
	ListByTopic(ctx context.Context, topicID int64) ([]models.RatingWithUser, error)
	Summary(ctx context.Context, topicID int64) (models.RatingSummary, error)
	SummaryByOwner(ctx context.Context, ownerID int64) (models.RatingSummary, error)
	DeleteByTopic(ctx context.Context, topicID int64) error
	DeleteByUser(ctx context.Context, userID int64) error
	DeleteByTopicOwner(ctx context.Context, ownerID int64) error
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

// Create a new rating
func (r *ratingRepository) Create(ctx context.Context, rating *models.Rating) error {
	return translate(r.db.WithContext(ctx).Create(rating).Error)
}

// Update sets a new value and refresh time. A nil feedback keeps the
// stored text.
func (r *ratingRepository) Update(ctx context.Context, id int64, value float64, feedback *string, updatedAt time.Time) error {
	fields := map[string]any{
		"value":      value,
		"updated_at": updatedAt,
	}
	if feedback != nil {
		fields["feedback"] = *feedback
	}

	result := r.db.WithContext(ctx).Model(&models.Rating{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetByUserAndTopic retrieves a user's rating for a specific topic
func (r *ratingRepository) GetByUserAndTopic(ctx context.Context, userID, topicID int64) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND topic_id = ?", userID, topicID).
		First(&rating).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

// ListByTopic returns a topic's ratings with the rater, most recently
// touched first.
func (r *ratingRepository) ListByTopic(ctx context.Context, topicID int64) ([]models.RatingWithUser, error) {
	var rows []models.RatingWithUser
	err := r.db.WithContext(ctx).
		Table("ratings AS r").
		Select("r.id, r.user_id, r.topic_id, r.value, r.feedback, r.created_at, r.updated_at, u.username, u.name").
		Joins("JOIN users u ON u.id = r.user_id").
		Where("r.topic_id = ?", topicID).
		Order("r.updated_at DESC").
		Order("r.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

type summaryRow struct {
	Average sql.NullFloat64
	Count   int64
}

// Summary computes the average and count of a topic's ratings
func (r *ratingRepository) Summary(ctx context.Context, topicID int64) (models.RatingSummary, error) {
	var row summaryRow
	err := r.db.WithContext(ctx).
		Model(&models.Rating{}).
		Select("AVG(value) AS average, COUNT(*) AS count").
		Where("topic_id = ?", topicID).
		Scan(&row).Error
	if err != nil {
		return models.RatingSummary{}, err
	}
	return models.NewRatingSummary(row.Average, row.Count), nil
}

// SummaryByOwner aggregates the ratings of every topic an owner posted.
func (r *ratingRepository) SummaryByOwner(ctx context.Context, ownerID int64) (models.RatingSummary, error) {
	var row summaryRow
	err := r.db.WithContext(ctx).
		Table("ratings AS r").
		Select("AVG(r.value) AS average, COUNT(r.id) AS count").
		Joins("JOIN topics t ON t.id = r.topic_id").
		Where("t.owner_id = ?", ownerID).
		Scan(&row).Error
	if err != nil {
		return models.RatingSummary{}, err
	}
	return models.NewRatingSummary(row.Average, row.Count), nil
}

func (r *ratingRepository) DeleteByTopic(ctx context.Context, topicID int64) error {
	return r.db.WithContext(ctx).Where("topic_id = ?", topicID).Delete(&models.Rating{}).Error
}

func (r *ratingRepository) DeleteByUser(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Rating{}).Error
}

func (r *ratingRepository) DeleteByTopicOwner(ctx context.Context, ownerID int64) error {
	return r.db.WithContext(ctx).
		Where("topic_id IN (SELECT id FROM topics WHERE owner_id = ?)", ownerID).
		Delete(&models.Rating{}).Error
}
