package repository

import (
	"context"

	"studymate/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type WillingnessRepository interface {
	Create(ctx context.Context, willingness *models.Willingness) error
	Delete(ctx context.Context, userID, topicID int64) (bool, error)
	CountByTopic(ctx context.Context, topicID int64) (int64, error)
	CountByUser(ctx context.Context, userID int64) (int64, error)
	ListUsers(ctx context.Context, topicID int64) ([]models.User, error)
	RecentByUser(ctx context.Context, userID int64, limit int) ([]models.JoinActivity, error)
	DeleteByTopic(ctx context.Context, topicID int64) error
	DeleteByUser(ctx context.Context, userID int64) error
	DeleteByTopicOwner(ctx context.Context, ownerID int64) error
}

type willingnessRepository struct {
	db *gorm.DB
}

func NewWillingnessRepository(db *gorm.DB) WillingnessRepository {
	return &willingnessRepository{db: db}
}

// Create inserts a join record; a second record for the same pair fails
// with ErrDuplicate.
func (r *willingnessRepository) Create(ctx context.Context, willingness *models.Willingness) error {
	return translate(r.db.WithContext(ctx).Create(willingness).Error)
}

// Delete removes the join record of a pair and reports whether one existed.
func (r *willingnessRepository) Delete(ctx context.Context, userID, topicID int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND topic_id = ?", userID, topicID).
		Delete(&models.Willingness{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *willingnessRepository) CountByTopic(ctx context.Context, topicID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Willingness{}).Where("topic_id = ?", topicID).Count(&count).Error
	return count, err
}

func (r *willingnessRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Willingness{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// ListUsers returns the users who joined a topic, in join order.
func (r *willingnessRepository) ListUsers(ctx context.Context, topicID int64) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Joins("JOIN willingness w ON w.user_id = users.id").
		Where("w.topic_id = ?", topicID).
		Order("w.created_at ASC").
		Order("w.id ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *willingnessRepository) RecentByUser(ctx context.Context, userID int64, limit int) ([]models.JoinActivity, error) {
	var rows []models.JoinActivity
	err := r.db.WithContext(ctx).
		Table("willingness AS w").
		Select("t.id AS topic_id, t.title, w.created_at").
		Joins("JOIN topics t ON t.id = w.topic_id").
		Where("w.user_id = ?", userID).
		Order("w.created_at DESC").
		Order("w.id DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *willingnessRepository) DeleteByTopic(ctx context.Context, topicID int64) error {
	return r.db.WithContext(ctx).Where("topic_id = ?", topicID).Delete(&models.Willingness{}).Error
}

func (r *willingnessRepository) DeleteByUser(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Willingness{}).Error
}

// DeleteByTopicOwner clears join records on every topic an owner posted.
func (r *willingnessRepository) DeleteByTopicOwner(ctx context.Context, ownerID int64) error {
	return r.db.WithContext(ctx).
		Where("topic_id IN (SELECT id FROM topics WHERE owner_id = ?)", ownerID).
		Delete(&models.Willingness{}).Error
}
