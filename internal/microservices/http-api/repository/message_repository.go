package repository

import (
	"context"

	"studymate/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	GetByID(ctx context.Context, id int64) (*models.Message, error)
	ListInbox(ctx context.Context, userID int64) ([]models.MessageView, error)
	ListConversation(ctx context.Context, userID, otherID int64) ([]models.MessageView, error)
	MarkRead(ctx context.Context, id int64) error
	CountUnread(ctx context.Context, userID int64) (int64, error)
	DetachTopic(ctx context.Context, topicID int64) error
	DetachTopicsOfOwner(ctx context.Context, ownerID int64) error
	DeleteByUser(ctx context.Context, userID int64) error
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	return translate(r.db.WithContext(ctx).Create(message).Error)
}

func (r *messageRepository) GetByID(ctx context.Context, id int64) (*models.Message, error) {
	var message models.Message
	if err := r.db.WithContext(ctx).First(&message, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *messageRepository) views(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("messages AS m").
		Select(`m.id, m.sender_id, m.receiver_id, m.topic_id, m.subject, m.body, m.is_read, m.created_at,
			s.username AS sender_username, rc.username AS receiver_username`).
		Joins("JOIN users s ON s.id = m.sender_id").
		Joins("JOIN users rc ON rc.id = m.receiver_id")
}

// ListInbox returns messages received by a user, newest first
func (r *messageRepository) ListInbox(ctx context.Context, userID int64) ([]models.MessageView, error) {
	var rows []models.MessageView
	err := r.views(ctx).
		Where("m.receiver_id = ?", userID).
		Order("m.created_at DESC").
		Order("m.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListConversation returns the thread between two users, oldest first
func (r *messageRepository) ListConversation(ctx context.Context, userID, otherID int64) ([]models.MessageView, error) {
	var rows []models.MessageView
	err := r.views(ctx).
		Where("(m.sender_id = ? AND m.receiver_id = ?) OR (m.sender_id = ? AND m.receiver_id = ?)",
			userID, otherID, otherID, userID).
		Order("m.created_at ASC").
		Order("m.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *messageRepository) MarkRead(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Model(&models.Message{}).Where("id = ?", id).Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *messageRepository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("receiver_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// DetachTopic drops the topic reference from messages about a topic.
func (r *messageRepository) DetachTopic(ctx context.Context, topicID int64) error {
	return r.db.WithContext(ctx).Model(&models.Message{}).
		Where("topic_id = ?", topicID).
		Update("topic_id", nil).Error
}

func (r *messageRepository) DetachTopicsOfOwner(ctx context.Context, ownerID int64) error {
	return r.db.WithContext(ctx).Model(&models.Message{}).
		Where("topic_id IN (SELECT id FROM topics WHERE owner_id = ?)", ownerID).
		Update("topic_id", nil).Error
}

func (r *messageRepository) DeleteByUser(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Delete(&models.Message{}).Error
}
