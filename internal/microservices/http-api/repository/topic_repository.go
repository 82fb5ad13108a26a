package repository

import (
	"context"

	"studymate/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

// TopicFilter narrows ListWithStats. Zero fields are ignored.
type TopicFilter struct {
	ViewerID int64 // fills TopicStats.ViewerJoined
	TopicID  int64
	OwnerID  int64
	JoinedBy int64
}

type TopicRepository interface {
	Create(ctx context.Context, topic *models.Topic) error
	GetByID(ctx context.Context, id int64) (*models.Topic, error)
	UpdateSchedule(ctx context.Context, id int64, scheduledAt string) error
	Delete(ctx context.Context, id int64) error
	DeleteByOwner(ctx context.Context, ownerID int64) error
	ListWithStats(ctx context.Context, filter TopicFilter) ([]models.TopicStats, error)
	CountByOwner(ctx context.Context, ownerID int64) (int64, error)
	RecentByOwner(ctx context.Context, ownerID int64, limit int) ([]models.Topic, error)
}

type topicRepository struct {
	db *gorm.DB
}

func NewTopicRepository(db *gorm.DB) TopicRepository {
	return &topicRepository{db: db}
}

func (r *topicRepository) Create(ctx context.Context, topic *models.Topic) error {
	return translate(r.db.WithContext(ctx).Create(topic).Error)
}

func (r *topicRepository) GetByID(ctx context.Context, id int64) (*models.Topic, error) {
	var topic models.Topic
	if err := r.db.WithContext(ctx).First(&topic, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &topic, nil
}

// UpdateSchedule overwrites the stored schedule of a topic
func (r *topicRepository) UpdateSchedule(ctx context.Context, id int64, scheduledAt string) error {
	result := r.db.WithContext(ctx).Model(&models.Topic{}).
		Where("id = ?", id).
		Update("scheduled_at", scheduledAt)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes only the topic row, callers clear child rows first.
func (r *topicRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Topic{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *topicRepository) DeleteByOwner(ctx context.Context, ownerID int64) error {
	return r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Delete(&models.Topic{}).Error
}

// ListWithStats returns topics with owner identity and aggregates computed
// from the current willingness and ratings rows, newest first.
func (r *topicRepository) ListWithStats(ctx context.Context, filter TopicFilter) ([]models.TopicStats, error) {
	var rows []models.TopicStats

	query := r.db.WithContext(ctx).
		Table("topics AS t").
		Select(`t.id, t.title, t.description, t.duration, t.category, t.owner_id, t.created_at, t.scheduled_at,
			u.username AS owner_username, u.name AS owner_name,
			(SELECT COUNT(*) FROM willingness w WHERE w.topic_id = t.id) AS willingness_count,
			(SELECT AVG(r.value) FROM ratings r WHERE r.topic_id = t.id) AS avg_rating,
			(SELECT COUNT(*) FROM ratings r WHERE r.topic_id = t.id) AS ratings_count,
			(SELECT COUNT(*) FROM willingness vw WHERE vw.topic_id = t.id AND vw.user_id = ?) AS viewer_joined`,
			filter.ViewerID).
		Joins("LEFT JOIN users u ON u.id = t.owner_id")

	if filter.TopicID != 0 {
		query = query.Where("t.id = ?", filter.TopicID)
	}
	if filter.OwnerID != 0 {
		query = query.Where("t.owner_id = ?", filter.OwnerID)
	}
	if filter.JoinedBy != 0 {
		query = query.Where("EXISTS (SELECT 1 FROM willingness jw WHERE jw.topic_id = t.id AND jw.user_id = ?)", filter.JoinedBy)
	}

	err := query.Order("t.created_at DESC").Order("t.id DESC").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *topicRepository) CountByOwner(ctx context.Context, ownerID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Topic{}).Where("owner_id = ?", ownerID).Count(&count).Error
	return count, err
}

func (r *topicRepository) RecentByOwner(ctx context.Context, ownerID int64, limit int) ([]models.Topic, error) {
	var topics []models.Topic
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&topics).Error
	if err != nil {
		return nil, err
	}
	return topics, nil
}
