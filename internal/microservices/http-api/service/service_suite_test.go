package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"studymate/internal/microservices/http-api/models"
	"studymate/internal/microservices/http-api/repository"
	"studymate/internal/schedule"
	"studymate/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// serviceSuite runs services against a fresh in-memory SQLite database per
// test, with a clock the test controls.
type serviceSuite struct {
	suite.Suite

	ctx   context.Context
	db    *gorm.DB
	repos *repository.Repositories
	gate  *schedule.Gate
	now   time.Time
}

func (s *serviceSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = testutil.NewDB(s.T())
	s.repos = repository.NewRepositories(s.db)
	s.gate = schedule.NewGate(time.UTC, true)
	s.now = time.Date(2025, 1, 9, 8, 0, 0, 0, time.UTC)
}

func (s *serviceSuite) clock() Option {
	return WithClock(func() time.Time { return s.now })
}

func (s *serviceSuite) user(username string) *models.User {
	user := &models.User{
		Username:   username,
		Password:   "not-a-real-hash",
		Name:       username + " name",
		Profession: "student",
		Role:       models.RoleUser,
		CreatedAt:  s.now,
	}
	s.Require().NoError(s.repos.Users.Create(s.ctx, user))
	return user
}

func (s *serviceSuite) topic(owner *models.User, title string) *models.Topic {
	topic := &models.Topic{
		Title:       title,
		Description: "notes on " + title,
		Duration:    "2 hours",
		OwnerID:     owner.ID,
		CreatedAt:   s.now,
	}
	s.Require().NoError(s.repos.Topics.Create(s.ctx, topic))
	return topic
}

func (s *serviceSuite) schedule(topic *models.Topic, raw string) {
	s.Require().NoError(s.repos.Topics.UpdateSchedule(s.ctx, topic.ID, raw))
}

func (s *serviceSuite) willingnessCount(topicID int64) int64 {
	count, err := s.repos.Willingness.CountByTopic(s.ctx, topicID)
	s.Require().NoError(err)
	return count
}

func (s *serviceSuite) ratingsCount(topicID int64) int64 {
	summary, err := s.repos.Ratings.Summary(s.ctx, topicID)
	s.Require().NoError(err)
	return summary.Count
}

// collideOnCreate makes the first insert into table lose a race: rival runs
// inside the same transaction just before the insert, so the insert hits the
// unique index. It returns a counter of insert attempts on table.
func (s *serviceSuite) collideOnCreate(table string, rival func(tx *gorm.DB) error) *int {
	attempts := 0
	err := s.db.Callback().Create().Before("gorm:create").Register("test:rival_"+table, func(tx *gorm.DB) {
		if tx.Statement.Table != table {
			return
		}
		attempts++
		if attempts > 1 {
			return
		}
		if err := rival(tx.Session(&gorm.Session{NewDB: true})); err != nil {
			tx.AddError(err)
		}
	})
	s.Require().NoError(err)
	return &attempts
}

func TestStoreError(t *testing.T) {
	assert.Nil(t, storeError(nil))
	assert.ErrorIs(t, storeError(gorm.ErrRecordNotFound), ErrNotFound)
	assert.ErrorIs(t, storeError(fmt.Errorf("%w: unique", repository.ErrDuplicate)), ErrConflict)
	assert.ErrorIs(t, storeError(context.Canceled), context.Canceled)
}
