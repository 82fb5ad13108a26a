package service

import (
	"math"
	"testing"
	"time"

	"studymate/internal/microservices/http-api/models"
	"studymate/internal/schedule"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type ratingSuite struct {
	serviceSuite
	svc RatingService
}

func TestRatingService(t *testing.T) {
	suite.Run(t, new(ratingSuite))
}

func (s *ratingSuite) SetupTest() {
	s.serviceSuite.SetupTest()
	s.svc = NewRatingService(s.repos, s.gate, s.clock())
}

func (s *ratingSuite) TestRateTwiceKeepsOneRow() {
	owner := s.user("owner")
	ann := s.user("ann")
	topic := s.topic(owner, "graphs")

	_, err := s.svc.RateTopic(s.ctx, ann.ID, topic.ID, 3, "")
	s.Require().NoError(err)
	got, err := s.svc.RateTopic(s.ctx, ann.ID, topic.ID, 4.5, "")
	s.Require().NoError(err)

	s.Equal(4.5, got.Average)
	s.Equal(int64(1), got.RatingsCount)

	rating, err := s.repos.Ratings.GetByUserAndTopic(s.ctx, ann.ID, topic.ID)
	s.Require().NoError(err)
	s.Equal(4.5, rating.Value)
	s.Equal(int64(1), s.ratingsCount(topic.ID))
}

func (s *ratingSuite) TestEmptyFeedbackPreservesStoredText() {
	owner := s.user("owner")
	ann := s.user("ann")
	topic := s.topic(owner, "graphs")

	_, err := s.svc.RateTopic(s.ctx, ann.ID, topic.ID, 3, "  clear explanations  ")
	s.Require().NoError(err)
	_, err = s.svc.RateTopic(s.ctx, ann.ID, topic.ID, 4, "   ")
	s.Require().NoError(err)

	rating, err := s.repos.Ratings.GetByUserAndTopic(s.ctx, ann.ID, topic.ID)
	s.Require().NoError(err)
	s.Require().NotNil(rating.Feedback)
	s.Equal("clear explanations", *rating.Feedback)
	s.Equal(4.0, rating.Value)

	_, err = s.svc.RateTopic(s.ctx, ann.ID, topic.ID, 4, "too fast")
	s.Require().NoError(err)
	rating, err = s.repos.Ratings.GetByUserAndTopic(s.ctx, ann.ID, topic.ID)
	s.Require().NoError(err)
	s.Equal("too fast", *rating.Feedback)
}

func (s *ratingSuite) TestUpdateRefreshesUpdatedAt() {
	owner := s.user("owner")
	ann := s.user("ann")
	topic := s.topic(owner, "graphs")
	created := s.now

	_, err := s.svc.RateTopic(s.ctx, ann.ID, topic.ID, 2, "")
	s.Require().NoError(err)
	s.now = s.now.Add(3 * time.Hour)
	_, err = s.svc.RateTopic(s.ctx, ann.ID, topic.ID, 2, "")
	s.Require().NoError(err)

	rating, err := s.repos.Ratings.GetByUserAndTopic(s.ctx, ann.ID, topic.ID)
	s.Require().NoError(err)
	s.True(created.Equal(rating.CreatedAt))
	s.True(s.now.Equal(rating.UpdatedAt))
}

func (s *ratingSuite) TestOutOfRangeIsRejectedWithoutWrite() {
	owner := s.user("owner")
	ann := s.user("ann")
	topic := s.topic(owner, "graphs")

	for _, v := range []float64{-1, 5.1, math.NaN(), math.Inf(1)} {
		resp, err := s.svc.RateTopic(s.ctx, ann.ID, topic.ID, v, "x")
		s.ErrorIs(err, ErrInvalidRating, "value %v", v)
		s.Nil(resp)
	}
	s.Zero(s.ratingsCount(topic.ID))

	for _, v := range []float64{0, 5} {
		_, err := s.svc.RateTopic(s.ctx, ann.ID, topic.ID, v, "")
		s.NoError(err, "value %v", v)
	}
}

func (s *ratingSuite) TestScheduledExample() {
	owner := s.user("owner")
	ann := s.user("ann")
	topic := s.topic(owner, "graphs")
	s.schedule(topic, "2025-01-10T09:00")

	s.now = time.Date(2025, 1, 9, 8, 0, 0, 0, time.UTC)
	_, err := s.svc.RateTopic(s.ctx, ann.ID, topic.ID, 4, "")
	s.ErrorIs(err, ErrTooEarly)
	s.Zero(s.ratingsCount(topic.ID))

	s.now = time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	got, err := s.svc.RateTopic(s.ctx, ann.ID, topic.ID, 4, "")
	s.Require().NoError(err)
	s.Equal(4.0, got.Average)
	s.Equal(int64(1), got.RatingsCount)
}

func (s *ratingSuite) TestUnparsableScheduleFollowsGatePolicy() {
	owner := s.user("owner")
	ann := s.user("ann")
	topic := s.topic(owner, "graphs")
	s.schedule(topic, "after the exam")

	_, err := s.svc.RateTopic(s.ctx, ann.ID, topic.ID, 4, "")
	s.NoError(err)

	closed := NewRatingService(s.repos, schedule.NewGate(time.UTC, false), s.clock())
	_, err = closed.RateTopic(s.ctx, ann.ID, topic.ID, 5, "")
	s.ErrorIs(err, ErrTooEarly)
}

func (s *ratingSuite) TestErrors() {
	owner := s.user("owner")
	topic := s.topic(owner, "graphs")

	_, err := s.svc.RateTopic(s.ctx, 0, topic.ID, 3, "")
	s.ErrorIs(err, ErrUnauthorized)

	_, err = s.svc.RateTopic(s.ctx, owner.ID, 4242, 3, "")
	s.ErrorIs(err, ErrNotFound)

	_, err = s.svc.ListTopicRatings(s.ctx, 4242)
	s.ErrorIs(err, ErrNotFound)
}

func (s *ratingSuite) TestAverageAndListing() {
	owner := s.user("owner")
	ann := s.user("ann")
	bob := s.user("bob")
	topic := s.topic(owner, "graphs")

	empty, err := s.svc.GetTopicAverageRating(s.ctx, topic.ID)
	s.Require().NoError(err)
	s.Zero(empty.Average)
	s.Zero(empty.RatingsCount)

	_, err = s.svc.RateTopic(s.ctx, ann.ID, topic.ID, 0, "")
	s.Require().NoError(err)
	zero, err := s.svc.GetTopicAverageRating(s.ctx, topic.ID)
	s.Require().NoError(err)
	s.Zero(zero.Average)
	s.Equal(int64(1), zero.RatingsCount)

	s.now = s.now.Add(time.Minute)
	got, err := s.svc.RateTopic(s.ctx, bob.ID, topic.ID, 3.25, "good")
	s.Require().NoError(err)
	s.Equal(1.63, got.Average)

	list, err := s.svc.ListTopicRatings(s.ctx, topic.ID)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal("bob", list[0].Username)
	s.Equal("ann", list[1].Username)
}

func (s *ratingSuite) TestCollidingFirstRatingIsRetried() {
	owner := s.user("owner")
	ann := s.user("ann")
	topic := s.topic(owner, "graphs")

	attempts := s.collideOnCreate("ratings", func(tx *gorm.DB) error {
		return tx.Create(&models.Rating{UserID: ann.ID, TopicID: topic.ID, Value: 2, CreatedAt: s.now, UpdatedAt: s.now}).Error
	})

	got, err := s.svc.RateTopic(s.ctx, ann.ID, topic.ID, 4, "")
	s.Require().NoError(err)
	s.Equal(4.0, got.Average)
	s.Equal(int64(1), got.RatingsCount)

	rating, err := s.repos.Ratings.GetByUserAndTopic(s.ctx, ann.ID, topic.ID)
	s.Require().NoError(err)
	s.Equal(4.0, rating.Value)
	s.Equal(int64(1), s.ratingsCount(topic.ID))
	s.Equal(3, *attempts) // rival, colliding insert, retried insert
}
