package handler

import (
	"net/http"

	"studymate/internal/microservices/http-api/dto"
	"studymate/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

// TopicHandler serves topics together with their willingness, schedule and
// rating sub-resources.
type TopicHandler struct {
	topicService       service.TopicService
	willingnessService service.WillingnessService
	ratingService      service.RatingService
}

func NewTopicHandler(topics service.TopicService, willingness service.WillingnessService, ratings service.RatingService) *TopicHandler {
	return &TopicHandler{
		topicService:       topics,
		willingnessService: willingness,
		ratingService:      ratings,
	}
}

// RegisterRoutes registers topic routes; the group is already authenticated.
func (h *TopicHandler) RegisterRoutes(router *gin.RouterGroup) {
	topics := router.Group("/topics")
	{
		topics.GET("", h.List)
		topics.POST("", h.Create)
		topics.GET("/mine", h.ListOwned)
		topics.GET("/joined", h.ListJoined)
		topics.GET("/:topic_id", h.Get)
		topics.DELETE("/:topic_id", h.Delete)

		topics.POST("/:topic_id/willingness", h.ToggleWillingness)
		topics.GET("/:topic_id/willingness", h.ListWillingUsers)
		topics.PUT("/:topic_id/schedule", h.Schedule)

		topics.GET("/:topic_id/ratings", h.ListRatings)
		topics.GET("/:topic_id/ratings/average", h.GetAverage)
		topics.POST("/:topic_id/ratings", h.Rate)
	}
}

// List returns the home feed
// GET /api/topics
func (h *TopicHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	topics, err := h.topicService.ListTopics(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": topics})
}

// GET /api/topics/mine
func (h *TopicHandler) ListOwned(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	topics, err := h.topicService.ListOwnedTopics(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": topics})
}

// GET /api/topics/joined
func (h *TopicHandler) ListJoined(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	topics, err := h.topicService.ListJoinedTopics(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": topics})
}

// Create posts a topic
// POST /api/topics
func (h *TopicHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.CreateTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	topic, err := h.topicService.PostTopic(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, topic)
}

// GET /api/topics/:topic_id
func (h *TopicHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	topicID, ok := pathID(c, "topic_id")
	if !ok {
		return
	}
	topic, err := h.topicService.GetTopic(c.Request.Context(), userID, topicID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, topic)
}

// DELETE /api/topics/:topic_id
func (h *TopicHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	topicID, ok := pathID(c, "topic_id")
	if !ok {
		return
	}
	if err := h.topicService.DeleteTopic(c.Request.Context(), userID, topicID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "topic deleted"})
}

// ToggleWillingness joins or leaves a topic
// POST /api/topics/:topic_id/willingness
func (h *TopicHandler) ToggleWillingness(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	topicID, ok := pathID(c, "topic_id")
	if !ok {
		return
	}
	resp, err := h.willingnessService.Toggle(c.Request.Context(), userID, topicID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GET /api/topics/:topic_id/willingness
func (h *TopicHandler) ListWillingUsers(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	topicID, ok := pathID(c, "topic_id")
	if !ok {
		return
	}
	users, err := h.topicService.ListWillingUsers(c.Request.Context(), userID, topicID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": users})
}

// Schedule sets the session time
// PUT /api/topics/:topic_id/schedule
func (h *TopicHandler) Schedule(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	topicID, ok := pathID(c, "topic_id")
	if !ok {
		return
	}
	var req dto.ScheduleTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.topicService.ScheduleTopic(c.Request.Context(), userID, topicID, req.ScheduledAt)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Rate creates or updates the caller's rating
// POST /api/topics/:topic_id/ratings
func (h *TopicHandler) Rate(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	topicID, ok := pathID(c, "topic_id")
	if !ok {
		return
	}
	var req dto.RateTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.ratingService.RateTopic(c.Request.Context(), userID, topicID, *req.Value, req.Feedback)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GET /api/topics/:topic_id/ratings
func (h *TopicHandler) ListRatings(c *gin.Context) {
	topicID, ok := pathID(c, "topic_id")
	if !ok {
		return
	}
	ratings, err := h.ratingService.ListTopicRatings(c.Request.Context(), topicID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": ratings})
}

// GET /api/topics/:topic_id/ratings/average
func (h *TopicHandler) GetAverage(c *gin.Context) {
	topicID, ok := pathID(c, "topic_id")
	if !ok {
		return
	}
	resp, err := h.ratingService.GetTopicAverageRating(c.Request.Context(), topicID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
