package client

// http_client.go = talks to the studymate REST API on behalf of the CLI.

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"studymate/internal/microservices/http-api/dto"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

// defines the HTTP client structure and methods
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// constructor for HTTP client
func NewHTTPClient(apiURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(apiURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// set token for HTTP client
func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

type listEnvelope[T any] struct {
	Data []T `json:"data"`
}

// do sends body as JSON and decodes the answer into out when out is non-nil.
func (c *HTTPClient) do(method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	response, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		var errBody struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(response.Body).Decode(&errBody)
		return &APIError{StatusCode: response.StatusCode, Message: errBody.Error}
	}

	if out == nil || response.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(response.Body).Decode(out)
}

func topicPath(topicID int64, suffix string) string {
	return fmt.Sprintf("/api/topics/%d%s", topicID, suffix)
}

// Auth

func (c *HTTPClient) Register(request *dto.RegisterRequest) (*dto.UserResponse, error) {
	var result dto.UserResponse
	if err := c.do(http.MethodPost, "/api/auth/register", request, &result); err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}
	return &result, nil
}

func (c *HTTPClient) Login(request *dto.LoginRequest) (*dto.AuthResponse, error) {
	var result dto.AuthResponse
	if err := c.do(http.MethodPost, "/api/auth/login", request, &result); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	return &result, nil
}

func (c *HTTPClient) Logout() error {
	return c.do(http.MethodPost, "/api/auth/logout", nil, nil)
}

// Topics

func (c *HTTPClient) listTopics(path string) ([]dto.TopicResponse, error) {
	var result listEnvelope[dto.TopicResponse]
	if err := c.do(http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// ListTopics returns the home feed.
func (c *HTTPClient) ListTopics() ([]dto.TopicResponse, error) {
	return c.listTopics("/api/topics")
}

func (c *HTTPClient) ListOwnedTopics() ([]dto.TopicResponse, error) {
	return c.listTopics("/api/topics/mine")
}

func (c *HTTPClient) ListJoinedTopics() ([]dto.TopicResponse, error) {
	return c.listTopics("/api/topics/joined")
}

func (c *HTTPClient) GetTopic(topicID int64) (*dto.TopicResponse, error) {
	var result dto.TopicResponse
	if err := c.do(http.MethodGet, topicPath(topicID, ""), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) PostTopic(request *dto.CreateTopicRequest) (*dto.TopicResponse, error) {
	var result dto.TopicResponse
	if err := c.do(http.MethodPost, "/api/topics", request, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) DeleteTopic(topicID int64) error {
	return c.do(http.MethodDelete, topicPath(topicID, ""), nil, nil)
}

// ToggleWillingness joins the topic, or leaves it if already joined.
func (c *HTTPClient) ToggleWillingness(topicID int64) (*dto.WillingnessResponse, error) {
	var result dto.WillingnessResponse
	if err := c.do(http.MethodPost, topicPath(topicID, "/willingness"), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) ListWillingUsers(topicID int64) ([]dto.WillingUserResponse, error) {
	var result listEnvelope[dto.WillingUserResponse]
	if err := c.do(http.MethodGet, topicPath(topicID, "/willingness"), nil, &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

func (c *HTTPClient) ScheduleTopic(topicID int64, scheduledAt string) (*dto.ScheduleResponse, error) {
	var result dto.ScheduleResponse
	body := dto.ScheduleTopicRequest{ScheduledAt: scheduledAt}
	if err := c.do(http.MethodPut, topicPath(topicID, "/schedule"), body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Ratings

func (c *HTTPClient) RateTopic(topicID int64, value float64, feedback string) (*dto.RatingSummaryResponse, error) {
	var result dto.RatingSummaryResponse
	body := dto.RateTopicRequest{Value: &value, Feedback: feedback}
	if err := c.do(http.MethodPost, topicPath(topicID, "/ratings"), body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) ListRatings(topicID int64) ([]dto.RatingResponse, error) {
	var result listEnvelope[dto.RatingResponse]
	if err := c.do(http.MethodGet, topicPath(topicID, "/ratings"), nil, &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// Profile

func (c *HTTPClient) GetProfile(username string) (*dto.ProfileResponse, error) {
	var result dto.ProfileResponse
	if err := c.do(http.MethodGet, "/api/profile/"+url.PathEscape(username), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
