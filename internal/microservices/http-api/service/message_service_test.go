package service

import (
	"testing"
	"time"

	"studymate/internal/microservices/http-api/dto"

	"github.com/stretchr/testify/suite"
)

type messageSuite struct {
	serviceSuite
	svc MessageService
}

func TestMessageService(t *testing.T) {
	suite.Run(t, new(messageSuite))
}

func (s *messageSuite) SetupTest() {
	s.serviceSuite.SetupTest()
	s.svc = NewMessageService(s.repos, s.clock())
}

func (s *messageSuite) TestSendInboxAndRead() {
	ann := s.user("ann")
	bob := s.user("bob")
	topic := s.topic(bob, "graphs")

	sent, err := s.svc.Send(s.ctx, ann.ID, dto.SendMessageRequest{
		ReceiverID: bob.ID,
		TopicID:    &topic.ID,
		Subject:    strPtr("  question "),
		Body:       "Is the session still on?",
	})
	s.Require().NoError(err)
	s.Equal("ann", sent.SenderUsername)
	s.Equal("bob", sent.ReceiverUsername)
	s.Equal("question", *sent.Subject)

	unread, err := s.svc.UnreadCount(s.ctx, bob.ID)
	s.Require().NoError(err)
	s.Equal(int64(1), unread)

	inbox, err := s.svc.Inbox(s.ctx, bob.ID)
	s.Require().NoError(err)
	s.Require().Len(inbox, 1)
	s.False(inbox[0].Read)

	s.ErrorIs(s.svc.MarkRead(s.ctx, ann.ID, sent.ID), ErrUnauthorized)
	s.Require().NoError(s.svc.MarkRead(s.ctx, bob.ID, sent.ID))

	unread, err = s.svc.UnreadCount(s.ctx, bob.ID)
	s.Require().NoError(err)
	s.Zero(unread)

	s.ErrorIs(s.svc.MarkRead(s.ctx, bob.ID, 4242), ErrNotFound)
}

func (s *messageSuite) TestConversationOldestFirst() {
	ann := s.user("ann")
	bob := s.user("bob")
	carl := s.user("carl")

	send := func(from, to int64, body string) {
		s.now = s.now.Add(time.Minute)
		_, err := s.svc.Send(s.ctx, from, dto.SendMessageRequest{ReceiverID: to, Body: body})
		s.Require().NoError(err)
	}
	send(ann.ID, bob.ID, "hi")
	send(bob.ID, ann.ID, "hello")
	send(carl.ID, ann.ID, "unrelated")

	thread, err := s.svc.Conversation(s.ctx, ann.ID, bob.ID)
	s.Require().NoError(err)
	s.Require().Len(thread, 2)
	s.Equal("hi", thread[0].Body)
	s.Equal("hello", thread[1].Body)
}

func (s *messageSuite) TestSendValidation() {
	ann := s.user("ann")
	missing := int64(4242)

	_, err := s.svc.Send(s.ctx, ann.ID, dto.SendMessageRequest{ReceiverID: ann.ID, Body: "me"})
	s.ErrorIs(err, ErrInvalidInput)

	_, err = s.svc.Send(s.ctx, ann.ID, dto.SendMessageRequest{ReceiverID: 4242, Body: "hi"})
	s.ErrorIs(err, ErrNotFound)

	bob := s.user("bob")
	_, err = s.svc.Send(s.ctx, ann.ID, dto.SendMessageRequest{ReceiverID: bob.ID, TopicID: &missing, Body: "hi"})
	s.ErrorIs(err, ErrNotFound)

	_, err = s.svc.Send(s.ctx, 0, dto.SendMessageRequest{ReceiverID: bob.ID, Body: "hi"})
	s.ErrorIs(err, ErrUnauthorized)
}
