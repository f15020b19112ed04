package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tessyjonburica/Droppio/internal/core/domain"
	"github.com/tessyjonburica/Droppio/pkg/logger"
)

func TestStartStream(t *testing.T) {
	users := new(MockUserRepository)
	streams := new(MockStreamRepository)
	notifier := new(MockNotifier)

	creator := &domain.User{ID: "creator-1", Role: domain.RoleCreator, DisplayName: "carol"}

	users.On("GetByID", mock.Anything, domain.UserID("creator-1")).Return(creator, nil)
	streams.On("FindActiveByStreamer", mock.Anything, domain.UserID("creator-1")).Return(nil, domain.ErrStreamNotFound)
	streams.On("Create", mock.Anything, mock.AnythingOfType("*domain.Stream")).Return(nil)
	notifier.On("BroadcastStreamStarted", mock.Anything, creator).Return()

	svc := NewStreamService(streams, users, notifier, logger.Nop())
	stream, err := svc.StartStream(context.Background(), "creator-1", "first stream", "web")
	require.NoError(t, err)

	assert.True(t, stream.IsLive)
	assert.Equal(t, domain.UserID("creator-1"), stream.StreamerID)
	assert.NotEmpty(t, stream.ID)
	notifier.AssertExpectations(t)
}

func TestStartStreamRejectsNonCreator(t *testing.T) {
	users := new(MockUserRepository)
	streams := new(MockStreamRepository)
	notifier := new(MockNotifier)

	viewer := &domain.User{ID: "viewer-1", Role: domain.RoleViewer}
	users.On("GetByID", mock.Anything, domain.UserID("viewer-1")).Return(viewer, nil)

	svc := NewStreamService(streams, users, notifier, logger.Nop())
	_, err := svc.StartStream(context.Background(), "viewer-1", "nope", "web")
	assert.Error(t, err)

	streams.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestStartStreamRejectsWhenAlreadyLive(t *testing.T) {
	users := new(MockUserRepository)
	streams := new(MockStreamRepository)
	notifier := new(MockNotifier)

	creator := &domain.User{ID: "creator-1", Role: domain.RoleCreator}
	live := &domain.Stream{ID: "stream-1", StreamerID: "creator-1", IsLive: true}

	users.On("GetByID", mock.Anything, domain.UserID("creator-1")).Return(creator, nil)
	streams.On("FindActiveByStreamer", mock.Anything, domain.UserID("creator-1")).Return(live, nil)

	svc := NewStreamService(streams, users, notifier, logger.Nop())
	_, err := svc.StartStream(context.Background(), "creator-1", "second", "web")
	assert.Error(t, err)
}

func TestEndStream(t *testing.T) {
	users := new(MockUserRepository)
	streams := new(MockStreamRepository)
	notifier := new(MockNotifier)

	stream := &domain.Stream{ID: "stream-1", StreamerID: "creator-1", IsLive: true, StartedAt: time.Now()}

	streams.On("GetByID", mock.Anything, domain.StreamID("stream-1")).Return(stream, nil)
	streams.On("Update", mock.Anything, mock.MatchedBy(func(s *domain.Stream) bool {
		return !s.IsLive && s.EndedAt != nil
	})).Return(nil)
	notifier.On("BroadcastStreamEnded", domain.StreamID("stream-1")).Return()

	svc := NewStreamService(streams, users, notifier, logger.Nop())
	require.NoError(t, svc.EndStream(context.Background(), "stream-1"))
	notifier.AssertExpectations(t)
}

func TestEndStreamRejectsEndedStream(t *testing.T) {
	users := new(MockUserRepository)
	streams := new(MockStreamRepository)
	notifier := new(MockNotifier)

	ended := &domain.Stream{ID: "stream-1", StreamerID: "creator-1", IsLive: false}
	streams.On("GetByID", mock.Anything, domain.StreamID("stream-1")).Return(ended, nil)

	svc := NewStreamService(streams, users, notifier, logger.Nop())
	err := svc.EndStream(context.Background(), "stream-1")
	assert.ErrorIs(t, err, domain.ErrStreamNotLive)
}
