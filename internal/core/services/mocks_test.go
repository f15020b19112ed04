package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/tessyjonburica/Droppio/internal/core/domain"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByWallet(ctx context.Context, walletAddress string) (*domain.User, error) {
	args := m.Called(ctx, walletAddress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) Create(ctx context.Context, stream *domain.Stream) error {
	args := m.Called(ctx, stream)
	return args.Error(0)
}

func (m *MockStreamRepository) GetByID(ctx context.Context, id domain.StreamID) (*domain.Stream, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Stream), args.Error(1)
}

func (m *MockStreamRepository) Update(ctx context.Context, stream *domain.Stream) error {
	args := m.Called(ctx, stream)
	return args.Error(0)
}

func (m *MockStreamRepository) FindActiveByStreamer(ctx context.Context, streamerID domain.UserID) (*domain.Stream, error) {
	args := m.Called(ctx, streamerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Stream), args.Error(1)
}

type MockTipRepository struct {
	mock.Mock
}

func (m *MockTipRepository) Create(ctx context.Context, tip *domain.Tip) error {
	args := m.Called(ctx, tip)
	return args.Error(0)
}

func (m *MockTipRepository) GetByID(ctx context.Context, id domain.TipID) (*domain.Tip, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tip), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyTipReceived(streamerID domain.UserID, tip *domain.Tip, viewer *domain.User) {
	m.Called(streamerID, tip, viewer)
}

func (m *MockNotifier) NotifyOverlayTip(streamerID domain.UserID, tip *domain.Tip, viewer *domain.User) {
	m.Called(streamerID, tip, viewer)
}

func (m *MockNotifier) NotifyViewerJoined(streamerID domain.UserID, viewerID string, viewerCount int) {
	m.Called(streamerID, viewerID, viewerCount)
}

func (m *MockNotifier) NotifyViewerLeft(streamerID domain.UserID, viewerID string, viewerCount int) {
	m.Called(streamerID, viewerID, viewerCount)
}

func (m *MockNotifier) BroadcastStreamStarted(stream *domain.Stream, streamer *domain.User) {
	m.Called(stream, streamer)
}

func (m *MockNotifier) BroadcastStreamEnded(streamID domain.StreamID) {
	m.Called(streamID)
}
