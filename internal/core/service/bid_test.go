package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/osenchenko/masterbid/internal/core/domain"
	"github.com/osenchenko/masterbid/internal/core/port/mock"
	"github.com/osenchenko/masterbid/internal/core/service"
)

func TestService_PlaceBid(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	logger, _ := zap.NewProduction()

	announcementID := uuid.New()
	master := domain.User{ID: 2, Role: domain.RoleMaster, FirstName: "Ivan"}
	masterActor := domain.Actor{UserID: master.ID, Role: domain.RoleMaster}

	openAnnouncement := domain.Announcement{
		ID:     announcementID,
		UserID: 1,
		Title:  "Install windows",
		Status: domain.AnnouncementStatusActive,
	}
	assignedAnnouncement := openAnnouncement
	assignedAnnouncement.Status = domain.AnnouncementStatusAssigned

	type placeBidTest struct {
		name     string
		actor    domain.Actor
		price    float64
		mock     prepareMocks
		expError error
	}

	tests := []placeBidTest{
		{
			name:  "Place bid good",
			actor: masterActor,
			price: 800,
			mock: func(repo *mock.MockRepository, notifier *mock.MockNotifier) {
				repo.EXPECT().ReadAnnouncement(gomock.Any(), announcementID).Return(&openAnnouncement, nil)
				repo.EXPECT().UpsertBid(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, bid *domain.Bid) (*domain.Bid, error) {
						assert.Equal(t, announcementID, bid.AnnouncementID)
						assert.Equal(t, master.ID, bid.UserID)
						return bid, nil
					})
				repo.EXPECT().ReadUser(gomock.Any(), master.ID).Return(&master, nil)
				notifier.EXPECT().NotifyNewBid(&openAnnouncement, gomock.Any(), &master)
			},
			expError: nil,
		},
		{
			name:     "Place bid not a master",
			actor:    domain.Actor{UserID: 1, Role: domain.RoleIntermediary},
			price:    800,
			mock:     func(repo *mock.MockRepository, notifier *mock.MockNotifier) {},
			expError: domain.ErrForbidden,
		},
		{
			name:     "Place bid zero price",
			actor:    masterActor,
			price:    0,
			mock:     func(repo *mock.MockRepository, notifier *mock.MockNotifier) {},
			expError: domain.ErrInvalidPrice,
		},
		{
			name:  "Place bid announcement assigned",
			actor: masterActor,
			price: 800,
			mock: func(repo *mock.MockRepository, notifier *mock.MockNotifier) {
				repo.EXPECT().ReadAnnouncement(gomock.Any(), announcementID).Return(&assignedAnnouncement, nil)
			},
			expError: domain.ErrAnnouncementNotOpen,
		},
		{
			name:  "Place bid loses race with assignment",
			actor: masterActor,
			price: 800,
			mock: func(repo *mock.MockRepository, notifier *mock.MockNotifier) {
				// The announcement read still sees ACTIVE, but an assignment
				// commits before the upsert's locked status check.
				repo.EXPECT().ReadAnnouncement(gomock.Any(), announcementID).Return(&openAnnouncement, nil)
				repo.EXPECT().UpsertBid(gomock.Any(), gomock.Any()).
					Return(nil, domain.ErrAnnouncementNotOpen)
			},
			expError: domain.ErrAnnouncementNotOpen,
		},
		{
			name:  "Place bid announcement missing",
			actor: masterActor,
			price: 800,
			mock: func(repo *mock.MockRepository, notifier *mock.MockNotifier) {
				repo.EXPECT().ReadAnnouncement(gomock.Any(), announcementID).Return(nil, domain.ErrDataNotFound)
			},
			expError: domain.ErrDataNotFound,
		},
		{
			name:  "Place bid survives bidder lookup failure",
			actor: masterActor,
			price: 800,
			mock: func(repo *mock.MockRepository, notifier *mock.MockNotifier) {
				repo.EXPECT().ReadAnnouncement(gomock.Any(), announcementID).Return(&openAnnouncement, nil)
				repo.EXPECT().UpsertBid(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, bid *domain.Bid) (*domain.Bid, error) {
						return bid, nil
					})
				repo.EXPECT().ReadUser(gomock.Any(), master.ID).Return(nil, domain.ErrInternal)
			},
			expError: nil,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			repo := mock.NewMockRepository(mockCtrl)
			ts := mock.NewMockTokenService(mockCtrl)
			notifier := mock.NewMockNotifier(mockCtrl)
			test.mock(repo, notifier)

			s, err := service.NewService(repo, ts, notifier, logger)
			assert.NoError(t, err)

			bid, err := s.PlaceBid(context.Background(), test.actor, announcementID, mustDecimal(t, test.price))

			assert.Equal(t, test.expError, err)
			if test.expError == nil {
				assert.NotNil(t, bid)
			}
		})
	}
}

func TestService_WithdrawBid(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	logger, _ := zap.NewProduction()

	bidID := uuid.New()
	ownerBid := domain.Bid{ID: bidID, AnnouncementID: uuid.New(), UserID: 2}

	type withdrawTest struct {
		name     string
		actor    domain.Actor
		mock     prepareMocks
		expError error
	}

	tests := []withdrawTest{
		{
			name:  "Withdraw good",
			actor: domain.Actor{UserID: 2, Role: domain.RoleMaster},
			mock: func(repo *mock.MockRepository, notifier *mock.MockNotifier) {
				repo.EXPECT().ReadBid(gomock.Any(), bidID).Return(&ownerBid, nil)
				repo.EXPECT().DeleteBid(gomock.Any(), bidID).Return(nil)
			},
			expError: nil,
		},
		{
			name:  "Withdraw foreign bid",
			actor: domain.Actor{UserID: 7, Role: domain.RoleMaster},
			mock: func(repo *mock.MockRepository, notifier *mock.MockNotifier) {
				repo.EXPECT().ReadBid(gomock.Any(), bidID).Return(&ownerBid, nil)
			},
			expError: domain.ErrForbidden,
		},
		{
			name:  "Withdraw assigned bid",
			actor: domain.Actor{UserID: 2, Role: domain.RoleMaster},
			mock: func(repo *mock.MockRepository, notifier *mock.MockNotifier) {
				repo.EXPECT().ReadBid(gomock.Any(), bidID).Return(&ownerBid, nil)
				repo.EXPECT().DeleteBid(gomock.Any(), bidID).Return(domain.ErrBidLocked)
			},
			expError: domain.ErrBidLocked,
		},
		{
			name:  "Withdraw missing bid",
			actor: domain.Actor{UserID: 2, Role: domain.RoleMaster},
			mock: func(repo *mock.MockRepository, notifier *mock.MockNotifier) {
				repo.EXPECT().ReadBid(gomock.Any(), bidID).Return(nil, domain.ErrDataNotFound)
			},
			expError: domain.ErrDataNotFound,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			repo := mock.NewMockRepository(mockCtrl)
			ts := mock.NewMockTokenService(mockCtrl)
			notifier := mock.NewMockNotifier(mockCtrl)
			test.mock(repo, notifier)

			s, err := service.NewService(repo, ts, notifier, logger)
			assert.NoError(t, err)

			err = s.WithdrawBid(context.Background(), test.actor, bidID)

			assert.Equal(t, test.expError, err)
		})
	}
}

func TestService_LeadingBid(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	logger, _ := zap.NewProduction()

	announcementID := uuid.New()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	bidAt := func(t *testing.T, userID uint64, price float64, at time.Time) *domain.Bid {
		return &domain.Bid{
			ID:             uuid.New(),
			AnnouncementID: announcementID,
			UserID:         userID,
			Price:          mustDecimal(t, price),
			CreatedAt:      at,
		}
	}

	type leadingTest struct {
		name      string
		bids      func(t *testing.T) []*domain.Bid
		expError  error
		expBidder uint64
	}

	tests := []leadingTest{
		{
			name: "Lowest price wins",
			bids: func(t *testing.T) []*domain.Bid {
				return []*domain.Bid{
					bidAt(t, 1, 1000, base),
					bidAt(t, 2, 800, base.Add(time.Minute)),
					bidAt(t, 3, 900, base.Add(2*time.Minute)),
				}
			},
			expBidder: 2,
		},
		{
			name: "Tie broken by earliest bid",
			bids: func(t *testing.T) []*domain.Bid {
				return []*domain.Bid{
					bidAt(t, 1, 800, base.Add(time.Minute)),
					bidAt(t, 2, 800, base),
					bidAt(t, 3, 900, base.Add(2*time.Minute)),
				}
			},
			expBidder: 2,
		},
		{
			name: "No bids no leader",
			bids: func(t *testing.T) []*domain.Bid {
				return []*domain.Bid{}
			},
			expError: domain.ErrDataNotFound,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			repo := mock.NewMockRepository(mockCtrl)
			ts := mock.NewMockTokenService(mockCtrl)
			notifier := mock.NewMockNotifier(mockCtrl)

			repo.EXPECT().ListBidsByAnnouncement(gomock.Any(), announcementID).Return(test.bids(t), nil)

			s, err := service.NewService(repo, ts, notifier, logger)
			assert.NoError(t, err)

			leader, err := s.LeadingBid(context.Background(), announcementID)

			assert.Equal(t, test.expError, err)
			if test.expError == nil {
				assert.Equal(t, test.expBidder, leader.UserID)
			}
		})
	}
}
