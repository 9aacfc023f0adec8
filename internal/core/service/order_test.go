package service_test

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/osenchenko/masterbid/internal/core/domain"
	"github.com/osenchenko/masterbid/internal/core/port"
	"github.com/osenchenko/masterbid/internal/core/port/mock"
	"github.com/osenchenko/masterbid/internal/core/service"
)

func TestService_AssignOrder(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	logger, _ := zap.NewProduction()

	announcementID := uuid.New()
	bidID := uuid.New()

	mediatorActor := domain.Actor{UserID: 1, Role: domain.RoleIntermediary}

	bid := domain.Bid{ID: bidID, AnnouncementID: announcementID, UserID: 2, Price: mustDecimal(t, 800)}
	announcement := domain.Announcement{
		ID:     announcementID,
		UserID: mediatorActor.UserID,
		Status: domain.AnnouncementStatusActive,
	}
	foreignAnnouncement := announcement
	foreignAnnouncement.UserID = 9

	type assignTest struct {
		name     string
		actor    domain.Actor
		mock     prepareMocks
		expError error
	}

	tests := []assignTest{
		{
			name:  "Assign good",
			actor: mediatorActor,
			mock: func(repo *mock.MockRepository, notifier *mock.MockNotifier) {
				repo.EXPECT().ReadBid(gomock.Any(), bidID).Return(&bid, nil)
				repo.EXPECT().ReadAnnouncement(gomock.Any(), announcementID).Return(&announcement, nil)
				repo.EXPECT().CreateOrderAssignment(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, order *domain.Order) (*domain.Order, error) {
						assert.Equal(t, bidID, order.BidID)
						assert.Equal(t, bid.UserID, order.MasterID)
						assert.Equal(t, mediatorActor.UserID, order.MediatorID)
						assert.Equal(t, domain.OrderStatusAwaitingMeasurement, order.Status)
						return order, nil
					})
			},
			expError: nil,
		},
		{
			name:     "Assign not an intermediary",
			actor:    domain.Actor{UserID: 2, Role: domain.RoleMaster},
			mock:     func(repo *mock.MockRepository, notifier *mock.MockNotifier) {},
			expError: domain.ErrForbidden,
		},
		{
			name:  "Assign bid missing",
			actor: mediatorActor,
			mock: func(repo *mock.MockRepository, notifier *mock.MockNotifier) {
				repo.EXPECT().ReadBid(gomock.Any(), bidID).Return(nil, domain.ErrDataNotFound)
			},
			expError: domain.ErrDataNotFound,
		},
		{
			name:  "Assign own bid",
			actor: domain.Actor{UserID: bid.UserID, Role: domain.RoleIntermediary},
			mock: func(repo *mock.MockRepository, notifier *mock.MockNotifier) {
				repo.EXPECT().ReadBid(gomock.Any(), bidID).Return(&bid, nil)
			},
			expError: domain.ErrForbidden,
		},
		{
			name:  "Assign foreign announcement",
			actor: mediatorActor,
			mock: func(repo *mock.MockRepository, notifier *mock.MockNotifier) {
				repo.EXPECT().ReadBid(gomock.Any(), bidID).Return(&bid, nil)
				repo.EXPECT().ReadAnnouncement(gomock.Any(), announcementID).Return(&foreignAnnouncement, nil)
			},
			expError: domain.ErrForbidden,
		},
		{
			name:  "Assign twice",
			actor: mediatorActor,
			mock: func(repo *mock.MockRepository, notifier *mock.MockNotifier) {
				repo.EXPECT().ReadBid(gomock.Any(), bidID).Return(&bid, nil)
				repo.EXPECT().ReadAnnouncement(gomock.Any(), announcementID).Return(&announcement, nil)
				repo.EXPECT().CreateOrderAssignment(gomock.Any(), gomock.Any()).
					Return(nil, domain.ErrConflictingData)
			},
			expError: domain.ErrAlreadyAssigned,
		},
		{
			name:  "Assign closed announcement",
			actor: mediatorActor,
			mock: func(repo *mock.MockRepository, notifier *mock.MockNotifier) {
				repo.EXPECT().ReadBid(gomock.Any(), bidID).Return(&bid, nil)
				repo.EXPECT().ReadAnnouncement(gomock.Any(), announcementID).Return(&announcement, nil)
				repo.EXPECT().CreateOrderAssignment(gomock.Any(), gomock.Any()).
					Return(nil, domain.ErrAnnouncementNotOpen)
			},
			expError: domain.ErrAnnouncementNotOpen,
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

			order, err := s.AssignOrder(context.Background(), test.actor, bidID)

			assert.Equal(t, test.expError, err)
			if test.expError == nil {
				// Provisional commission is 10% of the bid price.
				assert.Equal(t, 0, order.Commission.Cmp(mustDecimal(t, 80)))
			}
		})
	}
}

func TestService_SubmitMeasuredPrice(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	logger, _ := zap.NewProduction()

	orderID := uuid.New()
	masterActor := domain.Actor{UserID: 2, Role: domain.RoleMaster}

	awaiting := domain.Order{
		ID:         orderID,
		MasterID:   masterActor.UserID,
		MediatorID: 1,
		Status:     domain.OrderStatusAwaitingMeasurement,
	}

	runTransition := func(order domain.Order) func(context.Context, uuid.UUID, domain.OrderStatus, port.UpdateOrderFn) (*domain.Order, error) {
		return func(_ context.Context, _ uuid.UUID, from domain.OrderStatus, fn port.UpdateOrderFn) (*domain.Order, error) {
			if order.Status != from {
				return nil, domain.ErrInvalidTransition
			}
			if err := fn(&order); err != nil {
				return nil, err
			}
			return &order, nil
		}
	}

	type measureTest struct {
		name     string
		actor    domain.Actor
		price    float64
		mock     prepareMocks
		expError error
	}

	tests := []measureTest{
		{
			name:  "Measure good",
			actor: masterActor,
			price: 900,
			mock: func(repo *mock.MockRepository, notifier *mock.MockNotifier) {
				repo.EXPECT().ReadOrder(gomock.Any(), orderID).Return(&awaiting, nil)
				repo.EXPECT().TransitionOrder(gomock.Any(), orderID, domain.OrderStatusAwaitingMeasurement, gomock.Any()).
					DoAndReturn(runTransition(awaiting))
			},
			expError: nil,
		},
		{
			name:     "Measure zero price",
			actor:    masterActor,
			price:    0,
			mock:     func(repo *mock.MockRepository, notifier *mock.MockNotifier) {},
			expError: domain.ErrInvalidPrice,
		},
		{
			name:  "Measure by wrong master",
			actor: domain.Actor{UserID: 9, Role: domain.RoleMaster},
			price: 900,
			mock: func(repo *mock.MockRepository, notifier *mock.MockNotifier) {
				repo.EXPECT().ReadOrder(gomock.Any(), orderID).Return(&awaiting, nil)
			},
			expError: domain.ErrForbidden,
		},
		{
			name:  "Measure by mediator",
			actor: domain.Actor{UserID: 1, Role: domain.RoleIntermediary},
			price: 900,
			mock: func(repo *mock.MockRepository, notifier *mock.MockNotifier) {
				repo.EXPECT().ReadOrder(gomock.Any(), orderID).Return(&awaiting, nil)
			},
			expError: domain.ErrForbidden,
		},
		{
			name:  "Measure already measured",
			actor: masterActor,
			price: 900,
			mock: func(repo *mock.MockRepository, notifier *mock.MockNotifier) {
				measured := awaiting
				measured.Status = domain.OrderStatusAwaitingCommission
				repo.EXPECT().ReadOrder(gomock.Any(), orderID).Return(&measured, nil)
				repo.EXPECT().TransitionOrder(gomock.Any(), orderID, domain.OrderStatusAwaitingMeasurement, gomock.Any()).
					DoAndReturn(runTransition(measured))
			},
			expError: domain.ErrInvalidTransition,
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

			order, err := s.SubmitMeasuredPrice(context.Background(), test.actor, orderID, mustDecimal(t, test.price))

			assert.Equal(t, test.expError, err)
			if test.expError == nil {
				assert.Equal(t, domain.OrderStatusAwaitingCommission, order.Status)
				assert.Equal(t, 0, order.MeasuredPrice.Cmp(mustDecimal(t, 900)))
				// Commission is recomputed from the measured price.
				assert.Equal(t, 0, order.Commission.Cmp(mustDecimal(t, 90)))
			}
		})
	}
}

func TestService_PayCommission(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	logger, _ := zap.NewProduction()

	orderID := uuid.New()
	masterActor := domain.Actor{UserID: 2, Role: domain.RoleMaster}

	type payTest struct {
		name             string
		actor            domain.Actor
		masterBalance    float64
		orderStatus      domain.OrderStatus
		measuredPrice    float64
		expError         error
		expMasterBalance float64
		expMediatorBal   float64
	}

	tests := []payTest{
		{
			name:             "Pay good",
			actor:            masterActor,
			masterBalance:    200,
			orderStatus:      domain.OrderStatusAwaitingCommission,
			measuredPrice:    900,
			expError:         nil,
			expMasterBalance: 110,
			expMediatorBal:   55, // 10 + 45
		},
		{
			name:             "Pay insufficient balance",
			actor:            masterActor,
			masterBalance:    50,
			orderStatus:      domain.OrderStatusAwaitingCommission,
			measuredPrice:    900,
			expError:         domain.ErrInsufficientBalance,
			expMasterBalance: 50,
			expMediatorBal:   10,
		},
		{
			name:             "Pay before measurement",
			actor:            masterActor,
			masterBalance:    200,
			orderStatus:      domain.OrderStatusAwaitingMeasurement,
			measuredPrice:    0,
			expError:         domain.ErrInvalidTransition,
			expMasterBalance: 200,
			expMediatorBal:   10,
		},
		{
			name:          "Pay by wrong master",
			actor:         domain.Actor{UserID: 9, Role: domain.RoleMaster},
			masterBalance: 200,
			orderStatus:   domain.OrderStatusAwaitingCommission,
			measuredPrice: 900,
			expError:      domain.ErrForbidden,
		},
		{
			name:          "Pay by mediator",
			actor:         domain.Actor{UserID: 1, Role: domain.RoleIntermediary},
			masterBalance: 200,
			orderStatus:   domain.OrderStatusAwaitingCommission,
			measuredPrice: 900,
			expError:      domain.ErrForbidden,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			repo := mock.NewMockRepository(mockCtrl)
			ts := mock.NewMockTokenService(mockCtrl)
			notifier := mock.NewMockNotifier(mockCtrl)

			order := domain.Order{
				ID:         orderID,
				MasterID:   masterActor.UserID,
				MediatorID: 1,
				Status:     test.orderStatus,
			}
			if test.measuredPrice > 0 {
				order.MeasuredPrice = mustDecimal(t, test.measuredPrice)
				order.Commission = mustDecimal(t, test.measuredPrice*0.1)
			}
			master := domain.User{ID: masterActor.UserID, Balance: mustDecimal(t, test.masterBalance)}
			mediator := domain.User{ID: 1, Balance: mustDecimal(t, 10)}

			repo.EXPECT().ReadOrder(gomock.Any(), orderID).Return(&order, nil)
			if test.expError != domain.ErrForbidden {
				repo.EXPECT().CompleteOrderWithTransfer(gomock.Any(), orderID, gomock.Any()).DoAndReturn(
					func(_ context.Context, _ uuid.UUID, fn port.TransferFn) (*domain.Order, error) {
						// Mirror the repository: a failing fn rolls the
						// whole transfer back.
						o, m, med := order, master, mediator
						if err := fn(&o, &m, &med); err != nil {
							return nil, err
						}
						order, master, mediator = o, m, med
						return &order, nil
					})
			}

			s, err := service.NewService(repo, ts, notifier, logger)
			assert.NoError(t, err)

			completed, err := s.PayCommission(context.Background(), test.actor, orderID)

			assert.Equal(t, test.expError, err)
			if test.expError == nil {
				assert.Equal(t, domain.OrderStatusCompleted, completed.Status)
			} else {
				assert.Equal(t, test.orderStatus, order.Status)
			}
			if test.expError == nil || test.expError == domain.ErrInsufficientBalance ||
				test.expError == domain.ErrInvalidTransition {
				assert.Equal(t, 0, master.Balance.Cmp(mustDecimal(t, test.expMasterBalance)))
				assert.Equal(t, 0, mediator.Balance.Cmp(mustDecimal(t, test.expMediatorBal)))
			}
		})
	}
}

func TestService_CancelOrder(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	logger, _ := zap.NewProduction()

	orderID := uuid.New()
	mediatorActor := domain.Actor{UserID: 1, Role: domain.RoleIntermediary}

	awaiting := domain.Order{
		ID:         orderID,
		MasterID:   2,
		MediatorID: mediatorActor.UserID,
		Status:     domain.OrderStatusAwaitingMeasurement,
	}

	type cancelTest struct {
		name     string
		actor    domain.Actor
		mock     prepareMocks
		expError error
	}

	tests := []cancelTest{
		{
			name:  "Cancel good",
			actor: mediatorActor,
			mock: func(repo *mock.MockRepository, notifier *mock.MockNotifier) {
				repo.EXPECT().ReadOrder(gomock.Any(), orderID).Return(&awaiting, nil)
				cancelled := awaiting
				cancelled.Status = domain.OrderStatusCancelled
				repo.EXPECT().CancelOrderAssignment(gomock.Any(), orderID).Return(&cancelled, nil)
			},
			expError: nil,
		},
		{
			name:  "Cancel by master",
			actor: domain.Actor{UserID: 2, Role: domain.RoleMaster},
			mock: func(repo *mock.MockRepository, notifier *mock.MockNotifier) {
				repo.EXPECT().ReadOrder(gomock.Any(), orderID).Return(&awaiting, nil)
			},
			expError: domain.ErrForbidden,
		},
		{
			name:  "Cancel by foreign mediator",
			actor: domain.Actor{UserID: 9, Role: domain.RoleIntermediary},
			mock: func(repo *mock.MockRepository, notifier *mock.MockNotifier) {
				repo.EXPECT().ReadOrder(gomock.Any(), orderID).Return(&awaiting, nil)
			},
			expError: domain.ErrForbidden,
		},
		{
			name:  "Cancel after measurement",
			actor: mediatorActor,
			mock: func(repo *mock.MockRepository, notifier *mock.MockNotifier) {
				measured := awaiting
				measured.Status = domain.OrderStatusAwaitingCommission
				repo.EXPECT().ReadOrder(gomock.Any(), orderID).Return(&measured, nil)
				repo.EXPECT().CancelOrderAssignment(gomock.Any(), orderID).
					Return(nil, domain.ErrInvalidTransition)
			},
			expError: domain.ErrInvalidTransition,
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

			order, err := s.CancelOrder(context.Background(), test.actor, orderID)

			assert.Equal(t, test.expError, err)
			if test.expError == nil {
				assert.Equal(t, domain.OrderStatusCancelled, order.Status)
			}
		})
	}
}

func TestService_ListOrders(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	logger, _ := zap.NewProduction()

	orders := []*domain.Order{{ID: uuid.New()}}

	tests := []struct {
		name     string
		actor    domain.Actor
		mock     prepareMocks
		expError error
	}{
		{
			name:  "Master sees own orders",
			actor: domain.Actor{UserID: 2, Role: domain.RoleMaster},
			mock: func(repo *mock.MockRepository, notifier *mock.MockNotifier) {
				repo.EXPECT().ListOrdersByMaster(gomock.Any(), uint64(2)).Return(orders, nil)
			},
		},
		{
			name:  "Mediator sees own orders",
			actor: domain.Actor{UserID: 1, Role: domain.RoleIntermediary},
			mock: func(repo *mock.MockRepository, notifier *mock.MockNotifier) {
				repo.EXPECT().ListOrdersByMediator(gomock.Any(), uint64(1)).Return(orders, nil)
			},
		},
		{
			name:  "Admin sees everything",
			actor: domain.Actor{UserID: 3, Role: domain.RoleAdmin},
			mock: func(repo *mock.MockRepository, notifier *mock.MockNotifier) {
				repo.EXPECT().ListOrders(gomock.Any()).Return(orders, nil)
			},
		},
		{
			name:     "Unknown role",
			actor:    domain.Actor{UserID: 4, Role: "GUEST"},
			mock:     func(repo *mock.MockRepository, notifier *mock.MockNotifier) {},
			expError: domain.ErrForbidden,
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

			list, err := s.ListOrders(context.Background(), test.actor)

			assert.Equal(t, test.expError, err)
			if test.expError == nil {
				assert.Equal(t, orders, list)
			}
		})
	}
}
