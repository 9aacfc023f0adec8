// Package notify delivers new-bid pushes to the announcement owner's
// registered subscriptions through a push gateway. Delivery is queued and
// handled by background workers; the bid write that triggered it never
// waits for, or learns about, the outcome.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/osenchenko/masterbid/internal/adapter/config"
	"github.com/osenchenko/masterbid/internal/core/domain"
	"github.com/osenchenko/masterbid/internal/core/port"
)

const queueSize = 64
const requestTimeout = 5 * time.Second

type newBidEvent struct {
	announcement *domain.Announcement
	bid          *domain.Bid
	bidder       *domain.User
}

type PushDispatcher struct {
	logger  *zap.Logger
	repo    port.Repository
	gateway string
	client  *http.Client
	queue   chan newBidEvent
}

func NewPushDispatcher(cfg *config.Push, repo port.Repository, log *zap.Logger) (*PushDispatcher, error) {
	return &PushDispatcher{
		logger:  log,
		repo:    repo,
		gateway: cfg.GatewayAddress,
		client:  &http.Client{Timeout: requestTimeout},
		queue:   make(chan newBidEvent, queueSize),
	}, nil
}

// NotifyNewBid enqueues the event. A full queue drops it: pushes are best
// effort and must never slow down or fail the bid write.
func (d *PushDispatcher) NotifyNewBid(announcement *domain.Announcement, bid *domain.Bid, bidder *domain.User) {
	select {
	case d.queue <- newBidEvent{announcement: announcement, bid: bid, bidder: bidder}:
	default:
		d.logger.Warn("push queue full, dropping event",
			zap.String("bid", bid.ID.String()))
	}
}

func (d *PushDispatcher) Run(ctx context.Context, workers int) {
	for i := 0; i < workers; i++ {
		go func() {
			for {
				select {
				case event := <-d.queue:
					d.deliver(ctx, event)
				case <-ctx.Done():
					d.logger.Debug("Finished push worker")
					return
				}
			}
		}()
	}
}

type pushMessage struct {
	Endpoint string      `json:"endpoint"`
	Auth     string      `json:"auth,omitempty"`
	P256DH   string      `json:"p256dh,omitempty"`
	Payload  pushPayload `json:"payload"`
}

type pushPayload struct {
	Title string   `json:"title"`
	Body  string   `json:"body"`
	Data  pushData `json:"data"`
}

type pushData struct {
	AnnouncementID string `json:"announcementId"`
	BidID          string `json:"bidId"`
}

func (d *PushDispatcher) deliver(ctx context.Context, event newBidEvent) {
	if d.gateway == "" {
		return
	}

	subs, err := d.repo.ListPushSubscriptionsByUser(ctx, event.announcement.UserID)
	if err != nil {
		d.logger.Error("List push subscriptions", zap.Error(err))
		return
	}

	payload := pushPayload{
		Title: "New bid",
		Body: fmt.Sprintf("%s %s offered %s for %q",
			event.bidder.FirstName, event.bidder.LastName,
			event.bid.Price, event.announcement.Title),
		Data: pushData{
			AnnouncementID: event.announcement.ID.String(),
			BidID:          event.bid.ID.String(),
		},
	}

	for _, sub := range subs {
		message := pushMessage{
			Endpoint: sub.Endpoint,
			Auth:     sub.Auth,
			P256DH:   sub.P256DH,
			Payload:  payload,
		}
		if err := d.send(ctx, message); err != nil {
			d.logger.Warn("push delivery failed",
				zap.String("endpoint", sub.Endpoint), zap.Error(err))
		}
	}
}

func (d *PushDispatcher) send(ctx context.Context, message pushMessage) error {
	body, err := json.Marshal(message)
	if err != nil {
		return err
	}

	requestStr := "http://" + d.gateway + "/push"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestStr, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("bad response %v from push gateway", resp.StatusCode)
	}
	return nil
}
