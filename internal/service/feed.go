package service

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"crowdfund/internal/metrics"
	"crowdfund/internal/models"
	"crowdfund/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 512
	sendBuffer     = 64
)

// Subscriber is one websocket connection following a fundraiser.
type Subscriber struct {
	Conn         *websocket.Conn
	FundraiserID uint

	send chan models.Message
	done chan struct{}
	once sync.Once
}

func (s *Subscriber) stop() {
	s.once.Do(func() { close(s.done) })
}

// FeedService fans pledge events out to the subscribers of each fundraiser.
type FeedService struct {
	subscribers map[uint]map[*Subscriber]bool // fundraiserID -> subscriber set
	mu          sync.RWMutex
}

func NewFeedService() *FeedService {
	return &FeedService{
		subscribers: make(map[uint]map[*Subscriber]bool),
	}
}

// Serve registers conn as a subscriber of fundraiserID and blocks until the
// connection closes. Every subscriber gets the same public rendering, so the
// connection is not tied to a user.
func (s *FeedService) Serve(conn *websocket.Conn, fundraiserID uint) {
	sub := &Subscriber{
		Conn:         conn,
		FundraiserID: fundraiserID,
		send:         make(chan models.Message, sendBuffer),
		done:         make(chan struct{}),
	}

	s.add(sub)
	defer func() {
		s.remove(sub)
		sub.stop()
		conn.Close()
	}()

	go s.writePump(sub)
	s.readPump(sub)
}

// readPump only services control frames; subscribers do not publish.
func (s *FeedService) readPump(sub *Subscriber) {
	sub.Conn.SetReadLimit(maxMessageSize)
	sub.Conn.SetReadDeadline(time.Now().Add(pongWait))
	sub.Conn.SetPongHandler(func(string) error {
		sub.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := sub.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.L.Warn("feed connection closed unexpectedly", "fundraiser_id", sub.FundraiserID, "error", err)
			}
			return
		}
	}
}

func (s *FeedService) writePump(sub *Subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg := <-sub.send:
			payload, err := json.Marshal(msg)
			if err != nil {
				logger.L.Error("feed message encoding failed", "error", err)
				continue
			}
			sub.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sub.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				sub.Conn.Close()
				return
			}

		case <-ticker.C:
			sub.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sub.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				sub.Conn.Close()
				return
			}

		case <-sub.done:
			sub.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			sub.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			sub.Conn.Close()
			return
		}
	}
}

// Publish delivers msg to every subscriber of msg.FundraiserID. A subscriber
// whose queue is full is disconnected.
func (s *FeedService) Publish(msg models.Message) {
	s.mu.RLock()
	targets := make([]*Subscriber, 0, len(s.subscribers[msg.FundraiserID]))
	for sub := range s.subscribers[msg.FundraiserID] {
		targets = append(targets, sub)
	}
	s.mu.RUnlock()

	for _, sub := range targets {
		select {
		case sub.send <- msg:
		default:
			s.remove(sub)
			sub.stop()
		}
	}
}

func (s *FeedService) BroadcastSystemMessage(fundraiserID uint, content string) {
	s.Publish(models.NewSystemMessage(fundraiserID, content))
}

func (s *FeedService) add(sub *Subscriber) {
	s.mu.Lock()
	if s.subscribers[sub.FundraiserID] == nil {
		s.subscribers[sub.FundraiserID] = make(map[*Subscriber]bool)
	}
	s.subscribers[sub.FundraiserID][sub] = true
	s.mu.Unlock()

	metrics.FeedSubscribers.Inc()
	s.BroadcastSystemMessage(sub.FundraiserID, fmt.Sprintf("%d watching", s.Subscribers(sub.FundraiserID)))
}

func (s *FeedService) remove(sub *Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()

	subs, ok := s.subscribers[sub.FundraiserID]
	if !ok || !subs[sub] {
		return
	}
	delete(subs, sub)
	if len(subs) == 0 {
		delete(s.subscribers, sub.FundraiserID)
	}
	metrics.FeedSubscribers.Dec()
}

// Subscribers returns how many connections follow fundraiserID.
func (s *FeedService) Subscribers(fundraiserID uint) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subscribers[fundraiserID])
}
