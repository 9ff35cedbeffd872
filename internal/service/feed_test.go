package service

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crowdfund/internal/models"
)

func dialFeed(t *testing.T, feed *FeedService, fundraiserID uint) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		feed.Serve(conn, fundraiserID)
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) models.Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg models.Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestFeedDeliversToFundraiserSubscribers(t *testing.T) {
	feed := NewFeedService()
	watcher := dialFeed(t, feed, 1)
	other := dialFeed(t, feed, 2)

	join := readMessage(t, watcher)
	assert.Equal(t, models.MessageTypeSystem, join.Type)
	readMessage(t, other)

	feed.Publish(models.NewPledgeMessage(models.Pledge{ID: 9, Amount: 30, FundraiserID: 1, Comment: "hidden", IsHiddenByOwner: true}, 5))

	msg := readMessage(t, watcher)
	assert.Equal(t, models.MessageTypePledgeCreated, msg.Type)
	require.NotNil(t, msg.Pledge)
	assert.Equal(t, uint(9), msg.Pledge.ID)
	assert.Empty(t, msg.Pledge.Comment, "hidden comments stay hidden on the public feed")

	// the other fundraiser's subscriber gets nothing
	require.NoError(t, other.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err := other.ReadMessage()
	assert.Error(t, err)
}

func TestFeedForgetsClosedSubscribers(t *testing.T) {
	feed := NewFeedService()
	conn := dialFeed(t, feed, 3)
	readMessage(t, conn)
	assert.Equal(t, 1, feed.Subscribers(3))

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return feed.Subscribers(3) == 0 }, 2*time.Second, 10*time.Millisecond)
}
