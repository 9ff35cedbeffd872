package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"crowdfund/internal/service"
	"crowdfund/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool { return true },
}

// LiveHandler upgrades GET /fundraisers/:id/live/ to a websocket that
// receives the fundraiser's pledge events.
type LiveHandler struct {
	fundraiserService *service.FundraiserService
	feed              *service.FeedService
}

func NewLiveHandler(fundraiserService *service.FundraiserService, feed *service.FeedService) *LiveHandler {
	return &LiveHandler{fundraiserService: fundraiserService, feed: feed}
}

func (h *LiveHandler) Subscribe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if _, err := h.fundraiserService.GetFundraiser(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the error response.
		logger.WithCtx(c.Request.Context()).Warn("websocket upgrade failed", "error", err)
		return
	}

	h.feed.Serve(conn, id)
}
