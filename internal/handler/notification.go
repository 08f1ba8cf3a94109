package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"obradoc/internal/middleware"
	"obradoc/internal/model"
	"obradoc/internal/notify"
	"obradoc/internal/service"
)

var streamUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// NotificationHandler exposes the notification inbox and the live stream.
type NotificationHandler struct {
	notifications *service.NotificationService
	hub           *notify.Hub
}

func NewNotificationHandler(notifications *service.NotificationService, hub *notify.Hub) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, hub: hub}
}

// List returns the caller's notifications, newest first
// @Router /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	notifications, err := h.notifications.List(c.Request.Context(), middleware.Session(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", notifications))
}

// MarkRead flags one notification as read
// @Router /notifications/:id/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.notifications.MarkRead(c.Request.Context(), middleware.Session(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("Notification read", nil))
}

// UnreadCount returns the caller's unread count
// @Router /notifications/unread [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.notifications.CountUnread(c.Request.Context(), middleware.Session(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.NewSuccessResponse("", gin.H{"unread": count}))
}

// Stream upgrades to a websocket that receives the caller's notifications as
// they are delivered. The read loop only watches for the client going away.
// @Router /notifications/stream [get]
func (h *NotificationHandler) Stream(c *gin.Context) {
	session := middleware.Session(c)
	if session == nil {
		c.JSON(http.StatusUnauthorized, model.NewErrorResponse("authentication required", ""))
		return
	}

	conn, err := streamUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[notifications] websocket upgrade failed: %v", err)
		return
	}

	h.hub.Register(session.UserID, conn)
	defer func() {
		h.hub.Unregister(session.UserID, conn)
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
