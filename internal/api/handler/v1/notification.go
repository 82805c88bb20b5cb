package v1

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/dskf/bookraffle-api/internal/api/handler/v1/response"
	"github.com/dskf/bookraffle-api/internal/domain"
	"github.com/dskf/bookraffle-api/internal/service"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Adjust this for production!
	},
}

type NotificationService interface {
	GetNotification(ctx context.Context, id uint) (domain.Notification, error)
	ListUserNotifications(ctx context.Context, userID uint) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id uint) error
	DeleteNotification(ctx context.Context, id uint) error
}

type Client struct {
	conn   *websocket.Conn
	send   chan []byte
	userID uint
}

// NotificationHandler serves stored notifications and pushes new ones
// over websocket connections. It implements service.StreamPublisher so
// the notification service can reach connected users.
type NotificationHandler struct {
	svc          NotificationService
	uSvc         UserService
	clients      map[uint]*Client
	clientsMutex sync.RWMutex
	register     chan *Client
	unregister   chan *Client
}

func NewNotificationHandler(svc NotificationService, uSvc UserService) *NotificationHandler {
	return &NotificationHandler{
		svc:        svc,
		uSvc:       uSvc,
		clients:    make(map[uint]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (h *NotificationHandler) Run() {
	for {
		select {
		case client := <-h.register:
			h.clientsMutex.Lock()
			if existing, ok := h.clients[client.userID]; ok {
				close(existing.send)
			}
			h.clients[client.userID] = client
			h.clientsMutex.Unlock()
		case client := <-h.unregister:
			h.clientsMutex.Lock()
			if current, ok := h.clients[client.userID]; ok && current == client {
				delete(h.clients, client.userID)
				close(client.send)
			}
			h.clientsMutex.Unlock()
		}
	}
}

// Publish pushes the notification to the user's live connection, if any.
func (h *NotificationHandler) Publish(userID uint, notification domain.Notification) {
	message, err := json.Marshal(notification)
	if err != nil {
		zap.L().Error("failed to marshal notification", zap.Error(err))
		return
	}

	// The lock stays held across the send. Run closes a replaced
	// client's channel under the write lock, so the channel cannot be
	// closed between the lookup and the send.
	h.clientsMutex.RLock()
	defer h.clientsMutex.RUnlock()

	client, ok := h.clients[userID]
	if !ok {
		return
	}

	select {
	case client.send <- message:
	default:
		// Slow consumer, drop the push. The notification is still stored.
	}
}

// HandleStream godoc
// @Summary      Establish a WebSocket connection for live notifications
// @Description  Pushes the authenticated user's notifications as they are created.
// @Tags         notifications
// @Produce      json
// @Success      101 {string} string "Switching Protocols to WebSocket"
// @Failure      401 {object}  response.Err
// @Failure      500 {object}  response.Err
// @Router       /notifications/stream [get]
// @Security     BearerAuth
func (h *NotificationHandler) HandleStream(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		zap.L().Error("failed to upgrade notification stream", zap.Error(err))
		return
	}

	client := &Client{
		conn:   conn,
		send:   make(chan []byte, 256),
		userID: user.ID,
	}
	h.register <- client

	go client.writePump()
	go client.readPump(h)
}

func (c *Client) writePump() {
	defer func() {
		c.conn.Close()
	}()
	for {
		message, ok := <-c.send
		if !ok {
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
		w, err := c.conn.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		w.Write(message)
		if err := w.Close(); err != nil {
			return
		}
	}
}

// readPump drains the connection so pings and close frames get
// processed. Clients do not send anything meaningful on this stream.
func (c *Client) readPump(h *NotificationHandler) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				zap.L().Warn("notification stream closed unexpectedly", zap.Error(err))
			}
			break
		}
	}
}

// HandleListNotifications godoc
// @Summary      List the authenticated user's notifications
// @Tags         notifications
// @Produce      json
// @Success      200      {array}    domain.Notification
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /notifications [get]
// @Security     BearerAuth
func (h *NotificationHandler) HandleListNotifications(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	notifications, err := h.svc.ListUserNotifications(ctx.Request.Context(), user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleListNotifications -> h.svc.ListUserNotifications -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, notifications)
}

// HandleGetNotification godoc
// @Summary      Get one of the authenticated user's notifications
// @Tags         notifications
// @Produce      json
// @Param        notificationID path int  true "notification ID"
// @Success      200      {object}   domain.Notification
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /notifications/{notificationID} [get]
// @Security     BearerAuth
func (h *NotificationHandler) HandleGetNotification(ctx *gin.Context) {
	notification, respErr := h.loadOwnNotification(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	ctx.JSON(http.StatusOK, notification)
}

// HandleListUserNotifications godoc
// @Summary      List a user's notifications
// @Tags         users,notifications
// @Produce      json
// @Param        userID   path       int  true "user ID"
// @Success      200      {array}    domain.Notification
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /users/{userID}/notifications [get]
// @Security     BearerAuth
func (h *NotificationHandler) HandleListUserNotifications(ctx *gin.Context) {
	userID, err := parseUintParam(ctx, "userID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	notifications, err := h.svc.ListUserNotifications(ctx.Request.Context(), userID)
	if err != nil {
		err = fmt.Errorf("v1.HandleListUserNotifications -> h.svc.ListUserNotifications -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, notifications)
}

// HandleMarkRead godoc
// @Summary      Mark a notification as read
// @Tags         notifications
// @Produce      json
// @Param        notificationID path int  true "notification ID"
// @Success      204
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /notifications/{notificationID}/read [post]
// @Security     BearerAuth
func (h *NotificationHandler) HandleMarkRead(ctx *gin.Context) {
	notification, respErr := h.loadOwnNotification(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.MarkRead(ctx.Request.Context(), notification.ID); err != nil {
		err = fmt.Errorf("v1.HandleMarkRead -> h.svc.MarkRead -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleDeleteNotification godoc
// @Summary      Delete a notification
// @Tags         notifications
// @Produce      json
// @Param        notificationID path int  true "notification ID"
// @Success      204
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /notifications/{notificationID} [delete]
// @Security     BearerAuth
func (h *NotificationHandler) HandleDeleteNotification(ctx *gin.Context) {
	notification, respErr := h.loadOwnNotification(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.DeleteNotification(ctx.Request.Context(), notification.ID); err != nil {
		err = fmt.Errorf("v1.HandleDeleteNotification -> h.svc.DeleteNotification -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (h *NotificationHandler) loadOwnNotification(ctx *gin.Context) (domain.Notification, *response.Err) {
	notificationID, err := parseUintParam(ctx, "notificationID")
	if err != nil {
		return domain.Notification{}, response.ErrBadRequest(err)
	}

	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		return domain.Notification{}, respErr
	}

	notification, err := h.svc.GetNotification(ctx.Request.Context(), notificationID)
	if err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			return domain.Notification{}, response.ErrNotFound("notification", "ID", notificationID)
		}

		err = fmt.Errorf("v1.loadOwnNotification -> h.svc.GetNotification -> %w", err)
		return domain.Notification{}, response.ErrInternalServerError(err)
	}

	if notification.UserID != user.ID {
		return domain.Notification{}, response.ErrPermissionDenied(errors.New("notification belongs to another user"))
	}

	return notification, nil
}
