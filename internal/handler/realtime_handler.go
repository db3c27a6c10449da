package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
	"github.com/noah-isme/school-portal-api/pkg/realtime"
	"github.com/noah-isme/school-portal-api/pkg/response"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 512
)

type feedService interface {
	WatchAttendance(ctx context.Context, classID string, push func([]models.Attendance)) func()
	WatchEnrollments(ctx context.Context, classID string, push func([]models.EnrollmentDetail)) func()
}

// Snapshot is the frame pushed to websocket clients on every change.
type Snapshot[T any] struct {
	Topic   string    `json:"topic"`
	ClassID string    `json:"class_id"`
	Items   []T       `json:"items"`
	SentAt  time.Time `json:"sent_at"`
}

// RealtimeHandler streams live record sets over websockets.
type RealtimeHandler struct {
	feeds        feedService
	upgrader     websocket.Upgrader
	pingInterval time.Duration
	logger       *zap.Logger
}

// NewRealtimeHandler constructs RealtimeHandler. An origin list containing
// "*" or left empty accepts any origin.
func NewRealtimeHandler(feeds feedService, origins []string, pingInterval time.Duration, logger *zap.Logger) *RealtimeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	allowed := make(map[string]struct{}, len(origins))
	for _, origin := range origins {
		allowed[strings.TrimSpace(origin)] = struct{}{}
	}
	_, open := allowed["*"]
	return &RealtimeHandler{
		feeds:        feeds,
		pingInterval: pingInterval,
		logger:       logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || open || len(allowed) == 0 {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
	}
}

// Attendance godoc
// @Summary Live attendance feed for a class
// @Tags Realtime
// @Param classId query string true "Class ID"
// @Success 101
// @Router /ws/attendance [get]
func (h *RealtimeHandler) Attendance(c *gin.Context) {
	serveFeed(h, c, realtime.TopicAttendance, h.feeds.WatchAttendance)
}

// Enrollments godoc
// @Summary Live enrollment roster for a class
// @Tags Realtime
// @Param classId query string true "Class ID"
// @Success 101
// @Router /ws/enrollments [get]
func (h *RealtimeHandler) Enrollments(c *gin.Context) {
	serveFeed(h, c, realtime.TopicEnrollments, h.feeds.WatchEnrollments)
}

func serveFeed[T any](h *RealtimeHandler, c *gin.Context, topic string, watch func(ctx context.Context, classID string, push func([]T)) func()) {
	classID := strings.TrimSpace(c.Query("classId"))
	if classID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "classId is required"))
		return
	}
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", zap.String("topic", topic), zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// Only the newest snapshot matters; a slow client skips intermediate ones.
	latest := make(chan Snapshot[T], 1)
	unsubscribe := watch(ctx, classID, func(items []T) {
		frame := Snapshot[T]{Topic: topic, ClassID: classID, Items: items, SentAt: time.Now().UTC()}
		select {
		case <-latest:
		default:
		}
		select {
		case latest <- frame:
		default:
		}
	})
	defer unsubscribe()

	done := make(chan struct{})
	go func() {
		defer close(done)
		writeLoop(ctx, conn, latest, h.pingInterval)
		cancel()
		_ = conn.Close()
	}()

	h.readLoop(conn)
	cancel()
	<-done
	h.logger.Debug("websocket closed", zap.String("topic", topic), zap.String("class_id", classID))
}

// readLoop drains client frames so pongs and close messages are processed.
func (h *RealtimeHandler) readLoop(conn *websocket.Conn) {
	conn.SetReadLimit(maxMessageSize)
	pongWait := h.pingInterval * 2
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}

func writeLoop[T any](ctx context.Context, conn *websocket.Conn, latest <-chan Snapshot[T], pingInterval time.Duration) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		case frame := <-latest:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(frame); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
