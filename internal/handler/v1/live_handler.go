package v1

import (
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/odyssey/internal/service"
)

const (
	liveWriteTimeout = 10 * time.Second
	// One pointer event is well under this.
	liveReadLimit = 4 << 10
)

// LiveHandler streams pointer events from a browser straight into a
// server-side pain-area widget over a websocket.
type LiveHandler struct {
	svc         *service.PTService
	log         *zap.Logger
	idleTimeout time.Duration
	upgrader    websocket.Upgrader
}

func NewLiveHandler(svc *service.PTService, idleTimeout time.Duration, allowedOrigins []string, log *zap.Logger) *LiveHandler {
	anyOrigin := slices.Contains(allowedOrigins, "*")
	return &LiveHandler{
		svc:         svc,
		log:         log,
		idleTimeout: idleTimeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || anyOrigin || slices.Contains(allowedOrigins, origin)
			},
		},
	}
}

func (h *LiveHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/clients/:id/pt-history/live", h.Serve)
}

func (h *LiveHandler) Serve(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	// Open before upgrading so an unknown client still gets a plain 404.
	sess, err := h.svc.OpenLiveSession(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	defer sess.Close()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(liveReadLimit)

	log := h.log.With(zap.String("client_id", id.String()))
	ctx := c.Request.Context()
	for {
		_ = conn.SetReadDeadline(time.Now().Add(h.idleTimeout))

		var ev service.LiveEvent
		if err := conn.ReadJSON(&ev); err != nil {
			var closeErr *websocket.CloseError
			if !errors.As(err, &closeErr) {
				log.Debug("live session ended", zap.Error(err))
			}
			return
		}

		reply := sess.Apply(ctx, ev)
		if reply == nil {
			continue
		}
		_ = conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout))
		if err := conn.WriteJSON(reply); err != nil {
			log.Debug("live reply failed", zap.Error(err))
			return
		}
	}
}
