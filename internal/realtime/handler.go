package realtime

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"mediconnect/internal/domain"
	jwtsvc "mediconnect/internal/pkg/jwt"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect from a separate origin; access control happens
	// through the JWT, not the Origin header.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Handler struct {
	hub *Hub
	jwt *jwtsvc.Service
}

func NewHandler(hub *Hub, jwt *jwtsvc.Service) *Handler {
	return &Handler{hub: hub, jwt: jwt}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ws", h.HandleWebSocket)
}

// HandleWebSocket upgrades the request and hands the connection to the hub.
//
// Two ways to identify: `GET /ws?token=JWT` binds the connection before the
// first push, or the client sends {"type":"identify","recipientId":N,
// "role":"patient"} after connecting. Until one of those happens the
// connection receives nothing.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	var identified *domain.Recipient
	if token := c.Query("token"); token != "" {
		claims, err := h.jwt.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Invalid or expired token",
				},
			})
			return
		}
		identified = &domain.Recipient{ID: claims.RecipientID, Role: claims.Role}
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("realtime: websocket upgrade failed: %v", err)
		return
	}

	h.hub.ServeWS(conn, identified) // blocks until disconnect
}
