package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"gochat/model"
	"gochat/pkg/auth"
	"gochat/pkg/logger"
	"gochat/pkg/middleware"
	"gochat/service"
)

// WSHandler WebSocket连接处理器
type WSHandler struct {
	svc      *service.Service
	authn    *auth.Authenticator
	log      logger.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler 创建WebSocket处理器。origin是放行的前端来源，
// 与CORS配置保持一致。
func NewWSHandler(svc *service.Service, authn *auth.Authenticator, origin string, log logger.Logger) *WSHandler {
	return &WSHandler{
		svc:   svc,
		authn: authn,
		log:   log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				o := r.Header.Get("Origin")
				return o == "" || o == origin
			},
		},
	}
}

// RegisterRoutes 注册WebSocket路由
func (h *WSHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/ws", h.HandleConnection)
}

// HandleConnection 处理一次WebSocket握手及其后整个连接生命周期。
// token随握手请求带来（cookie或Authorization头）；校验失败时连接
// 保持匿名而不是中断——匿名连接照常参与注册表和心跳，只是不能
// 收发消息、也不出现在在线名单里。
func (h *WSHandler) HandleConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error(c.Request.Context(), "WebSocket upgrade failed",
			logger.F("error", err.Error()))
		return
	}

	client := service.NewClient(conn)

	if token := middleware.ExtractToken(c); token != "" {
		claims, err := h.authn.Verify(token)
		if err != nil {
			h.log.Warn(c.Request.Context(), "Token verification failed, connection stays anonymous",
				logger.F("connID", client.ID),
				logger.F("error", err.Error()))
		} else {
			client.Bind(claims.UserID, claims.Username)
		}
	}

	conn.SetPongHandler(func(string) error {
		client.Pong()
		return nil
	})

	h.svc.Admit(client)
	defer h.svc.Evict(client)

	h.readLoop(client, conn)
}

// readLoop 连接的读循环。畸形帧只丢弃不断开；中继失败（包括
// 持久化失败）以错误帧反馈给发送方，其他连接不受影响。
func (h *WSHandler) readLoop(client *service.Client, conn *websocket.Conn) {
	ctx := context.Background()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var ev model.ChatEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			h.log.Warn(ctx, "Dropping malformed frame",
				logger.F("connID", client.ID),
				logger.F("error", err.Error()))
			continue
		}

		if err := h.svc.HandleInbound(ctx, client, &ev); err != nil {
			h.log.Warn(ctx, "Inbound message rejected",
				logger.F("connID", client.ID),
				logger.F("userID", client.UserID),
				logger.F("error", err.Error()))
			if sendErr := client.SendJSON(&model.ErrorFrame{Error: err.Error()}); sendErr != nil {
				return
			}
		}
	}
}
