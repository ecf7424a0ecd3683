package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gochat/dao"
	"gochat/pkg/auth"
	"gochat/pkg/httpx"
	"gochat/pkg/logger"
	"gochat/pkg/middleware"
	"gochat/service"
)

// HTTPHandler REST接口处理器
type HTTPHandler struct {
	svc       *service.Service
	authn     *auth.Authenticator
	cookieTTL int
	log       logger.Logger
}

// NewHTTPHandler 创建HTTP处理器，cookieTTL是token cookie的
// 存活秒数。
func NewHTTPHandler(svc *service.Service, authn *auth.Authenticator, cookieTTL int, log logger.Logger) *HTTPHandler {
	return &HTTPHandler{
		svc:       svc,
		authn:     authn,
		cookieTTL: cookieTTL,
		log:       log,
	}
}

// RegisterRoutes 注册HTTP路由，authMW保护需要登录的接口
func (h *HTTPHandler) RegisterRoutes(r *gin.Engine, authMW gin.HandlerFunc) {
	api := r.Group("/api/v1")
	{
		api.POST("/auth/register", h.Register)
		api.POST("/auth/login", h.Login)
		api.POST("/auth/logout", h.Logout)

		protected := api.Group("", authMW)
		{
			protected.GET("/people", h.People)
			protected.GET("/messages/:userId", h.Messages)
		}
	}
}

// credentials 注册与登录共用的请求体
type credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register 注册新用户并立即置登录态
func (h *HTTPHandler) Register(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := h.svc.Register(c.Request.Context(), req.Username, req.Password)
	if errors.Is(err, dao.ErrUserExists) {
		httpx.Error(c, http.StatusConflict, "user already exists")
		return
	}
	if err != nil {
		h.log.Error(c.Request.Context(), "Register failed", logger.F("error", err.Error()))
		httpx.Error(c, http.StatusInternalServerError, "registration failed")
		return
	}

	if !h.issueToken(c, user.ID.Hex(), user.Username) {
		return
	}
	httpx.Created(c, gin.H{"id": user.ID.Hex(), "username": user.Username})
}

// Login 登录
func (h *HTTPHandler) Login(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		httpx.Error(c, http.StatusUnauthorized, "invalid username or password")
		return
	}
	if err != nil {
		h.log.Error(c.Request.Context(), "Login failed", logger.F("error", err.Error()))
		httpx.Error(c, http.StatusInternalServerError, "login failed")
		return
	}

	if !h.issueToken(c, user.ID.Hex(), user.Username) {
		return
	}
	httpx.OK(c, gin.H{"id": user.ID.Hex(), "username": user.Username})
}

// Logout 清除登录态cookie
func (h *HTTPHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", false, true)
	httpx.OK(c, gin.H{"message": "ok"})
}

// People 全部用户的{id, username}名单
func (h *HTTPHandler) People(c *gin.Context) {
	users, err := h.svc.ListPeople(c.Request.Context())
	if err != nil {
		h.log.Error(c.Request.Context(), "List people failed", logger.F("error", err.Error()))
		httpx.Error(c, http.StatusInternalServerError, "failed to list users")
		return
	}

	people := make([]gin.H, 0, len(users))
	for _, u := range users {
		people = append(people, gin.H{"id": u.ID.Hex(), "username": u.Username})
	}
	httpx.OK(c, people)
}

// Messages 当前用户与:userId之间双向的历史消息
func (h *HTTPHandler) Messages(c *gin.Context) {
	ourID := c.GetString("userID")
	otherID := c.Param("userId")
	if otherID == "" {
		httpx.Error(c, http.StatusBadRequest, "userId is required")
		return
	}

	messages, err := h.svc.Conversation(c.Request.Context(), ourID, otherID)
	if err != nil {
		h.log.Error(c.Request.Context(), "Fetch conversation failed", logger.F("error", err.Error()))
		httpx.Error(c, http.StatusInternalServerError, "failed to fetch messages")
		return
	}
	httpx.OK(c, messages)
}

// issueToken 签发token并写入cookie，失败时直接回错误响应
func (h *HTTPHandler) issueToken(c *gin.Context, userID, username string) bool {
	token, err := h.authn.Sign(userID, username)
	if err != nil {
		h.log.Error(c.Request.Context(), "Token signing failed", logger.F("error", err.Error()))
		httpx.Error(c, http.StatusInternalServerError, "failed to issue token")
		return false
	}
	c.SetCookie(middleware.TokenCookie, token, h.cookieTTL, "/", "", false, true)
	return true
}
