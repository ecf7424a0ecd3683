package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Conn 一条连接的传输端。gorilla的*websocket.Conn实现了该接口；
// 测试里用内存实现替代。
type Conn interface {
	WriteJSON(v interface{}) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	Close() error
}

// Client 一条在线连接及其绑定的身份。身份字段在握手校验通过后
// 立即绑定一次，之后不再改变；注册表拥有Client的生命周期。
type Client struct {
	ID       string
	UserID   string
	Username string

	conn Conn

	mu    sync.Mutex
	alive bool

	pong      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewClient 为一条新接受的传输连接创建Client
func NewClient(conn Conn) *Client {
	return &Client{
		ID:    uuid.NewString(),
		conn:  conn,
		alive: true,
		pong:  make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

// Bind 绑定已验证的身份。只在连接建立后、上线广播前调用一次。
func (c *Client) Bind(userID, username string) {
	c.UserID = userID
	c.Username = username
}

// Bound 是否已绑定身份。未绑定的连接参与注册表与心跳，
// 但不出现在在线名单里，也不能收发消息。
func (c *Client) Bound() bool {
	return c.UserID != ""
}

// IsAlive 连接是否仍被视为存活
func (c *Client) IsAlive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.alive
}

func (c *Client) setAlive(alive bool) {
	c.mu.Lock()
	c.alive = alive
	c.mu.Unlock()
}

// SendJSON 向对端写一个应用帧。同一连接上的写入串行化，
// 名单广播与消息投递不会交错损坏帧。
func (c *Client) SendJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// Ping 发送一个存活探测帧
func (c *Client) Ping(deadline time.Time) error {
	return c.conn.WriteControl(websocket.PingMessage, nil, deadline)
}

// Pong 由读循环在收到pong帧时调用，唤醒等待中的心跳探测
func (c *Client) Pong() {
	select {
	case c.pong <- struct{}{}:
	default:
	}
}

// Close 关闭传输并通知心跳循环退出。可重复调用。
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// Done 连接关闭信号
func (c *Client) Done() <-chan struct{} {
	return c.done
}
