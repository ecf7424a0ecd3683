package service

import (
	"context"
	"time"

	"gochat/dao"
	"gochat/model"
	"gochat/pkg/filestore"
	"gochat/pkg/logger"
)

// Options 核心行为的可调参数
type Options struct {
	// ProbeInterval 心跳探测周期
	ProbeInterval time.Duration
	// ProbeTimeout 等待pong的期限
	ProbeTimeout time.Duration
	// BcryptCost 密码散列强度
	BcryptCost int
}

// Service 聊天核心：连接注册表、心跳监视、在线名单广播与消息
// 中继，外加账号与历史的无状态包装。
type Service struct {
	registry *Registry
	presence *Broadcaster
	relay    *Relay
	monitor  *Monitor

	users    dao.UserDAO
	messages dao.MessageDAO
	files    *filestore.Store

	bcryptCost int
	log        logger.Logger
}

// NewService 创建聊天服务
func NewService(users dao.UserDAO, messages dao.MessageDAO, files *filestore.Store, opts Options, log logger.Logger) *Service {
	if opts.ProbeInterval <= 0 {
		opts.ProbeInterval = 5 * time.Second
	}
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = time.Second
	}

	registry := NewRegistry()
	s := &Service{
		registry:   registry,
		presence:   NewBroadcaster(registry, log),
		relay:      NewRelay(registry, messages, files, log),
		users:      users,
		messages:   messages,
		files:      files,
		bcryptCost: opts.BcryptCost,
		log:        log,
	}
	s.monitor = NewMonitor(opts.ProbeInterval, opts.ProbeTimeout, s.Evict, log)
	return s
}

// Admit 接纳一条新连接：入表、启动心跳循环、广播在线名单
func (s *Service) Admit(c *Client) {
	s.registry.Add(c)
	go s.monitor.Watch(c)

	s.log.Info(context.Background(), "Connection admitted",
		logger.F("connID", c.ID),
		logger.F("userID", c.UserID),
		logger.F("online", s.registry.Len()))

	s.presence.Broadcast()
}

// Evict 关闭传输并把连接移出注册表，随后广播在线名单。
// 幂等：已不在表内的连接不会触发第二次广播。
func (s *Service) Evict(c *Client) {
	c.Close()
	if !s.registry.Remove(c.ID) {
		return
	}

	s.log.Info(context.Background(), "Connection evicted",
		logger.F("connID", c.ID),
		logger.F("userID", c.UserID),
		logger.F("online", s.registry.Len()))

	s.presence.Broadcast()
}

// HandleInbound 中继一条入站消息
func (s *Service) HandleInbound(ctx context.Context, sender *Client, ev *model.ChatEvent) error {
	return s.relay.HandleInbound(ctx, sender, ev)
}

// Registry 暴露注册表，供握手处理器查询
func (s *Service) Registry() *Registry {
	return s.registry
}
