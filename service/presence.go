package service

import (
	"context"

	"gochat/model"
	"gochat/pkg/logger"
)

// Broadcaster 在线名单广播器。注册表每次成员变化都触发一次
// 广播；对单个对端发送失败不影响其余对端。
type Broadcaster struct {
	registry *Registry
	log      logger.Logger
}

// NewBroadcaster 创建广播器
func NewBroadcaster(registry *Registry, log logger.Logger) *Broadcaster {
	return &Broadcaster{
		registry: registry,
		log:      log,
	}
}

// Broadcast 对注册表做快照，把绑定了身份的连接投影成在线名单，
// 推送给快照内的每条连接。未绑定的连接不出现在名单里，但同样
// 收到推送。
func (b *Broadcaster) Broadcast() {
	clients := b.registry.Snapshot()

	online := make([]model.OnlineUser, 0, len(clients))
	for _, c := range clients {
		if c.Bound() {
			online = append(online, model.OnlineUser{
				UserID:   c.UserID,
				Username: c.Username,
			})
		}
	}

	push := &model.RosterPush{Online: online}
	for _, c := range clients {
		if err := c.SendJSON(push); err != nil {
			b.log.Warn(context.Background(), "Roster push failed",
				logger.F("connID", c.ID),
				logger.F("userID", c.UserID),
				logger.F("error", err.Error()))
		}
	}
}
