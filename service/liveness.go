package service

import (
	"context"
	"time"

	"gochat/pkg/logger"
)

// Monitor 心跳监视器。每个连接一条探测循环：周期性发出ping，
// 在期限内等pong；期限内无响应即判死并驱逐。探测周期与响应
// 期限分开配置，单次网络抖动不足以触发驱逐。
type Monitor struct {
	interval time.Duration
	timeout  time.Duration
	evict    func(*Client)
	log      logger.Logger
}

// NewMonitor 创建心跳监视器，evict是判死后的驱逐动作
func NewMonitor(interval, timeout time.Duration, evict func(*Client), log logger.Logger) *Monitor {
	return &Monitor{
		interval: interval,
		timeout:  timeout,
		evict:    evict,
		log:      log,
	}
}

// Watch 为一条连接运行探测循环，阻塞到连接关闭或判死为止。
// 判死是终态：传输被关闭、连接被驱逐，客户端只能重新握手。
func (m *Monitor) Watch(c *Client) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.Done():
			return
		case <-ticker.C:
			// 丢掉上个周期迟到的pong，本次探测只认新的响应
			select {
			case <-c.pong:
			default:
			}

			if err := c.Ping(time.Now().Add(m.timeout)); err != nil {
				m.dead(c, err)
				return
			}

			deadline := time.NewTimer(m.timeout)
			select {
			case <-c.pong:
				deadline.Stop()
			case <-c.Done():
				deadline.Stop()
				return
			case <-deadline.C:
				m.dead(c, nil)
				return
			}
		}
	}
}

// dead 终态转移：标记死亡、关闭传输、移出注册表
func (m *Monitor) dead(c *Client, err error) {
	c.setAlive(false)

	fields := []logger.Field{
		logger.F("connID", c.ID),
		logger.F("userID", c.UserID),
	}
	if err != nil {
		fields = append(fields, logger.F("error", err.Error()))
	}
	m.log.Info(context.Background(), "Connection failed liveness probe, evicting", fields...)

	m.evict(c)
}
