package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gochat/dao"
	"gochat/model"
	"gochat/pkg/filestore"
	"gochat/pkg/logger"
)

var (
	// ErrNotAuthenticated 未绑定身份的连接不能发消息
	ErrNotAuthenticated = errors.New("connection is not authenticated")
	// ErrBadRecipient 缺少收件人
	ErrBadRecipient = errors.New("recipient is required")
	// ErrEmptyMessage 消息既没有正文也没有附件
	ErrEmptyMessage = errors.New("message needs text or a file")
)

// Relay 消息中继：先落盘附件、再持久化消息记录、最后尽力投递
// 给收件人当前打开的连接。收件人不在线不是错误，消息只靠持久化
// 等待之后的历史拉取。
type Relay struct {
	registry *Registry
	messages dao.MessageDAO
	files    *filestore.Store
	log      logger.Logger
}

// NewRelay 创建消息中继
func NewRelay(registry *Registry, messages dao.MessageDAO, files *filestore.Store, log logger.Logger) *Relay {
	return &Relay{
		registry: registry,
		messages: messages,
		files:    files,
		log:      log,
	}
}

// HandleInbound 处理一条入站消息。持久化在任何投递尝试之前完成；
// 附件又在消息记录之前落盘，记录里的文件引用不会悬空。
// 返回的错误只反馈给发送方，不影响其他连接。
func (r *Relay) HandleInbound(ctx context.Context, sender *Client, ev *model.ChatEvent) error {
	if !sender.Bound() {
		return ErrNotAuthenticated
	}
	if ev.Recipient == "" {
		return ErrBadRecipient
	}
	if ev.Text == "" && ev.File == nil {
		return ErrEmptyMessage
	}

	var filename string
	if ev.File != nil {
		var err error
		filename, err = r.files.Save(ev.File.Name, ev.File.Data)
		if err != nil {
			return fmt.Errorf("store attachment: %w", err)
		}
	}

	msg := &model.Message{
		Sender:    sender.UserID,
		Recipient: ev.Recipient,
		Text:      ev.Text,
		File:      filename,
		CreatedAt: time.Now().UTC(),
	}
	id, err := r.messages.SaveMessage(ctx, msg)
	if err != nil {
		return fmt.Errorf("persist message: %w", err)
	}

	delivery := &model.Delivery{
		ID:        id.Hex(),
		Text:      ev.Text,
		Sender:    sender.UserID,
		Recipient: ev.Recipient,
		File:      filename,
	}
	for _, c := range r.registry.FindByUser(ev.Recipient) {
		if err := c.SendJSON(delivery); err != nil {
			r.log.Warn(ctx, "Delivery failed",
				logger.F("messageID", delivery.ID),
				logger.F("connID", c.ID),
				logger.F("error", err.Error()))
		}
	}

	return nil
}
