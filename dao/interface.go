package dao

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gochat/model"
)

var (
	// ErrUserNotFound 用户不存在
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists 用户名已被占用
	ErrUserExists = errors.New("user already exists")
)

// UserDAO 用户数据访问接口
type UserDAO interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
}

// MessageDAO 消息数据访问接口。消息只追加，不更新不删除。
type MessageDAO interface {
	SaveMessage(ctx context.Context, message *model.Message) (primitive.ObjectID, error)
	GetConversation(ctx context.Context, userA, userB string) ([]*model.Message, error)
}
