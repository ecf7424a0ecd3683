package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"gochat/dao"
	"gochat/model"
)

var (
	// ErrInvalidCredentials 用户名或密码不正确
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrMissingCredentials 请求缺少用户名或密码
	ErrMissingCredentials = errors.New("username and password are required")
)

// Register 注册新用户，密码以bcrypt散列存储
func (s *Service) Register(ctx context.Context, username, password string) (*model.User, error) {
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	cost := s.bcryptCost
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username: username,
		Password: string(hashed),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login 校验用户名密码。用户不存在与密码不符返回同一个错误，
// 不向调用方泄露账号是否存在。
func (s *Service) Login(ctx context.Context, username, password string) (*model.User, error) {
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if errors.Is(err, dao.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// ListPeople 列出全部用户
func (s *Service) ListPeople(ctx context.Context) ([]*model.User, error) {
	return s.users.ListUsers(ctx)
}

// Conversation 返回两个用户之间的历史消息，按时间升序
func (s *Service) Conversation(ctx context.Context, userA, userB string) ([]*model.Message, error) {
	return s.messages.GetConversation(ctx, userA, userB)
}
