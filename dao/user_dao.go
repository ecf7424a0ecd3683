package dao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"gochat/model"
	"gochat/pkg/database"
)

// userDAO 用户数据访问对象
type userDAO struct {
	db *database.MongoDB
}

// NewUserDAO 创建用户DAO实例
func NewUserDAO(db *database.MongoDB) UserDAO {
	return &userDAO{db: db}
}

// CreateUser 创建用户，用户名已存在时返回ErrUserExists
func (d *userDAO) CreateUser(ctx context.Context, user *model.User) error {
	collection := d.db.GetCollection("users")

	count, err := collection.CountDocuments(ctx, bson.M{"username": user.Username})
	if err != nil {
		return fmt.Errorf("check username: %w", err)
	}
	if count > 0 {
		return ErrUserExists
	}

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	result, err := collection.InsertOne(ctx, user)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return nil
}

// GetUserByUsername 根据用户名获取用户
func (d *userDAO) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	collection := d.db.GetCollection("users")

	var user model.User
	err := collection.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return &user, nil
}

// ListUsers 列出全部用户，供联系人名单接口使用
func (d *userDAO) ListUsers(ctx context.Context) ([]*model.User, error) {
	collection := d.db.GetCollection("users")

	cursor, err := collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []*model.User
	for cursor.Next(ctx) {
		var user model.User
		if err := cursor.Decode(&user); err != nil {
			continue
		}
		users = append(users, &user)
	}
	return users, cursor.Err()
}
