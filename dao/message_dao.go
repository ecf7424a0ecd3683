package dao

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gochat/model"
	"gochat/pkg/database"
)

// messageDAO 消息数据访问对象
type messageDAO struct {
	db *database.MongoDB
}

// NewMessageDAO 创建消息DAO实例
func NewMessageDAO(db *database.MongoDB) MessageDAO {
	return &messageDAO{db: db}
}

// SaveMessage 保存消息并返回服务端分配的ID
func (d *messageDAO) SaveMessage(ctx context.Context, message *model.Message) (primitive.ObjectID, error) {
	collection := d.db.GetCollection("messages")

	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}

	result, err := collection.InsertOne(ctx, message)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert message: %w", err)
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id type %T", result.InsertedID)
	}
	message.ID = oid
	return oid, nil
}

// GetConversation 获取两个用户之间双向的全部消息，按创建时间升序
func (d *messageDAO) GetConversation(ctx context.Context, userA, userB string) ([]*model.Message, error) {
	collection := d.db.GetCollection("messages")

	pair := bson.A{userA, userB}
	filter := bson.M{
		"sender":    bson.M{"$in": pair},
		"recipient": bson.M{"$in": pair},
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find conversation: %w", err)
	}
	defer cursor.Close(ctx)

	var messages []*model.Message
	for cursor.Next(ctx) {
		var msg model.Message
		if err := cursor.Decode(&msg); err != nil {
			continue
		}
		messages = append(messages, &msg)
	}
	return messages, cursor.Err()
}
