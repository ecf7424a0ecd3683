package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User 用户文档
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username  string             `bson:"username" json:"username"`
	Password  string             `bson:"password" json:"-"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// Message 消息文档。中继时创建一次，之后不可变；
// 本服务从不更新或删除消息。
type Message struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Sender    string             `bson:"sender" json:"sender"`
	Recipient string             `bson:"recipient" json:"recipient"`
	Text      string             `bson:"text,omitempty" json:"text,omitempty"`
	File      string             `bson:"file,omitempty" json:"file,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// ChatEvent 客户端入站消息帧
type ChatEvent struct {
	Recipient string       `json:"recipient"`
	Text      string       `json:"text,omitempty"`
	File      *FilePayload `json:"file,omitempty"`
}

// FilePayload 附件的内联编码，Data是data-URL形式的base64文本
type FilePayload struct {
	Name string `json:"name"`
	Data string `json:"data"`
}

// Delivery 出站投递帧，File为落盘后的文件名
type Delivery struct {
	ID        string `json:"id"`
	Text      string `json:"text,omitempty"`
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	File      string `json:"file,omitempty"`
}

// OnlineUser 在线名单条目
type OnlineUser struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// RosterPush 在线名单推送帧
type RosterPush struct {
	Online []OnlineUser `json:"online"`
}

// ErrorFrame 发给出错连接的错误帧
type ErrorFrame struct {
	Error string `json:"error"`
}
