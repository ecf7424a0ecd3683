package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gochat/dao"
	"gochat/model"
	"gochat/pkg/filestore"
	"gochat/pkg/logger"
)

// fakeConn 内存传输端，记录写入的帧和探测次数
type fakeConn struct {
	mu       sync.Mutex
	frames   [][]byte
	pings    int
	closed   bool
	failJSON bool
	onPing   func()
}

func (f *fakeConn) WriteJSON(v interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failJSON {
		return errors.New("write failed")
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	f.frames = append(f.frames, b)
	return nil
}

func (f *fakeConn) WriteControl(messageType int, data []byte, deadline time.Time) error {
	f.mu.Lock()
	f.pings++
	cb := f.onPing
	f.mu.Unlock()
	if cb != nil {
		cb()
	}
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

func (f *fakeConn) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// rosters 解出全部在线名单帧
func (f *fakeConn) rosters() []model.RosterPush {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []model.RosterPush
	for _, frame := range f.frames {
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(frame, &probe); err != nil {
			continue
		}
		if _, ok := probe["online"]; !ok {
			continue
		}
		var push model.RosterPush
		if err := json.Unmarshal(frame, &push); err == nil {
			out = append(out, push)
		}
	}
	return out
}

// deliveries 解出全部投递帧
func (f *fakeConn) deliveries() []model.Delivery {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []model.Delivery
	for _, frame := range f.frames {
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(frame, &probe); err != nil {
			continue
		}
		if _, ok := probe["sender"]; !ok {
			continue
		}
		var d model.Delivery
		if err := json.Unmarshal(frame, &d); err == nil {
			out = append(out, d)
		}
	}
	return out
}

// fakeMessageDAO 内存消息存储
type fakeMessageDAO struct {
	mu       sync.Mutex
	saved    []*model.Message
	failSave bool
}

func (f *fakeMessageDAO) SaveMessage(ctx context.Context, message *model.Message) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSave {
		return primitive.NilObjectID, errors.New("message store unavailable")
	}
	message.ID = primitive.NewObjectID()
	copied := *message
	f.saved = append(f.saved, &copied)
	return message.ID, nil
}

func (f *fakeMessageDAO) GetConversation(ctx context.Context, userA, userB string) ([]*model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*model.Message
	for _, m := range f.saved {
		if (m.Sender == userA && m.Recipient == userB) || (m.Sender == userB && m.Recipient == userA) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeMessageDAO) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

// fakeUserDAO 内存用户存储
type fakeUserDAO struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newFakeUserDAO() *fakeUserDAO {
	return &fakeUserDAO{users: make(map[string]*model.User)}
}

func (f *fakeUserDAO) CreateUser(ctx context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.Username]; ok {
		return dao.ErrUserExists
	}
	user.ID = primitive.NewObjectID()
	copied := *user
	f.users[user.Username] = &copied
	return nil
}

func (f *fakeUserDAO) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[username]
	if !ok {
		return nil, dao.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserDAO) ListUsers(ctx context.Context) ([]*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.User
	for _, u := range f.users {
		copied := *u
		out = append(out, &copied)
	}
	return out, nil
}

// newTestService 组装带内存依赖的服务。默认探测周期取1小时，
// 心跳相关的测试自己传更短的参数。
func newTestService(t *testing.T, opts Options) (*Service, *fakeMessageDAO, *fakeUserDAO) {
	t.Helper()

	if opts.ProbeInterval == 0 {
		opts.ProbeInterval = time.Hour
	}
	if opts.ProbeTimeout == 0 {
		opts.ProbeTimeout = time.Hour
	}

	files, err := filestore.New(t.TempDir())
	if err != nil {
		t.Fatalf("filestore.New: %v", err)
	}

	messages := &fakeMessageDAO{}
	users := newFakeUserDAO()
	svc := NewService(users, messages, files, opts, logger.NewNop())
	return svc, messages, users
}

// admitClient 创建并接纳一条连接，userID为空时保持匿名
func admitClient(svc *Service, conn Conn, userID, username string) *Client {
	c := NewClient(conn)
	if userID != "" {
		c.Bind(userID, username)
	}
	svc.Admit(c)
	return c
}

// waitFor 轮询等待条件成立
func waitFor(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal(msg)
}
