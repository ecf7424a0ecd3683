package service

import "sync"

// Registry 进程内在线连接集合。连接集合是各连接处理协程之间
// 唯一的共享状态，统一由这把读写锁保护。
type Registry struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewRegistry 创建注册表
func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[string]*Client),
	}
}

// Add 接纳一条连接。同一传输句柄只会对应一个Client。
func (r *Registry) Add(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[c.ID] = c
}

// Remove 移除一条连接，返回是否真的移除了。
// 对已不在表内的连接调用是无操作。
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[id]; !ok {
		return false
	}
	delete(r.clients, id)
	return true
}

// FindByUser 返回绑定了指定用户的全部连接。
// 一个用户可能同时有多条连接（多个浏览器标签页）。
func (r *Registry) FindByUser(userID string) []*Client {
	if userID == "" {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*Client
	for _, c := range r.clients {
		if c.UserID == userID {
			matched = append(matched, c)
		}
	}
	return matched
}

// Snapshot 返回当前连接集合的时点副本。副本产生之后的
// 接纳与驱逐不会反映在其中。
func (r *Registry) Snapshot() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clients := make([]*Client, 0, len(r.clients))
	for _, c := range r.clients {
		clients = append(clients, c)
	}
	return clients
}

// Len 当前连接数
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}
