package filestore

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store 附件落盘存储。文件名由服务端生成（时间戳+随机段，
// 保留原始扩展名），并发写入不会互相覆盖。
type Store struct {
	dir string
}

// New 创建存储，目录不存在时自动创建
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir 返回存储目录
func (s *Store) Dir() string {
	return s.dir
}

// Save 把内联编码的附件解码并写盘，返回生成的文件名。
// data形如 "data:image/png;base64,...."，逗号之后才是base64体；
// 没有前缀时按纯base64处理。
func (s *Store) Save(name, data string) (string, error) {
	raw := data
	if idx := strings.IndexByte(data, ','); idx >= 0 {
		raw = data[idx+1:]
	}

	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return "", fmt.Errorf("decode attachment: %w", err)
	}

	filename := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), filepath.Ext(name))
	if err := os.WriteFile(filepath.Join(s.dir, filename), decoded, 0o644); err != nil {
		return "", fmt.Errorf("write attachment: %w", err)
	}

	return filename, nil
}
