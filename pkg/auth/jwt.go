package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Config 签名配置，构造认证器时显式传入
type Config struct {
	Secret   string
	TokenTTL time.Duration
}

// Claims 连接身份声明
type Claims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// ErrMissingSecret 未配置签名密钥
var ErrMissingSecret = errors.New("auth: signing secret is required")

// Authenticator 负责签发与校验身份token
type Authenticator struct {
	secret []byte
	ttl    time.Duration
}

// NewAuthenticator 创建认证器
func NewAuthenticator(cfg Config) (*Authenticator, error) {
	if cfg.Secret == "" {
		return nil, ErrMissingSecret
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Authenticator{
		secret: []byte(cfg.Secret),
		ttl:    ttl,
	}, nil
}

// Sign 为一个用户签发token
func (a *Authenticator) Sign(userID, username string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// Verify 校验token并返回身份声明。任何失败（缺失、签名不符、
// 过期）都以error返回，由调用方决定降级处理，绝不中止进程。
func (a *Authenticator) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.UserID == "" {
		return nil, errors.New("token carries no user identity")
	}
	return claims, nil
}
