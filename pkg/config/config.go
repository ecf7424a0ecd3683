package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	MongoDB   MongoDBConfig   `mapstructure:"mongodb"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Heartbeat HeartbeatConfig `mapstructure:"heartbeat"`
	Uploads   UploadsConfig   `mapstructure:"uploads"`
	Log       LogConfig       `mapstructure:"log"`
	CORS      CORSConfig      `mapstructure:"cors"`
}

// ServerConfig HTTP服务配置
type ServerConfig struct {
	Addr    string        `mapstructure:"addr"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// MongoDBConfig MongoDB配置
type MongoDBConfig struct {
	URI    string `mapstructure:"uri"`
	DBName string `mapstructure:"db_name"`
}

// AuthConfig 认证配置。签名密钥必须显式配置后传给认证器，
// 代码里不允许出现模块级默认密钥。
type AuthConfig struct {
	JWTSecret  string        `mapstructure:"jwt_secret"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
	BcryptCost int           `mapstructure:"bcrypt_cost"`
}

// HeartbeatConfig 心跳配置。Interval是探测周期，Timeout是等待
// pong的期限，两者解耦：一次网络抖动不会直接导致驱逐。
type HeartbeatConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// UploadsConfig 附件存储配置
type UploadsConfig struct {
	Dir string `mapstructure:"dir"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	Origin string `mapstructure:"origin"`
}

// Load 加载配置：读取可选的config.yaml，环境变量GOCHAT_*覆盖，
// 其余字段取默认值。
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.addr", ":5000")
	v.SetDefault("server.timeout", "30s")
	v.SetDefault("mongodb.uri", "mongodb://localhost:27017")
	v.SetDefault("mongodb.db_name", "gochat")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", "24h")
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("heartbeat.interval", "5s")
	v.SetDefault("heartbeat.timeout", "1s")
	v.SetDefault("uploads.dir", "./uploads")
	v.SetDefault("log.level", "info")
	v.SetDefault("cors.origin", "http://localhost:3001")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if path != "" {
		v.AddConfigPath(path)
	} else {
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("GOCHAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}
