// Package config 统一配置管理
//
// 配置加载策略：
//  1. 从 .env 加载敏感信息（数据库口令、JWT 密钥、Stripe 密钥）和 APP_ENV
//  2. 根据 APP_ENV 加载对应的 configs/{env}.yaml 配置文件
//  3. 环境变量可覆盖 YAML 配置
//
// 使用方式：
//   - 开发环境: APP_ENV=dev (默认)
//   - 测试环境: APP_ENV=test
//   - 生产环境: APP_ENV=prod
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment 环境类型
type Environment string

const (
	EnvProduction  Environment = "prod"
	EnvTest        Environment = "test" // 测试环境（集成测试 + E2E 共用）
	EnvDevelopment Environment = "dev"
)

// YAMLConfig YAML 配置文件结构
type YAMLConfig struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Booking  BookingConfig  `yaml:"booking"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type DatabaseConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	User string `yaml:"user"`
	Name string `yaml:"name"`
}

// AuthConfig JWT 签发配置（密钥走 .env，不进 YAML）
type AuthConfig struct {
	AccessTokenTTL time.Duration `yaml:"access_token_ttl"`
}

// BookingConfig 预订模块配置
type BookingConfig struct {
	// DeletePolicy 删除授权策略：any_authenticated（历史默认）或 owner_or_admin
	DeletePolicy string `yaml:"delete_policy"`
}

// Config 应用配置（最终使用的配置）
type Config struct {
	Env            Environment
	MongoURI       string
	MongoDatabase  string
	APIPort        string
	JWTSecret      string
	AccessTokenTTL time.Duration
	StripeSecret   string
	AdminEmail     string
	BookingPolicy  string
}

var configPaths = []string{
	"configs",
	"../configs",
	"../../configs",
	"../../../configs",
}

var envPaths = []string{
	".env",
	"../.env",
	"../../.env",
	"../../../.env",
}

// Load 加载配置
// 1. 加载 .env（敏感信息 + APP_ENV）
// 2. 根据 APP_ENV 加载 configs/{env}.yaml
// 3. 构建最终配置
func Load() *Config {
	// 加载 .env
	for _, p := range envPaths {
		if err := godotenv.Load(p); err == nil {
			break
		}
	}

	// 解析环境
	env := parseEnv(getEnv("APP_ENV", "dev"))

	// 加载 YAML 配置
	yamlCfg := loadYAMLConfig(env)

	// 从环境变量获取敏感信息
	dbUser := getEnv("DB_USER", yamlCfg.Database.User)
	dbPass := os.Getenv("DB_PASS")

	// 构建最终配置
	cfg := &Config{
		Env:            env,
		MongoURI:       getEnv("MONGO_URI", buildMongoURI(yamlCfg.Database, dbUser, dbPass)),
		MongoDatabase:  yamlCfg.Database.Name,
		APIPort:        getEnv("PORT", yamlCfg.Server.Port),
		JWTSecret:      os.Getenv("ACCESS_TOKEN"),
		AccessTokenTTL: yamlCfg.Auth.AccessTokenTTL,
		StripeSecret:   os.Getenv("STRIPE_SECRET"),
		AdminEmail:     os.Getenv("ADMIN_EMAIL"),
		BookingPolicy:  yamlCfg.Booking.DeletePolicy,
	}

	cfg.validate()

	return cfg
}

// loadYAMLConfig 加载 YAML 配置文件
// 加载顺序：默认值 → common.yaml → {env}.yaml
func loadYAMLConfig(env Environment) *YAMLConfig {
	// 1. 初始化默认值
	cfg := &YAMLConfig{
		Server:   ServerConfig{Port: "5000"},
		Database: DatabaseConfig{Host: "localhost", Port: 27017, Name: "phone-mania"},
		Auth:     AuthConfig{AccessTokenTTL: 24 * time.Hour},
		Booking:  BookingConfig{DeletePolicy: "any_authenticated"},
	}

	// 2. 加载 common.yaml（公共配置）
	for _, base := range configPaths {
		path := filepath.Join(base, "common.yaml")
		if data, err := os.ReadFile(path); err == nil {
			yaml.Unmarshal(data, cfg)
			break
		}
	}

	// 3. 加载 {env}.yaml（环境特定配置，覆盖公共配置）
	filename := fmt.Sprintf("%s.yaml", env)
	for _, base := range configPaths {
		path := filepath.Join(base, filename)
		if data, err := os.ReadFile(path); err == nil {
			yaml.Unmarshal(data, cfg)
			break
		}
	}

	return cfg
}

// buildMongoURI 构建 MongoDB 连接字符串
func buildMongoURI(db DatabaseConfig, user, password string) string {
	if user == "" {
		return fmt.Sprintf("mongodb://%s:%d", db.Host, db.Port)
	}
	return fmt.Sprintf("mongodb://%s:%s@%s:%d", user, password, db.Host, db.Port)
}

func parseEnv(env string) Environment {
	switch strings.ToLower(env) {
	case "test":
		return EnvTest
	case "prod", "production":
		return EnvProduction
	default:
		return EnvDevelopment
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsTest 是否为测试环境
func (c *Config) IsTest() bool {
	return c.Env == EnvTest
}

// String 返回配置摘要（隐藏口令与密钥）
func (c *Config) String() string {
	return fmt.Sprintf("Config{Env: %s, Mongo: %s, DB: %s, Port: %s, BookingPolicy: %s}",
		c.Env, maskPassword(c.MongoURI), c.MongoDatabase, c.APIPort, c.BookingPolicy)
}

// maskPassword 隐藏连接串中的口令
func maskPassword(uri string) string {
	re := regexp.MustCompile(`(://[^:@/]+:)([^@]+)(@)`)
	return re.ReplaceAllString(uri, "${1}***${3}")
}

// validate 验证并填充默认值
func (c *Config) validate() {
	if c.APIPort == "" {
		c.APIPort = "5000"
	}
	if c.MongoDatabase == "" {
		c.MongoDatabase = "phone-mania"
	}
	if c.AccessTokenTTL == 0 {
		c.AccessTokenTTL = 24 * time.Hour
	}
	if c.BookingPolicy == "" {
		c.BookingPolicy = "any_authenticated"
	}
}
