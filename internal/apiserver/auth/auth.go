// Package auth 认证与鉴权：JWT 令牌签发/校验、HTTP 守卫中间件
//
// 身份与权限刻意不对称：
//   - 身份（email）缓存在签名令牌里，校验不回库
//   - 权限（admin 角色）每次请求从数据库重新读取，角色回收立即生效
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// contextKey context 键类型
type contextKey string

const ctxKeyClaims contextKey = "auth_claims"

// Config 认证配置
type Config struct {
	// JWTSecret HS256 签名密钥，来自 ACCESS_TOKEN 环境变量
	JWTSecret string `yaml:"jwt_secret"`
	// AccessTokenTTL 令牌有效期。没有刷新、轮换或吊销机制，
	// 令牌在整个签名有效期内可用
	AccessTokenTTL time.Duration `yaml:"access_token_ttl"`
}

// DefaultConfig 返回默认认证配置
func DefaultConfig() Config {
	return Config{
		JWTSecret:      "",
		AccessTokenTTL: 24 * time.Hour,
	}
}

// ============================================================================
// JWT Token
// ============================================================================

// Claims JWT 声明：只携带邮箱身份
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// IssueToken 为指定邮箱签发访问令牌
//
// 邮箱是否对应真实用户由调用方在签发前检查（签发时检查一次，
// 之后校验不再回库）。
func IssueToken(cfg Config, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.AccessTokenTTL)),
		},
		Email: email,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// ParseToken 解析并验证 JWT（签名 + 有效期，不查数据库）
func ParseToken(cfg Config, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.Email == "" {
		return nil, fmt.Errorf("token missing email claim")
	}
	return claims, nil
}

// ============================================================================
// Context 辅助函数
// ============================================================================

// WithClaims 将解码后的声明注入 context
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, ctxKeyClaims, claims)
}

// GetClaims 从 context 获取声明；未认证请求返回 nil
func GetClaims(ctx context.Context) *Claims {
	claims, _ := ctx.Value(ctxKeyClaims).(*Claims)
	return claims
}
