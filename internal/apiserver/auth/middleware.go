package auth

import (
	"context"
	"log"
	"net/http"
	"strings"

	"phone-mania/internal/shared/model"
)

// UserStore 鉴权需要的最小用户存储接口
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// Middleware 守卫中间件类型
type Middleware func(http.HandlerFunc) http.HandlerFunc

// RequireAuth 认证守卫：证明身份，不证明权限
//
//   - 缺少 Authorization 头 → 401
//   - Bearer 令牌无效或过期 → 403
//   - 有效 → 声明注入 context，放行
func RequireAuth(cfg Config) Middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			claims, err := ParseToken(cfg, token)
			if err != nil {
				log.Printf("[auth] token parse error: %v", err)
				writeError(w, http.StatusForbidden, "Forbidden")
				return
			}

			next(w, r.WithContext(WithClaims(r.Context(), claims)))
		}
	}
}

// RequireAdmin 授权守卫：必须在 RequireAuth 之后组合
//
// 角色从数据库按声明邮箱实时读取，而不是信任令牌内容——
// 管理员被降级后下一个请求立即失效。
func RequireAdmin(store UserStore) Middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims := GetClaims(r.Context())
			if claims == nil {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			user, err := store.GetUserByEmail(r.Context(), claims.Email)
			if err != nil {
				log.Printf("[auth] GetUserByEmail error: %v", err)
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
			if !user.IsAdmin() {
				writeError(w, http.StatusForbidden, "Forbidden")
				return
			}

			next(w, r)
		}
	}
}

// bearerToken 提取 Bearer 令牌
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}
