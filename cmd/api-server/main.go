// Package main API Server 入口
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"phone-mania/internal/apiserver/auth"
	"phone-mania/internal/apiserver/booking"
	"phone-mania/internal/apiserver/payment"
	"phone-mania/internal/apiserver/server"
	"phone-mania/internal/config"
	"phone-mania/internal/shared/model"
	"phone-mania/internal/shared/storage"
	"phone-mania/internal/shared/storage/mongostore"
)

func main() {
	// 加载配置（自动加载 .env，根据 APP_ENV 切换数据库）
	cfg := config.Load()

	log.Printf("Starting API Server... [env=%s]", cfg.Env)
	log.Printf("Config: %s", cfg.String())

	if cfg.JWTSecret == "" {
		log.Fatal("ACCESS_TOKEN is not set; refusing to start without a JWT signing key")
	}

	// 初始化 MongoDB（持久化业务数据）
	store, err := mongostore.NewStore(cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer store.Close()
	log.Println("Connected to MongoDB")

	// 引导管理员账号（ADMIN_EMAIL 配置时）
	if cfg.AdminEmail != "" {
		if err := ensureAdminUser(context.Background(), store, cfg.AdminEmail); err != nil {
			log.Fatalf("Failed to bootstrap admin user: %v", err)
		}
	}

	// Stripe 支付桥接（未配置密钥时支付意图接口返回 503）
	var intents payment.IntentCreator
	if cfg.StripeSecret != "" {
		intents = payment.NewStripeBridge(cfg.StripeSecret)
		log.Println("Stripe payment bridge enabled")
	} else {
		log.Println("WARNING: STRIPE_SECRET not set, payment intents disabled")
	}

	authCfg := auth.Config{
		JWTSecret:      cfg.JWTSecret,
		AccessTokenTTL: cfg.AccessTokenTTL,
	}

	h := server.NewHandler(store, authCfg, intents, booking.DeletePolicy(cfg.BookingPolicy))

	srv := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      h.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 优雅关闭
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("API Server listening on :%s", cfg.APIPort)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}

	fmt.Println("Server stopped")
}

// ensureAdminUser 保证指定邮箱存在且具备管理员角色。
// 用户不存在时创建，已存在但非管理员时提升角色。
func ensureAdminUser(ctx context.Context, store storage.UserStore, email string) error {
	user, err := store.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		user = &model.User{
			ID:        newUserID(),
			Email:     email,
			Role:      model.UserRoleAdmin,
			CreatedAt: time.Now().UTC(),
		}
		if err := store.CreateUser(ctx, user); err != nil {
			return err
		}
		log.Printf("[bootstrap] created admin user %s", email)
		return nil
	}
	if user.IsAdmin() {
		return nil
	}
	if _, err := store.SetUserRole(ctx, user.ID, model.UserRoleAdmin); err != nil {
		return err
	}
	log.Printf("[bootstrap] promoted %s to admin", email)
	return nil
}

// newUserID 生成用户 ID，与 user 包的注册接口同款格式
func newUserID() string {
	b := make([]byte, 6)
	rand.Read(b)
	return "usr-" + hex.EncodeToString(b)
}
