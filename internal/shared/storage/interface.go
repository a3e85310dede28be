package storage

import (
	"context"

	"phone-mania/internal/shared/model"
)

// UpdateResult 更新操作结果
//
// 直接透传给 API 响应（原服务把驱动的 updateOne 结果原样返回，
// 这里收敛成稳定的字段集合）。
type UpdateResult struct {
	MatchedCount  int64  `json:"matched_count"`
	ModifiedCount int64  `json:"modified_count"`
	UpsertedID    string `json:"upserted_id,omitempty"`
}

// UserStore 用户存储
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	// SetUserRole 修改用户角色，upsert 语义与原服务一致
	SetUserRole(ctx context.Context, id string, role model.UserRole) (*UpdateResult, error)
	// SetUserVerified 标记用户已认证
	SetUserVerified(ctx context.Context, id string) (*UpdateResult, error)
	// DeleteUser 返回删除条数；零匹配不是错误
	DeleteUser(ctx context.Context, id string) (int64, error)
}

// ProductStore 商品存储
type ProductStore interface {
	CreateProduct(ctx context.Context, product *model.Product) error
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	ListProducts(ctx context.Context) ([]*model.Product, error)
	ListProductsByBrand(ctx context.Context, brandID string) ([]*model.Product, error)
	// MarkProductSold 售出标记：固定写 paid=true、availability="false"，
	// 无视调用方补丁内容（原服务的行为约定）
	MarkProductSold(ctx context.Context, id string) (*UpdateResult, error)
	DeleteProduct(ctx context.Context, id string) (int64, error)
}

// BookingStore 预订存储
type BookingStore interface {
	CreateBooking(ctx context.Context, booking *model.Booking) error
	GetBooking(ctx context.Context, id string) (*model.Booking, error)
	ListBookingsByEmail(ctx context.Context, email string) ([]*model.Booking, error)
	DeleteBooking(ctx context.Context, id string) (int64, error)
}

// ReportStore 投诉存储
type ReportStore interface {
	CreateReport(ctx context.Context, report *model.Report) error
	ListReports(ctx context.Context) ([]*model.Report, error)
	DeleteReport(ctx context.Context, id string) (int64, error)
}

// PaymentStore 支付存储
type PaymentStore interface {
	// RecordPayment 持久化支付记录并把对应预订标记为已支付。
	// 两次写入在一个事务里完成，返回预订更新结果。
	RecordPayment(ctx context.Context, payment *model.Payment) (*UpdateResult, error)
	GetPayment(ctx context.Context, id string) (*model.Payment, error)
}

// PersistentStore 聚合全部领域存储
type PersistentStore interface {
	UserStore
	ProductStore
	BookingStore
	ReportStore
	PaymentStore

	Close() error
}
