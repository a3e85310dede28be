// Package model 定义市场业务的核心数据模型
//
// 所有文档通过 bson tag 持久化到 MongoDB，通过 json tag 暴露给 API。
// 部分字段名沿用历史线上数据的写法（如 userType/BrandId），保证旧文档可读。
package model

import "time"

// UserRole 用户角色
type UserRole string

const (
	UserRoleAdmin UserRole = "admin"
	// UserRoleNormal 普通用户：历史数据中 role 字段缺省为空串
	UserRoleNormal UserRole = ""
)

// UserType 用户类型（买家/卖家）
type UserType string

const (
	UserTypeBuyer  UserType = "Buyer"
	UserTypeSeller UserType = "Seller"
)

// User 用户
type User struct {
	ID        string    `json:"id" bson:"_id"`
	Email     string    `json:"email" bson:"email"`
	Name      string    `json:"name,omitempty" bson:"name,omitempty"`
	Role      UserRole  `json:"role,omitempty" bson:"role,omitempty"`
	UserType  UserType  `json:"userType,omitempty" bson:"userType,omitempty"`
	Verified  bool      `json:"verified" bson:"verified"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// IsAdmin 是否为管理员
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == UserRoleAdmin
}

// IsSeller 是否为卖家
func (u *User) IsSeller() bool {
	return u != nil && u.UserType == UserTypeSeller
}
