// Package storage 定义持久化存储层抽象接口与领域错误
//
// 设计原则：依赖倒置 (DIP)
//   - 调用方只依赖接口，不知道具体实现
//   - 具体实现在子包中：mongostore/
//   - 初始化时通过依赖注入传入实现，处理器不持有全局句柄
package storage

import "errors"

var (
	// ErrNotFound 实体不存在
	// 替代 mongo.ErrNoDocuments
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate 唯一键冲突（如重复注册的邮箱）
	ErrDuplicate = errors.New("duplicate: entity already exists")
)
