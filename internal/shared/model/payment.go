package model

import "time"

// Payment 支付记录
//
// 创建后不可变。BookingID 在线上协议中叫 productId——历史前端把
// 预订 ID 放在这个字段里，改名会破坏存量客户端，只在 Go 侧改名。
type Payment struct {
	ID            string    `json:"id" bson:"_id"`
	BookingID     string    `json:"productId" bson:"productId"`
	Email         string    `json:"email,omitempty" bson:"email,omitempty"`
	Price         string    `json:"price,omitempty" bson:"price,omitempty"`
	Amount        int64     `json:"amount" bson:"amount"` // 最小货币单位（美分）
	TransactionID string    `json:"transactionId,omitempty" bson:"transactionId,omitempty"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
}
