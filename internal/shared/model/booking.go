package model

import "time"

// Booking 购买预订
//
// 在结算意图创建前由买家提交。Price 是带千分位分组的十进制字符串
// （如 "1,234.50"），由支付模块解析成最小货币单位。
type Booking struct {
	ID          string    `json:"id" bson:"_id"`
	Email       string    `json:"email" bson:"email"` // 买家邮箱，所有权键
	BuyerName   string    `json:"buyerName,omitempty" bson:"buyerName,omitempty"`
	Phone       string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Location    string    `json:"location,omitempty" bson:"location,omitempty"`
	ProductID   string    `json:"productId" bson:"productId"`
	ProductName string    `json:"productName,omitempty" bson:"productName,omitempty"`
	Price       string    `json:"price" bson:"price"`
	Paid        bool      `json:"paid" bson:"paid"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}
