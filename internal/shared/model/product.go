package model

import "time"

// Availability 商品可售状态
//
// 历史数据用字符串 "true"/"false" 存储，不是布尔值。保持原样，
// 避免一次性迁移全部存量文档。
type Availability string

const (
	AvailabilityAvailable Availability = "true"
	AvailabilitySold      Availability = "false"
)

// Product 二手手机商品
type Product struct {
	ID            string       `json:"id" bson:"_id"`
	BrandID       string       `json:"BrandId" bson:"BrandId"` // 历史字段名，首字母大写
	Name          string       `json:"name" bson:"name"`
	Image         string       `json:"image,omitempty" bson:"image,omitempty"`
	Location      string       `json:"location,omitempty" bson:"location,omitempty"`
	ResalePrice   string       `json:"resalePrice,omitempty" bson:"resalePrice,omitempty"`
	OriginalPrice string       `json:"originalPrice,omitempty" bson:"originalPrice,omitempty"`
	YearsOfUse    string       `json:"yearsOfUse,omitempty" bson:"yearsOfUse,omitempty"`
	Condition     string       `json:"condition,omitempty" bson:"condition,omitempty"`
	Description   string       `json:"description,omitempty" bson:"description,omitempty"`
	SellerName    string       `json:"sellerName,omitempty" bson:"sellerName,omitempty"`
	SellerEmail   string       `json:"sellerEmail,omitempty" bson:"sellerEmail,omitempty"`
	Phone         string       `json:"phone,omitempty" bson:"phone,omitempty"`
	PostedAt      string       `json:"postedAt,omitempty" bson:"postedAt,omitempty"`
	Verified      bool         `json:"verified" bson:"verified"`
	Advertised    bool         `json:"advertised" bson:"advertised"`
	Paid          bool         `json:"paid" bson:"paid"`
	Availability  Availability `json:"availability" bson:"availability"`
	CreatedAt     time.Time    `json:"created_at" bson:"created_at"`
}
