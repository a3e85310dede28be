package model

import "time"

// Report 商品投诉
type Report struct {
	ID            string    `json:"id" bson:"_id"`
	ProductID     string    `json:"productId,omitempty" bson:"productId,omitempty"`
	ProductName   string    `json:"productName,omitempty" bson:"productName,omitempty"`
	SellerName    string    `json:"sellerName,omitempty" bson:"sellerName,omitempty"`
	Reason        string    `json:"reason,omitempty" bson:"reason,omitempty"`
	ReporterEmail string    `json:"reporterEmail,omitempty" bson:"reporterEmail,omitempty"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
}
