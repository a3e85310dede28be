package payment

import (
	"context"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
)

// IntentCreator 支付桥接口：在外部支付服务创建支付意图，
// 返回客户端用来完成扣款的 client secret
type IntentCreator interface {
	CreateIntent(ctx context.Context, amount int64, currency string) (clientSecret string, err error)
}

// StripeBridge 基于 Stripe PaymentIntents 的支付桥
type StripeBridge struct {
	api *client.API
}

// NewStripeBridge 创建 Stripe 支付桥
// secretKey 来自 STRIPE_SECRET 环境变量
func NewStripeBridge(secretKey string) *StripeBridge {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeBridge{api: api}
}

// CreateIntent 创建 card 渠道的支付意图
// amount 为最小货币单位（美分）
func (b *StripeBridge) CreateIntent(ctx context.Context, amount int64, currency string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	intent, err := b.api.PaymentIntents.New(params)
	if err != nil {
		return "", err
	}
	return intent.ClientSecret, nil
}

var _ IntentCreator = (*StripeBridge)(nil)
