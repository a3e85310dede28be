package mongostore

import (
	"context"
	"fmt"
	"log"
	"strings"

	"phone-mania/internal/shared/model"
	"phone-mania/internal/shared/storage"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ============================================================================
// PaymentStore
// ============================================================================

// RecordPayment 持久化支付记录并把对应预订标记为已支付
//
// 两次写入放在一个 MongoDB 事务里，消除"支付已落库、预订未更新"
// 的崩溃窗口。单机部署（无副本集）不支持事务，此时退化为顺序写
// 并记录告警日志，保持开发环境可用。
func (s *Store) RecordPayment(ctx context.Context, payment *model.Payment) (*storage.UpdateResult, error) {
	sess, err := s.client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("mongostore: start session: %w", err)
	}
	defer sess.EndSession(ctx)

	result, err := sess.WithTransaction(ctx, func(ctx context.Context) (interface{}, error) {
		return s.recordPaymentWrites(ctx, payment)
	})
	if err != nil {
		if !isTransactionUnsupported(err) {
			return nil, wrapError(err)
		}
		// 单机 MongoDB：退化为非事务顺序写
		log.Printf("WARNING: mongostore: transactions unsupported, recording payment non-atomically: %v", err)
		return s.recordPaymentWrites(ctx, payment)
	}
	return result.(*storage.UpdateResult), nil
}

// recordPaymentWrites 支付记录插入 + 预订 paid=true
func (s *Store) recordPaymentWrites(ctx context.Context, payment *model.Payment) (*storage.UpdateResult, error) {
	if err := insertOne(ctx, s.col(ColPayments), payment); err != nil {
		return nil, err
	}
	return setByID(ctx, s.col(ColBookings), payment.BookingID, bson.D{
		{Key: "paid", Value: true},
		{Key: "transactionId", Value: payment.TransactionID},
	}, false)
}

func (s *Store) GetPayment(ctx context.Context, id string) (*model.Payment, error) {
	return findOne[model.Payment](ctx, s.col(ColPayments), bson.D{{Key: "_id", Value: id}})
}

// isTransactionUnsupported 识别"当前拓扑不支持事务"类错误
func isTransactionUnsupported(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Transaction numbers are only allowed") ||
		strings.Contains(msg, "transactions are not supported") ||
		strings.Contains(msg, "IllegalOperation")
}
